package layout

import "github.com/microcosm-cc/bluemonday"

// sanitizePolicy keeps page structure and inline styling (the whole
// point of a layout snapshot) while stripping scripts and event
// handlers so a stored snapshot is inert when re-rendered.
var sanitizePolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("style", "class", "id").Globally()
	p.AllowElements("main", "nav", "header", "footer", "aside", "section", "article", "figure", "figcaption", "button", "label")
	p.AllowDataAttributes()
	return p
}()

// Sanitize strips active content from snapshot markup.
func Sanitize(html string) string {
	return sanitizePolicy.Sanitize(html)
}

// Package extract implements selector-based content extraction from raw HTML.
//
// It supports three selection modes:
//   - css:   a practical CSS selector subset (tag, #id, .class, [attr=val],
//     descendant combinator)
//   - xpath: a practical XPath subset (absolute paths, // descendants,
//     attribute and positional predicates)
//   - text:  whole-document visible text with boilerplate removal
//
// The pipeline: raw HTML → parse → select regions → collect text/markup.
package extract

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Mode selects the extraction strategy for a view.
type Mode string

const (
	ModeCSS   Mode = "css"
	ModeXPath Mode = "xpath"
	ModeText  Mode = "text"
)

// Result is the output of one extraction.
type Result struct {
	Text  string `json:"text"`  // clean extracted text
	HTML  string `json:"html"`  // extracted markup
	Title string `json:"title"` // page title if found
	Hash  string `json:"hash"`  // SHA-256 of extracted text
}

// Options controls extraction behaviour.
type Options struct {
	Selector   string // CSS selector or XPath expression; unused for ModeText
	Mode       Mode
	MinTextLen int // minimum text length to accept a region (default: 1)
}

func (o *Options) defaults() {
	if o.Mode == "" {
		o.Mode = ModeCSS
	}
	if o.MinTextLen <= 0 {
		o.MinTextLen = 1
	}
}

// Extract runs the extraction pipeline on raw HTML.
func Extract(rawHTML []byte, opts Options) (*Result, error) {
	opts.defaults()

	doc, err := html.Parse(bytes.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("extract: parse HTML: %w", err)
	}

	title := findTitle(doc)

	var matches []*html.Node
	switch opts.Mode {
	case ModeCSS:
		matches = QuerySelectorAll(doc, opts.Selector)
	case ModeXPath:
		matches = EvaluateXPath(doc, opts.Selector)
	case ModeText:
		matches = contentRoots(doc)
	default:
		return nil, fmt.Errorf("extract: unknown mode %q", opts.Mode)
	}

	var allText, allHTML []string
	for _, n := range matches {
		text := CollectText(n)
		if len(text) >= opts.MinTextLen {
			allText = append(allText, text)
			allHTML = append(allHTML, renderNode(n))
		}
	}

	if len(allText) == 0 {
		return nil, fmt.Errorf("extract: no content matched %s selector %q", opts.Mode, opts.Selector)
	}

	combined := strings.Join(allText, "\n\n")
	return &Result{
		Text:  combined,
		HTML:  strings.Join(allHTML, "\n"),
		Title: title,
		Hash:  hashText(combined),
	}, nil
}

// contentRoots returns the best whole-document content roots for ModeText:
// semantic landmarks if present, otherwise the body.
func contentRoots(doc *html.Node) []*html.Node {
	for _, tag := range []atom.Atom{atom.Main, atom.Article} {
		if nodes := findAllByTag(doc, tag); len(nodes) > 0 {
			return nodes
		}
	}
	if body := findFirstByTag(doc, atom.Body); body != nil {
		return []*html.Node{body}
	}
	return []*html.Node{doc}
}

// findTitle extracts the page <title> text.
func findTitle(doc *html.Node) string {
	var title string
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Title {
			if n.FirstChild != nil {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(doc)
	return title
}

// hashText returns the SHA-256 hex digest of text.
func hashText(text string) string {
	h := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%x", h)
}

// renderNode serialises an HTML node subtree back to a string.
func renderNode(n *html.Node) string {
	var buf bytes.Buffer
	html.Render(&buf, n)
	return buf.String()
}

// CollectText extracts all visible text from a node subtree, skipping
// script/style/noscript and boilerplate regions.
func CollectText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
			if isBoilerplate(n) {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return sb.String()
}

// isBoilerplate checks if a node is likely boilerplate (nav, footer, etc).
func isBoilerplate(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Nav, atom.Footer, atom.Aside:
		return true
	}
	for _, attr := range n.Attr {
		if attr.Key == "role" {
			switch attr.Val {
			case "navigation", "banner", "contentinfo", "complementary":
				return true
			}
		}
	}
	return false
}

// findAllByTag finds all elements with a specific tag.
func findAllByTag(root *html.Node, tag atom.Atom) []*html.Node {
	var results []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == tag {
			results = append(results, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return results
}

// findFirstByTag finds the first element with a specific tag.
func findFirstByTag(root *html.Node, tag atom.Atom) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == tag {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

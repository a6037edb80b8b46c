package dom

import "strings"

// Decl is one inline style declaration.
type Decl struct {
	Property string
	Value    string
}

// ParseStyleText splits an inline style attribute into declarations,
// preserving order. Malformed fragments are skipped.
func ParseStyleText(s string) []Decl {
	var decls []Decl
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.IndexByte(part, ':')
		if idx <= 0 {
			continue
		}
		prop := strings.TrimSpace(part[:idx])
		val := strings.TrimSpace(part[idx+1:])
		if prop == "" {
			continue
		}
		decls = append(decls, Decl{Property: prop, Value: val})
	}
	return decls
}

// FormatStyleText renders declarations back to attribute form.
func FormatStyleText(decls []Decl) string {
	var b strings.Builder
	for i, d := range decls {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(d.Property)
		b.WriteString(": ")
		b.WriteString(d.Value)
	}
	return b.String()
}

// LookupStyle returns the last declared value for a property.
func LookupStyle(decls []Decl, property string) (string, bool) {
	for i := len(decls) - 1; i >= 0; i-- {
		if decls[i].Property == property {
			return decls[i].Value, true
		}
	}
	return "", false
}

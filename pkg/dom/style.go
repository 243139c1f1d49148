package dom

import "strings"

type styleDecl struct {
	property string
	value    string
}

func parseStyle(raw string) []styleDecl {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []styleDecl
	for _, part := range strings.Split(raw, ";") {
		property, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		property = strings.ToLower(strings.TrimSpace(property))
		value = strings.TrimSpace(value)
		if property == "" {
			continue
		}
		out = append(out, styleDecl{property: property, value: value})
	}
	return out
}

func formatStyle(decls []styleDecl) string {
	parts := make([]string, 0, len(decls))
	for _, decl := range decls {
		parts = append(parts, decl.property+": "+decl.value)
	}
	return strings.Join(parts, "; ")
}

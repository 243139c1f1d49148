package vanilla

import (
	"strings"

	"github.com/goliatone/go-onboarding/pkg/wizard"
)

func groupID(field wizard.Field) string {
	name := strings.TrimSpace(field.Name)
	if name == "" {
		name = strings.TrimPrefix(field.ElementID(), "id_")
	}
	return "group_" + name
}

func inputType(kind wizard.FieldKind) string {
	switch kind {
	case wizard.FieldNumber:
		return "number"
	case wizard.FieldEmail:
		return "email"
	case wizard.FieldFile:
		return "file"
	case wizard.FieldSecret:
		return "password"
	default:
		return "text"
	}
}

func acceptFor(extensions []string) string {
	if len(extensions) == 0 {
		return ""
	}
	out := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return strings.Join(out, ",")
}

package wizard

import "strings"

// FieldKind hints how a field is collected.
type FieldKind string

const (
	FieldText   FieldKind = "text"
	FieldNumber FieldKind = "number"
	FieldEmail  FieldKind = "email"
	FieldSelect FieldKind = "select"
	FieldFile   FieldKind = "file"
	FieldSecret FieldKind = "secret"
	FieldArea   FieldKind = "textarea"
)

// Option is a selectable value for FieldSelect fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Field describes an input owned by a step.
type Field struct {
	Name        string    `json:"name" yaml:"name"`
	ID          string    `json:"id,omitempty" yaml:"id,omitempty"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Kind        FieldKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Required    bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Default     string    `json:"default,omitempty" yaml:"default,omitempty"`
	Options     []Option  `json:"options,omitempty" yaml:"options,omitempty"`
}

// ElementID returns ID, falling back to Name.
func (f Field) ElementID() string {
	if f.ID != "" {
		return f.ID
	}
	return f.Name
}

// Conditional makes Field required while Indicator holds exactly Equals.
type Conditional struct {
	Indicator string `json:"indicator" yaml:"indicator"`
	Equals    string `json:"equals" yaml:"equals"`
	Field     string `json:"field" yaml:"field"`
}

// Applies reports whether the rule is active for the given source.
func (c Conditional) Applies(src FieldSource) bool {
	if src == nil || c.Indicator == "" {
		return false
	}
	value, ok := src.Value(c.Indicator)
	return ok && value == c.Equals
}

// Step describes one wizard page. Fields are kept in document order.
type Step struct {
	Number       int           `json:"number" yaml:"number"`
	Title        string        `json:"title,omitempty" yaml:"title,omitempty"`
	Fields       []Field       `json:"fields,omitempty" yaml:"fields,omitempty"`
	Conditionals []Conditional `json:"conditionals,omitempty" yaml:"conditionals,omitempty"`
}

// Required returns the names of required fields in order.
func (s Step) Required() []string {
	out := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		if field.Required {
			out = append(out, field.Name)
		}
	}
	return out
}

// Field returns the named field.
func (s Step) Field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// FieldSource exposes current field values by name.
type FieldSource interface {
	Value(name string) (string, bool)
}

// Values is a map-backed FieldSource.
type Values map[string]string

// Value implements FieldSource.
func (v Values) Value(name string) (string, bool) {
	if v == nil {
		return "", false
	}
	value, ok := v[name]
	return value, ok
}

// Blank reports whether a field value is missing once whitespace is trimmed.
func Blank(value string) bool {
	return strings.TrimSpace(value) == ""
}

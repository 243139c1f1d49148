package company

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed company.yaml
var schemaDocument []byte

const (
	schemaName       = "Company"
	fileExtensionKey = "x-file"
	lengthMessageKey = "x-message-length"
)

// FileRule restricts an uploaded file.
type FileRule struct {
	Extensions []string
	Types      []string
	MaxFiles   int
}

// Accepts reports whether filename carries one of the allowed extensions.
func (r FileRule) Accepts(filename string) bool {
	if len(r.Extensions) == 0 {
		return true
	}
	dot := strings.LastIndex(filename, ".")
	if dot < 0 {
		return false
	}
	ext := strings.ToLower(filename[dot+1:])
	for _, allowed := range r.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Constraint is the set of rules applied to one field.
type Constraint struct {
	Field         string
	Required      bool
	MinLength     int
	MaxLength     *int
	Format        string
	Enum          []string
	File          *FileRule
	LengthMessage string
}

// Constraints maps field names to their rules.
type Constraints map[string]Constraint

// Fields returns the constrained field names in lexical order.
func (c Constraints) Fields() []string {
	out := make([]string, 0, len(c))
	for name := range c {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Document returns the raw OpenAPI document describing the company routes.
func Document() []byte {
	return append([]byte(nil), schemaDocument...)
}

// LoadConstraints parses the embedded document.
func LoadConstraints(ctx context.Context) (Constraints, error) {
	return ParseConstraints(ctx, schemaDocument)
}

// ParseConstraints extracts the Company schema rules from an OpenAPI
// document.
func ParseConstraints(ctx context.Context, raw []byte) (Constraints, error) {
	if len(raw) == 0 {
		return nil, errors.New("company: schema document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("company: load schema: %w", err)
	}
	if doc.Components == nil {
		return nil, fmt.Errorf("company: schema %q not found", schemaName)
	}
	ref, ok := doc.Components.Schemas[schemaName]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("company: schema %q not found", schemaName)
	}

	required := make(map[string]bool, len(ref.Value.Required))
	for _, name := range ref.Value.Required {
		required[name] = true
	}

	out := make(Constraints, len(ref.Value.Properties))
	for name, prop := range ref.Value.Properties {
		if prop == nil || prop.Value == nil {
			continue
		}
		out[name] = convertProperty(name, required[name], prop.Value)
	}
	return out, nil
}

func convertProperty(name string, required bool, src *openapi3.Schema) Constraint {
	c := Constraint{
		Field:     name,
		Required:  required,
		MinLength: int(src.MinLength),
		Format:    src.Format,
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		c.MaxLength = &value
	}
	for _, value := range src.Enum {
		c.Enum = append(c.Enum, fmt.Sprint(value))
	}
	if msg, ok := src.Extensions[lengthMessageKey].(string); ok {
		c.LengthMessage = msg
	}
	if raw, ok := src.Extensions[fileExtensionKey].(map[string]any); ok {
		c.File = convertFileRule(raw)
	}
	return c
}

func convertFileRule(raw map[string]any) *FileRule {
	rule := &FileRule{
		Extensions: stringList(raw["extensions"]),
		Types:      stringList(raw["types"]),
	}
	switch value := raw["maxFiles"].(type) {
	case float64:
		rule.MaxFiles = int(value)
	case int:
		rule.MaxFiles = value
	}
	return rule
}

func stringList(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, strings.ToLower(fmt.Sprint(item)))
	}
	return out
}

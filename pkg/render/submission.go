package render

import (
	"sort"
	"strconv"
	"strings"
)

// Hidden input names the onboarding page posts back.
const (
	CSRFFieldName = "csrfmiddlewaretoken"
	StepFieldName = "wizard_step"
)

// HiddenField is a hidden input rendered inside the form.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	ID    string `json:"id,omitempty"`
}

// CSRFToken carries token under the CSRF field name.
func CSRFToken(token string) HiddenField {
	return HiddenField{Name: CSRFFieldName, Value: token}
}

// StepField carries the active wizard step. The controller keeps its value in
// sync through the element id.
func StepField(step int) HiddenField {
	return HiddenField{Name: StepFieldName, Value: strconv.Itoa(step), ID: "id_" + StepFieldName}
}

// MergeHiddenFields applies fields over base. Blank names are dropped and
// later fields win on name collisions.
func MergeHiddenFields(base []HiddenField, fields ...HiddenField) []HiddenField {
	byName := make(map[string]HiddenField, len(base)+len(fields))
	for _, field := range append(append([]HiddenField(nil), base...), fields...) {
		field.Name = strings.TrimSpace(field.Name)
		if field.Name == "" {
			continue
		}
		byName[field.Name] = field
	}
	return SortedHiddenFields(byName)
}

// SortedHiddenFields orders fields by name for deterministic markup.
func SortedHiddenFields(fields map[string]HiddenField) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	out := make([]HiddenField, 0, len(fields))
	for name, field := range fields {
		field.Name = name
		out = append(out, field)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

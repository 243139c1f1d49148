package wizard

// IssueKind classifies why a field failed step validation.
type IssueKind string

const (
	// IssueMissingRequired marks an empty required field.
	IssueMissingRequired IssueKind = "missing-required"
	// IssueConditionalMissing marks a field required only through a Conditional.
	IssueConditionalMissing IssueKind = "conditional-missing"
)

// Issue is a single failed field.
type Issue struct {
	Field string    `json:"field"`
	Kind  IssueKind `json:"kind"`
}

// Result is the outcome of validating a step.
type Result struct {
	Step   int     `json:"step"`
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Fields returns the failing field names in the order they were detected.
func (r Result) Fields() []string {
	out := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		out = append(out, issue.Field)
	}
	return out
}

// First returns the first failing field or the empty string.
func (r Result) First() string {
	if len(r.Issues) == 0 {
		return ""
	}
	return r.Issues[0].Field
}

// Validate checks the required fields of step in order and then its
// conditional rules. A conditional field is reported after every plain
// required field, and only once even if it is also marked required.
func Validate(step Step, src FieldSource) Result {
	result := Result{Step: step.Number, Valid: true}
	seen := make(map[string]struct{})

	for _, name := range step.Required() {
		if !missing(src, name) {
			continue
		}
		result.Valid = false
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		result.Issues = append(result.Issues, Issue{Field: name, Kind: IssueMissingRequired})
	}

	for _, rule := range step.Conditionals {
		if !rule.Applies(src) || !missing(src, rule.Field) {
			continue
		}
		result.Valid = false
		if _, dup := seen[rule.Field]; dup {
			continue
		}
		seen[rule.Field] = struct{}{}
		result.Issues = append(result.Issues, Issue{Field: rule.Field, Kind: IssueConditionalMissing})
	}

	return result
}

func missing(src FieldSource, name string) bool {
	if src == nil {
		return true
	}
	value, ok := src.Value(name)
	return !ok || Blank(value)
}

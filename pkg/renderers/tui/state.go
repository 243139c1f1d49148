package tui

import (
	"sort"
	"strings"
)

// State tracks collected answers and the errors still attached to them,
// keyed by form name. It satisfies wizard.FieldSource.
type State struct {
	values map[string]string
	errors map[string][]string
}

// NewState seeds the state with prefilled values and errors.
func NewState(prefill map[string]string, errs map[string][]string) *State {
	s := &State{
		values: make(map[string]string, len(prefill)),
		errors: make(map[string][]string, len(errs)),
	}
	for name, value := range prefill {
		s.values[name] = value
	}
	for name, messages := range errs {
		if len(messages) == 0 {
			continue
		}
		s.errors[name] = append([]string(nil), messages...)
	}
	return s
}

// Value implements wizard.FieldSource.
func (s *State) Value(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	value, ok := s.values[name]
	return value, ok
}

// Set stores value and drops the errors recorded for name.
func (s *State) Set(name, value string) {
	s.values[name] = value
	delete(s.errors, name)
}

// SetDefault stores value only when name has no answer yet.
func (s *State) SetDefault(name, value string) {
	if _, ok := s.values[name]; ok {
		return
	}
	s.values[name] = value
}

// ErrorsFor returns the errors attached to name.
func (s *State) ErrorsFor(name string) []string {
	if s == nil {
		return nil
	}
	return s.errors[name]
}

// SetErrors replaces every recorded error.
func (s *State) SetErrors(errs map[string][]string) {
	s.errors = make(map[string][]string, len(errs))
	for name, messages := range errs {
		s.errors[name] = append([]string(nil), messages...)
	}
}

// HasErrors reports whether any error is recorded.
func (s *State) HasErrors() bool {
	return s != nil && len(s.errors) > 0
}

// Values returns a copy of the answers.
func (s *State) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for name, value := range s.values {
		out[name] = value
	}
	return out
}

// Names returns answered names in lexical order.
func (s *State) Names() []string {
	out := make([]string, 0, len(s.values))
	for name := range s.values {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func blank(value string) bool {
	return strings.TrimSpace(value) == ""
}

package onboarding

import (
	"fmt"

	"github.com/goliatone/go-onboarding/pkg/dom"
)

// documentSource exposes document controls to wizard.Validate. Tracked
// controls are addressed by id (or a positional key when they have none);
// other names fall back to a document-wide id lookup.
type documentSource struct {
	doc     *dom.Document
	tracked map[string]*dom.Element
	order   int
}

func newDocumentSource(doc *dom.Document) *documentSource {
	return &documentSource{doc: doc, tracked: make(map[string]*dom.Element)}
}

func (s *documentSource) track(el *dom.Element) string {
	s.order++
	key := el.ID()
	if key == "" {
		key = fmt.Sprintf("#control-%d", s.order)
	}
	if _, exists := s.tracked[key]; exists && el.ID() != "" {
		key = fmt.Sprintf("%s#%d", key, s.order)
	}
	s.tracked[key] = el
	return key
}

func (s *documentSource) element(name string) *dom.Element {
	if el, ok := s.tracked[name]; ok {
		return el
	}
	return s.doc.ByID(name)
}

// Value implements wizard.FieldSource.
func (s *documentSource) Value(name string) (string, bool) {
	el := s.element(name)
	if el == nil {
		return "", false
	}
	return el.Value(), true
}

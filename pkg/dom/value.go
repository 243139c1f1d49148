package dom

import "golang.org/x/net/html"

// Value returns the current value of a form control: the value attribute for
// inputs, the selected option for selects and the text for textareas.
func (e *Element) Value() string {
	if e == nil {
		return ""
	}
	switch e.Tag() {
	case "select":
		option := e.selectedOption()
		if option == nil {
			return ""
		}
		return optionValue(option)
	case "textarea":
		return e.Text()
	default:
		value, _ := e.Attr("value")
		return value
	}
}

// SetValue updates the control value. For selects the matching option
// becomes selected; with no match nothing is selected.
func (e *Element) SetValue(value string) {
	if e == nil {
		return
	}
	switch e.Tag() {
	case "select":
		for _, option := range e.options() {
			if optionValue(option) == value {
				option.SetAttr("selected", "selected")
			} else {
				option.RemoveAttr("selected")
			}
		}
	case "textarea":
		for child := e.node.FirstChild; child != nil; {
			next := child.NextSibling
			e.node.RemoveChild(child)
			child = next
		}
		if value != "" {
			e.node.AppendChild(&html.Node{Type: html.TextNode, Data: value})
		}
	default:
		e.SetAttr("value", value)
	}
}

// Required reports whether the control carries the required attribute.
func (e *Element) Required() bool {
	return e.HasAttr("required")
}

// SetRequired toggles the required attribute.
func (e *Element) SetRequired(required bool) {
	if required {
		e.SetAttr("required", "required")
		return
	}
	e.RemoveAttr("required")
}

func (e *Element) options() []*Element {
	return e.QueryAll(".//option")
}

func (e *Element) selectedOption() *Element {
	options := e.options()
	if len(options) == 0 {
		return nil
	}
	for _, option := range options {
		if option.HasAttr("selected") {
			return option
		}
	}
	return options[0]
}

func optionValue(option *Element) string {
	if value, ok := option.Attr("value"); ok {
		return value
	}
	return option.Text()
}

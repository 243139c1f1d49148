package dom

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Element is a handle on a node of a Document. Handles are cheap; two handles
// on the same node compare equal through Same.
type Element struct {
	doc  *Document
	node *html.Node
}

// Node returns the underlying html node.
func (e *Element) Node() *html.Node {
	if e == nil {
		return nil
	}
	return e.node
}

// Same reports whether both handles point at the same node.
func (e *Element) Same(other *Element) bool {
	if e == nil || other == nil {
		return e == nil && other == nil
	}
	return e.node == other.node
}

// Tag returns the lower-case element name.
func (e *Element) Tag() string {
	if e == nil {
		return ""
	}
	return e.node.Data
}

// ID returns the id attribute.
func (e *Element) ID() string {
	value, _ := e.Attr("id")
	return value
}

// Attr returns an attribute value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, attr := range e.node.Attr {
		if attr.Namespace == "" && attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// SetAttr creates or replaces an attribute.
func (e *Element) SetAttr(name, value string) {
	if e == nil {
		return
	}
	for i, attr := range e.node.Attr {
		if attr.Namespace == "" && attr.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr deletes an attribute if present.
func (e *Element) RemoveAttr(name string) {
	if e == nil {
		return
	}
	out := e.node.Attr[:0]
	for _, attr := range e.node.Attr {
		if attr.Namespace == "" && attr.Key == name {
			continue
		}
		out = append(out, attr)
	}
	e.node.Attr = out
}

// Classes returns the class list.
func (e *Element) Classes() []string {
	value, _ := e.Attr("class")
	return strings.Fields(value)
}

// HasClass reports whether the class list contains class.
func (e *Element) HasClass(class string) bool {
	for _, existing := range e.Classes() {
		if existing == class {
			return true
		}
	}
	return false
}

// AddClass appends classes that are not already present.
func (e *Element) AddClass(classes ...string) {
	if e == nil {
		return
	}
	current := e.Classes()
	changed := false
	for _, class := range classes {
		class = strings.TrimSpace(class)
		if class == "" || contains(current, class) {
			continue
		}
		current = append(current, class)
		changed = true
	}
	if changed {
		e.SetAttr("class", strings.Join(current, " "))
	}
}

// RemoveClass drops classes from the class list.
func (e *Element) RemoveClass(classes ...string) {
	if e == nil {
		return
	}
	current := e.Classes()
	out := current[:0]
	for _, class := range current {
		if contains(classes, class) {
			continue
		}
		out = append(out, class)
	}
	if len(out) == len(e.Classes()) {
		return
	}
	e.SetAttr("class", strings.Join(out, " "))
}

// Closest walks up from the element (inclusive) to the first ancestor
// carrying class.
func (e *Element) Closest(class string) *Element {
	if e == nil {
		return nil
	}
	for node := e.node; node != nil; node = node.Parent {
		if node.Type != html.ElementNode {
			continue
		}
		candidate := &Element{doc: e.doc, node: node}
		if candidate.HasClass(class) {
			return candidate
		}
	}
	return nil
}

// Contains reports whether other is the element itself or one of its
// descendants.
func (e *Element) Contains(other *Element) bool {
	if e == nil || other == nil {
		return false
	}
	for node := other.node; node != nil; node = node.Parent {
		if node == e.node {
			return true
		}
	}
	return false
}

// Query returns the first descendant matching a relative XPath expression.
func (e *Element) Query(expr string) *Element {
	if e == nil {
		return nil
	}
	return e.doc.wrap(htmlquery.FindOne(e.node, expr))
}

// QueryAll returns every descendant matching a relative XPath expression.
func (e *Element) QueryAll(expr string) []*Element {
	if e == nil {
		return nil
	}
	return e.doc.wrapAll(htmlquery.Find(e.node, expr))
}

// ByClass returns descendants carrying class in document order.
func (e *Element) ByClass(class string) []*Element {
	return e.QueryAll(".//*" + ClassPredicate(class))
}

// Text returns the concatenated text content.
func (e *Element) Text() string {
	if e == nil {
		return ""
	}
	return htmlquery.InnerText(e.node)
}

// Focus moves document focus to the element.
func (e *Element) Focus() {
	if e == nil {
		return
	}
	e.doc.Focus(e)
}

// ScrollIntoView records the element as the document's scroll target.
func (e *Element) ScrollIntoView() {
	if e == nil {
		return
	}
	e.doc.ScrollIntoView(e)
}

// Style returns an inline style property.
func (e *Element) Style(property string) string {
	raw, _ := e.Attr("style")
	for _, decl := range parseStyle(raw) {
		if decl.property == property {
			return decl.value
		}
	}
	return ""
}

// SetStyle writes an inline style property, removing it when value is empty.
func (e *Element) SetStyle(property, value string) {
	if e == nil {
		return
	}
	raw, _ := e.Attr("style")
	decls := parseStyle(raw)
	found := false
	out := decls[:0]
	for _, decl := range decls {
		if decl.property == property {
			found = true
			if value == "" {
				continue
			}
			decl.value = value
		}
		out = append(out, decl)
	}
	if !found && value != "" {
		out = append(out, styleDecl{property: property, value: value})
	}
	if len(out) == 0 {
		e.RemoveAttr("style")
		return
	}
	e.SetAttr("style", formatStyle(out))
}

// Visible reports whether the inline display property is not "none".
func (e *Element) Visible() bool {
	return e != nil && e.Style("display") != "none"
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

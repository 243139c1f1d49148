package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// ErrNilDocument is returned by operations on a nil or empty document.
var ErrNilDocument = errors.New("dom: document is nil")

// Document wraps a parsed HTML tree plus the runtime state a browser would
// keep alongside it.
type Document struct {
	root      *html.Node
	listeners map[*html.Node]map[string][]Listener
	tasks     *TaskQueue
	focused   *html.Node
	scrolls   []*html.Node
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	if r == nil {
		return nil, ErrNilDocument
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return New(root), nil
}

// ParseString parses an HTML document held in memory.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// New wraps an existing node tree.
func New(root *html.Node) *Document {
	return &Document{
		root:      root,
		listeners: make(map[*html.Node]map[string][]Listener),
		tasks:     NewTaskQueue(),
	}
}

// Root returns the underlying tree.
func (d *Document) Root() *html.Node {
	if d == nil {
		return nil
	}
	return d.root
}

// Tasks returns the queue used for deferred callbacks.
func (d *Document) Tasks() *TaskQueue {
	if d == nil {
		return nil
	}
	return d.tasks
}

// Render serialises the current tree.
func (d *Document) Render(w io.Writer) error {
	if d == nil || d.root == nil {
		return ErrNilDocument
	}
	return html.Render(w, d.root)
}

// String serialises the current tree, returning the empty string on failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// ByID returns the element with the given id or nil.
func (d *Document) ByID(id string) *Element {
	id = strings.TrimSpace(id)
	if d == nil || d.root == nil || id == "" || strings.ContainsAny(id, `'"`) {
		return nil
	}
	return d.wrap(htmlquery.FindOne(d.root, fmt.Sprintf("//*[@id='%s']", id)))
}

// Query returns the first element matching an XPath expression.
func (d *Document) Query(expr string) (*Element, error) {
	if d == nil || d.root == nil {
		return nil, ErrNilDocument
	}
	node, err := htmlquery.Query(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("dom: query %q: %w", expr, err)
	}
	return d.wrap(node), nil
}

// QueryAll returns every element matching an XPath expression in document
// order.
func (d *Document) QueryAll(expr string) ([]*Element, error) {
	if d == nil || d.root == nil {
		return nil, ErrNilDocument
	}
	nodes, err := htmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("dom: query %q: %w", expr, err)
	}
	return d.wrapAll(nodes), nil
}

// ByClass returns every element carrying class in document order.
func (d *Document) ByClass(class string) []*Element {
	if d == nil || d.root == nil {
		return nil
	}
	return d.wrapAll(htmlquery.Find(d.root, "//*"+ClassPredicate(class)))
}

// FirstByClass returns the first element carrying every listed class.
func (d *Document) FirstByClass(classes ...string) *Element {
	if d == nil || d.root == nil || len(classes) == 0 {
		return nil
	}
	var expr strings.Builder
	expr.WriteString("//*")
	for _, class := range classes {
		expr.WriteString(ClassPredicate(class))
	}
	return d.wrap(htmlquery.FindOne(d.root, expr.String()))
}

// Controls returns every form control in document order.
func (d *Document) Controls() []*Element {
	if d == nil || d.root == nil {
		return nil
	}
	return d.wrapAll(htmlquery.Find(d.root, "//*[self::input or self::select or self::textarea]"))
}

// Focus marks el as the focused element.
func (d *Document) Focus(el *Element) {
	if d == nil {
		return
	}
	if el == nil {
		d.focused = nil
		return
	}
	d.focused = el.node
}

// Focused returns the focused element or nil.
func (d *Document) Focused() *Element {
	if d == nil {
		return nil
	}
	return d.wrap(d.focused)
}

// ScrollIntoView records el as the latest scroll target.
func (d *Document) ScrollIntoView(el *Element) {
	if d == nil || el == nil {
		return
	}
	d.scrolls = append(d.scrolls, el.node)
}

// ScrollTarget returns the most recent scroll target or nil.
func (d *Document) ScrollTarget() *Element {
	if d == nil || len(d.scrolls) == 0 {
		return nil
	}
	return d.wrap(d.scrolls[len(d.scrolls)-1])
}

// ScrollCount reports how many scrolls were requested.
func (d *Document) ScrollCount() int {
	if d == nil {
		return 0
	}
	return len(d.scrolls)
}

// ClassPredicate builds an XPath predicate matching a whitespace separated
// class attribute.
func ClassPredicate(class string) string {
	return fmt.Sprintf("[contains(concat(' ', normalize-space(@class), ' '), ' %s ')]", strings.TrimSpace(class))
}

func (d *Document) wrap(node *html.Node) *Element {
	if node == nil {
		return nil
	}
	return &Element{doc: d, node: node}
}

func (d *Document) wrapAll(nodes []*html.Node) []*Element {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*Element, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, d.wrap(node))
	}
	return out
}

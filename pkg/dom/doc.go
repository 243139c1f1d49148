// Package dom is a small server-side document model over golang.org/x/net/html.
//
// It offers the handful of operations form controllers need: lookups by id,
// class and XPath (via htmlquery), class and attribute toggling, form control
// values, inline style properties, focus and scroll bookkeeping, ordered
// event listeners and a virtual-time task queue for deferred work. Everything
// runs on the caller's goroutine; a Document is not safe for concurrent use.
package dom

// Package template wraps a pongo2 template set behind a small renderer
// interface used by the page renderers.
package template

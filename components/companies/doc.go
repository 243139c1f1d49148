// Package companies provides the net/http handler behind the company
// listing: a POST with action=search returns every company as a JSON array
// of rows, and POST <route>delete/<id>/ removes one.
//
// Requests must carry the CSRF header; a GET can be delegated to a page
// handler that renders the listing shell.
package companies

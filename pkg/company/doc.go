// Package company holds the company record captured by the onboarding
// wizard, the field constraints enforced on it and the in-memory repository
// that backs the listing endpoint.
//
// Constraints are described by an embedded OpenAPI document so the same
// limits can be published alongside the HTTP routes.
package company

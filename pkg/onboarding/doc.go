// Package onboarding drives the company onboarding wizard over a dom.Document.
//
// Controller owns a wizard.Machine and translates its transitions into
// document updates: active step and progress markers, navigation control
// visibility, error highlighting on field groups, the special taxpayer
// conditional field, server-rendered error surfacing and the derived fields
// synchronised right before submission.
//
// The element ids and classes the controller relies on are listed in ids.go.
// Listeners are attached in a fixed order during Init: navigation and submit
// bindings, live field validation, then the special taxpayer logic, so on an
// element carrying several listeners error clearing always runs first.
package onboarding

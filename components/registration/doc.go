// Package registration serves the onboarding wizard over net/http for
// clients that do not run scripts.
//
// Every request renders the page, mounts the wizard controller on the parsed
// document and replays what the browser would have done: the posted step is
// restored, a navigation button is clicked or the form is submitted. The
// resulting document is serialised back, so step gating, error highlighting
// and derived fields behave the same with or without scripting.
package registration

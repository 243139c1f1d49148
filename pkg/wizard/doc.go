// Package wizard implements the step state machine behind multi-step forms.
//
// Machine owns the current step and enforces 1 <= current <= total. Forward
// transitions are gated by a validation callback; backward transitions are
// unconditional. Step and Validate describe which fields a step requires and
// compute validity from a FieldSource without touching any rendering layer,
// so adapters (HTML documents, terminal prompts) only translate results.
package wizard

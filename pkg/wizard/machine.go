package wizard

import "fmt"

// Gate reports whether the given step may be left in the forward direction.
type Gate func(step int) bool

// Marker is the progress indicator state of a single step.
type Marker string

const (
	MarkerPending   Marker = "pending"
	MarkerActive    Marker = "active"
	MarkerCompleted Marker = "completed"
)

// Controls reports which navigation actions are available at a step.
type Controls struct {
	Prev   bool `json:"prev"`
	Next   bool `json:"next"`
	Submit bool `json:"submit"`
}

// State is an immutable snapshot of a Machine.
type State struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Machine tracks the current step of a wizard.
type Machine struct {
	current int
	total   int
}

// New builds a machine positioned at step 1.
func New(total int) (*Machine, error) {
	if total < 1 {
		return nil, ErrInvalidTotal
	}
	return &Machine{current: 1, total: total}, nil
}

// Current returns the active step.
func (m *Machine) Current() int {
	if m == nil {
		return 0
	}
	return m.current
}

// Total returns the number of steps.
func (m *Machine) Total() int {
	if m == nil {
		return 0
	}
	return m.total
}

// State returns a snapshot of the machine.
func (m *Machine) State() State {
	return State{Current: m.Current(), Total: m.Total()}
}

// IsLast reports whether the active step is the final one.
func (m *Machine) IsLast() bool {
	return m != nil && m.current == m.total
}

// Next advances one step when gate accepts the current step. It returns
// false and leaves the machine untouched when the gate rejects or the machine
// is already at the last step. The gate runs even at the last step so its
// side effects (error highlighting) still apply.
func (m *Machine) Next(gate Gate) bool {
	if m == nil {
		return false
	}
	if gate != nil && !gate(m.current) {
		return false
	}
	if m.current >= m.total {
		return false
	}
	m.current++
	return true
}

// Prev moves back one step unless the machine is at step 1.
func (m *Machine) Prev() bool {
	if m == nil || m.current <= 1 {
		return false
	}
	m.current--
	return true
}

// GoTo jumps directly to step, used when surfacing errors that live on
// another step or when restoring a posted-back position.
func (m *Machine) GoTo(step int) error {
	if m == nil {
		return fmt.Errorf("wizard: machine is nil")
	}
	if step < 1 || step > m.total {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrStepOutOfRange, step, m.total)
	}
	m.current = step
	return nil
}

// Controls returns the navigation controls visible at step.
func (m *Machine) Controls(step int) Controls {
	total := m.Total()
	return Controls{
		Prev:   step > 1,
		Next:   step < total,
		Submit: step == total,
	}
}

// MarkerFor returns the progress marker state of step i while step current is
// active.
func MarkerFor(i, current int) Marker {
	switch {
	case i < current:
		return MarkerCompleted
	case i == current:
		return MarkerActive
	default:
		return MarkerPending
	}
}

// Markers returns the marker state of every step, indexed from 1 at slot 0.
func (m *Machine) Markers() []Marker {
	total := m.Total()
	out := make([]Marker, total)
	for i := 1; i <= total; i++ {
		out[i-1] = MarkerFor(i, m.Current())
	}
	return out
}

package dom

// Event types dispatched by form controllers.
const (
	EventClick  = "click"
	EventInput  = "input"
	EventBlur   = "blur"
	EventChange = "change"
	EventSubmit = "submit"
)

// Event is delivered to listeners in registration order.
type Event struct {
	Type   string
	Target *Element

	defaultPrevented bool
	stopped          bool
}

// PreventDefault cancels the element's default action (form submission).
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether a listener cancelled the default action.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// StopImmediatePropagation skips the remaining listeners on the element.
func (e *Event) StopImmediatePropagation() {
	e.stopped = true
}

// Listener handles a dispatched event.
type Listener func(ev *Event)

// AddEventListener registers fn for eventType on el. Listeners attached to
// the same element and type fire in the order they were added.
func (d *Document) AddEventListener(el *Element, eventType string, fn Listener) {
	if d == nil || el == nil || fn == nil || eventType == "" {
		return
	}
	byType, ok := d.listeners[el.node]
	if !ok {
		byType = make(map[string][]Listener)
		d.listeners[el.node] = byType
	}
	byType[eventType] = append(byType[eventType], fn)
}

// ListenerCount reports how many listeners el has for eventType.
func (d *Document) ListenerCount(el *Element, eventType string) int {
	if d == nil || el == nil {
		return 0
	}
	return len(d.listeners[el.node][eventType])
}

// Dispatch fires eventType on el and returns the event so callers can check
// DefaultPrevented. Events do not bubble.
func (d *Document) Dispatch(el *Element, eventType string) *Event {
	ev := &Event{Type: eventType, Target: el}
	if d == nil || el == nil {
		return ev
	}
	// listeners added while dispatching do not run for this event
	listeners := append([]Listener(nil), d.listeners[el.node][eventType]...)
	for _, fn := range listeners {
		fn(ev)
		if ev.stopped {
			break
		}
	}
	return ev
}

// On is shorthand for Document.AddEventListener.
func (e *Element) On(eventType string, fn Listener) {
	if e == nil {
		return
	}
	e.doc.AddEventListener(e, eventType, fn)
}

// Dispatch is shorthand for Document.Dispatch.
func (e *Element) Dispatch(eventType string) *Event {
	if e == nil {
		return &Event{Type: eventType}
	}
	return e.doc.Dispatch(e, eventType)
}

// Type simulates user typing: it sets the value then fires input.
func (e *Element) Type(value string) {
	if e == nil {
		return
	}
	e.SetValue(value)
	e.Dispatch(EventInput)
}

// Choose simulates picking a select option: it sets the value then fires
// change.
func (e *Element) Choose(value string) {
	if e == nil {
		return
	}
	e.SetValue(value)
	e.Dispatch(EventChange)
}

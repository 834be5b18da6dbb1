package dom

import "github.com/awakmu/bubbling-library/bubbling"

type EventPhase uint

const (
	NonePhase EventPhase = iota
	CapturingPhase
	AtTargetPhase
	BubblingPhase
)

// Event is a raw event delivered through Document.Dispatch.
// https://dom.spec.whatwg.org/#interface-event
type Event struct {
	eventType     string
	target        *Element
	node          bubbling.Node
	relatedTarget *Element
	currentTarget any
	phase         EventPhase

	bubbles          bool
	cancelable       bool
	defaultPrevented bool
	stopped          bool

	keyCode, charCode         int
	ctrlKey, shiftKey, altKey bool
}

var (
	_ bubbling.RawEvent = (*Event)(nil)
	_ bubbling.KeyEvent = (*Event)(nil)
)

// NewEvent returns a bubbling, cancelable event aimed at target.
func NewEvent(eventType string, target *Element) *Event {
	return &Event{
		eventType:  eventType,
		target:     target,
		bubbles:    true,
		cancelable: true,
	}
}

// NewNodeEvent returns an event aimed at the window or the document. It
// does not bubble.
func NewNodeEvent(eventType string, node bubbling.Node) *Event {
	return &Event{eventType: eventType, node: node}
}

// KeyOptions carries the key fields of a keyboard event.
type KeyOptions struct {
	KeyCode, CharCode         int
	CtrlKey, ShiftKey, AltKey bool
}

// NewKeyEvent returns a keyboard event aimed at target.
func NewKeyEvent(eventType string, target *Element, opts KeyOptions) *Event {
	e := NewEvent(eventType, target)
	e.keyCode = opts.KeyCode
	e.charCode = opts.CharCode
	e.ctrlKey = opts.CtrlKey
	e.shiftKey = opts.ShiftKey
	e.altKey = opts.AltKey
	return e
}

// WithRelated sets the related target, as for mouseover and mouseout.
func (e *Event) WithRelated(el *Element) *Event {
	e.relatedTarget = el
	return e
}

func (e *Event) Type() string { return e.eventType }

func (e *Event) Target() bubbling.Element {
	if e.target == nil {
		return nil
	}
	return e.target
}

func (e *Event) RelatedTarget() bubbling.Element {
	if e.relatedTarget == nil {
		return nil
	}
	return e.relatedTarget
}

// CurrentTarget is the node whose listeners are running: a bubbling.Node
// or an *Element.
func (e *Event) CurrentTarget() any       { return e.currentTarget }
func (e *Event) Phase() EventPhase        { return e.phase }
func (e *Event) Bubbles() bool            { return e.bubbles }
func (e *Event) DefaultPrevented() bool   { return e.defaultPrevented }
func (e *Event) PropagationStopped() bool { return e.stopped }

func (e *Event) StopPropagation() { e.stopped = true }

func (e *Event) PreventDefault() {
	if e.cancelable {
		e.defaultPrevented = true
	}
}

// Stop prevents the default action and stops propagation.
func (e *Event) Stop() {
	e.PreventDefault()
	e.StopPropagation()
}

func (e *Event) KeyCode() int   { return e.keyCode }
func (e *Event) CharCode() int  { return e.charCode }
func (e *Event) CtrlKey() bool  { return e.ctrlKey }
func (e *Event) ShiftKey() bool { return e.shiftKey }
func (e *Event) AltKey() bool   { return e.altKey }

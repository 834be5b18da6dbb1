package bubbling

import "time"

// Element is the view of a document node the bus needs. Tag names are
// reported upper case.
type Element interface {
	TagName() string
	ID() string
	HasClass(name string) bool
	GetAttribute(name string) (string, bool)
	SetAttribute(name, value string)
	Parent() Element
	InDocument() bool
}

// Valuer is implemented by elements with a live value (input, textarea,
// select, button). Value returns an error when the value can't be read.
type Valuer interface {
	Value() (string, error)
}

// Selectable is implemented by select elements.
type Selectable interface {
	Multiple() bool
	SelectedIndex() int
	OptionValue(i int) (string, error)
}

// RawEvent is a native event delivered by the host surface.
type RawEvent interface {
	Type() string
	Target() Element
	RelatedTarget() Element
	// Stop suppresses the default action and further propagation.
	Stop()
}

// KeyEvent is a native key-up/key-down event.
type KeyEvent interface {
	RawEvent
	KeyCode() int
	CharCode() int
	CtrlKey() bool
	ShiftKey() bool
	AltKey() bool
}

// Node names the attachment points for raw listeners that are not elements.
type Node string

const (
	// Window is the top level surface (resize, scroll).
	Window Node = "window"
	// Document is the document object (keyboard, ready state).
	Document Node = "document"
)

// RawListener receives raw events from the host.
type RawListener func(e RawEvent, scope any)

// Tree is the element query and traversal half of the host.
type Tree interface {
	// Get returns the element for a reference: an Element is returned as
	// is, a string is looked up as an element id.
	Get(ref any) Element
	HasClass(el Element, name string) bool
	AddClass(el Element, name string)
	OwnerByClassName(el Element, name string) Element
	OwnerByTagName(el Element, tag string) Element
	FirstChildByTagName(el Element, tag string) Element
	// Body returns nil while the document is not usable.
	Body() Element
}

// Events is the raw event half of the host.
type Events interface {
	// Current returns the raw event being delivered, or nil.
	Current() RawEvent
	// Listen attaches fn to node (a Node constant or an Element) and returns
	// a function that detaches it.
	Listen(node any, kind string, fn RawListener, scope any, capture bool) (detach func())
}

// Env is the environment probe. Engine quirks are answered here so the core
// never branches on engine identity.
type Env interface {
	// SecondaryClickOnMouseDown reports engines without a contextmenu event.
	SecondaryClickOnMouseDown() bool
	// SelectDefaultFromAttribute reports engines where a select's baseline
	// value must come from its "default" attribute.
	SelectDefaultFromAttribute() bool
}

// Host is everything a Page needs from the surface it is attached to.
type Host interface {
	Tree
	Events
	Env
}

// Button is a rich button widget. The widget root need not be attached to
// the document.
type Button interface {
	Element
	ButtonValue() string
	// ControlRel is the rel attribute of the underlying control.
	ControlRel() string
}

// ButtonLookup returns the widget registered for an element id.
type ButtonLookup interface {
	Button(id string) (Button, bool)
}

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules delayed callbacks.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

package dom

import "github.com/awakmu/bubbling-library/bubbling"

// Env answers the environment probe for a document.
type Env struct {
	// MouseDownContextMenu is set for engines without a contextmenu event;
	// secondary clicks are then detected on mousedown and click.
	MouseDownContextMenu bool
	// SelectDefaultAttribute is set for engines whose select baseline must
	// be read from, and written back to, the "default" attribute.
	SelectDefaultAttribute bool
}

// Button is a rich button widget rooted at an element. The widget object
// is not a document node: classname probes go through the widget itself.
type Button struct {
	*Element
	value   string
	control *Element
}

var _ bubbling.Button = (*Button)(nil)

// NewButton wraps root as a button widget. control is the underlying
// native control, usually a <button> or <a> inside root.
func NewButton(root *Element, value string, control *Element) *Button {
	return &Button{Element: root, value: value, control: control}
}

func (b *Button) ButtonValue() string { return b.value }

func (b *Button) SetButtonValue(v string) { b.value = v }

func (b *Button) ControlRel() string {
	if b.control == nil {
		return ""
	}
	v, _ := b.control.GetAttribute("rel")
	return v
}

func (b *Button) Control() *Element { return b.control }

func (b *Button) InDocument() bool { return false }

// Buttons is a widget registry keyed by root element id.
type Buttons struct {
	widgets map[string]*Button
}

func NewButtons() *Buttons {
	return &Buttons{widgets: make(map[string]*Button)}
}

// Register adds b under its root id. Roots without an id are ignored.
func (r *Buttons) Register(b *Button) bool {
	if b == nil || b.Element == nil || b.ID() == "" {
		return false
	}
	r.widgets[b.ID()] = b
	return true
}

// Button implements bubbling.ButtonLookup.
func (r *Buttons) Button(id string) (bubbling.Button, bool) {
	b, ok := r.widgets[id]
	if !ok {
		return nil, false
	}
	return b, true
}

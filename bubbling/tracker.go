package bubbling

import "github.com/pkg/errors"

var errNoValue = errors.New("bubbling: element has no readable value")

// focusableTags are the tag kinds that take part in focus tracking without
// an explicit tabindex.
var focusableTags = map[string]bool{
	"INPUT":    true,
	"TEXTAREA": true,
	"SELECT":   true,
	"BUTTON":   true,
	"A":        true,
	"IMG":      true,
}

// tracker infers logical focus, blur and change transitions from the
// targets of raw events. Native focus events are not used: they fire
// inconsistently across element kinds.
type tracker struct {
	previous Element
	current  Element
	tag      string
	multiple bool
	baseline string

	fire func(layer string, env *Envelope) bool
	body func() Element
	env  Env
}

// observe runs one transition for the target of a raw event. Observers
// always see change(old), blur(old), focus(new) in that order.
func (t *tracker) observe(el Element) {
	if el != nil && el.TagName() == "OPTION" {
		if el = owningSelect(el); el == nil {
			return
		}
	}
	if el == nil || t.isBody(el) {
		t.change()
		t.set(nil)
		t.blur()
		return
	}
	if el == t.current || !focusable(el) {
		return
	}
	t.change()
	t.set(el)
	t.blur()
	t.focus()
}

func (t *tracker) isBody(el Element) bool {
	if t.body == nil {
		return false
	}
	body := t.body()
	return body != nil && body == el
}

func (t *tracker) set(el Element) {
	t.previous = t.current
	t.current = el
	t.tag = ""
	t.multiple = false
	t.baseline = ""
	if el == nil {
		return
	}
	t.tag = el.TagName()
	if sel, ok := el.(Selectable); ok && t.tag == "SELECT" {
		t.multiple = sel.Multiple()
	}
	if t.tag == "SELECT" {
		if !t.multiple {
			t.baseline = t.selectBaseline(el)
		}
		return
	}
	if v, err := t.read(el); err == nil {
		t.baseline = v
	}
}

// selectBaseline never fails: an empty selection falls back to the
// "default" attribute.
func (t *tracker) selectBaseline(el Element) string {
	sel, ok := el.(Selectable)
	if !ok {
		return ""
	}
	idx := sel.SelectedIndex()
	if idx < 0 || (t.env != nil && t.env.SelectDefaultFromAttribute()) {
		v, _ := el.GetAttribute("default")
		return v
	}
	v, err := sel.OptionValue(idx)
	if err != nil {
		return ""
	}
	return v
}

// read returns the value used for change detection.
func (t *tracker) read(el Element) (string, error) {
	if sel, ok := el.(Selectable); ok && t.tag == "SELECT" && !t.multiple {
		return sel.OptionValue(sel.SelectedIndex())
	}
	if v, ok := el.(Valuer); ok {
		return v.Value()
	}
	return "", errNoValue
}

// change fires when the current element's value moved off its baseline.
// Multiple selects take part in focus and blur only.
func (t *tracker) change() {
	if t.current == nil || t.multiple {
		return
	}
	v, err := t.read(t.current)
	if err != nil || v == t.baseline {
		return
	}
	if t.tag == "SELECT" && t.env != nil && t.env.SelectDefaultFromAttribute() {
		t.current.SetAttribute("default", v)
	}
	rel, _ := t.current.GetAttribute("rel")
	env := NewEnvelope()
	env.Target = t.current
	env.Value = v
	env.NewValue = v
	env.OldValue = t.baseline
	env.Rel = rel
	t.fire("change", env)
	t.baseline = v
}

func (t *tracker) blur() {
	if t.previous == nil {
		return
	}
	env := NewEnvelope()
	env.Target = t.previous
	t.fire("blur", env)
}

func (t *tracker) focus() {
	if t.current == nil {
		return
	}
	env := NewEnvelope()
	env.Target = t.current
	env.Blur = t.previous
	t.fire("focus", env)
}

func focusable(el Element) bool {
	if focusableTags[el.TagName()] {
		return true
	}
	v, ok := el.GetAttribute("tabindex")
	return ok && v != ""
}

func owningSelect(el Element) Element {
	for p := el.Parent(); p != nil; p = p.Parent() {
		if p.TagName() == "SELECT" {
			return p
		}
	}
	return nil
}

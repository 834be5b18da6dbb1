package bubbling

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type fakeElement struct {
	tag      string
	id       string
	classes  []string
	attrs    map[string]string
	parent   Element
	attached bool
	value    string
	valueErr error
}

func newFake(tag string, classes ...string) *fakeElement {
	return &fakeElement{
		tag:      strings.ToUpper(tag),
		classes:  classes,
		attrs:    map[string]string{},
		attached: true,
	}
}

func (f *fakeElement) TagName() string { return f.tag }
func (f *fakeElement) ID() string      { return f.id }

func (f *fakeElement) HasClass(name string) bool {
	for _, c := range f.classes {
		if c == name {
			return true
		}
	}
	return false
}

func (f *fakeElement) GetAttribute(name string) (string, bool) {
	v, ok := f.attrs[name]
	return v, ok
}

func (f *fakeElement) SetAttribute(name, value string) { f.attrs[name] = value }

func (f *fakeElement) Parent() Element {
	if f.parent == nil {
		return nil
	}
	return f.parent
}

func (f *fakeElement) InDocument() bool { return f.attached }

func (f *fakeElement) Value() (string, error) {
	if f.valueErr != nil {
		return "", f.valueErr
	}
	return f.value, nil
}

func (f *fakeElement) under(p Element) *fakeElement {
	f.parent = p
	return f
}

type fakeSelect struct {
	*fakeElement
	options  []string
	selected int
	multiple bool
}

func newFakeSelect(options ...string) *fakeSelect {
	return &fakeSelect{fakeElement: newFake("select"), options: options, selected: -1}
}

func (s *fakeSelect) Multiple() bool     { return s.multiple }
func (s *fakeSelect) SelectedIndex() int { return s.selected }

func (s *fakeSelect) OptionValue(i int) (string, error) {
	if i < 0 || i >= len(s.options) {
		return "", errors.Errorf("no option %d", i)
	}
	return s.options[i], nil
}

type fakeButton struct {
	*fakeElement
	value string
	rel   string
}

func (b *fakeButton) ButtonValue() string { return b.value }
func (b *fakeButton) ControlRel() string  { return b.rel }
func (b *fakeButton) InDocument() bool    { return false }

type fakeButtons map[string]Button

func (b fakeButtons) Button(id string) (Button, bool) {
	btn, ok := b[id]
	return btn, ok
}

type fakeEvent struct {
	kind     string
	target   Element
	related  Element
	stopped  int
	keyCode  int
	charCode int
	ctrl     bool
	shift    bool
	alt      bool
}

func (e *fakeEvent) Type() string { return e.kind }

func (e *fakeEvent) Target() Element {
	if e.target == nil {
		return nil
	}
	return e.target
}

func (e *fakeEvent) RelatedTarget() Element {
	if e.related == nil {
		return nil
	}
	return e.related
}

func (e *fakeEvent) Stop()          { e.stopped++ }
func (e *fakeEvent) KeyCode() int   { return e.keyCode }
func (e *fakeEvent) CharCode() int  { return e.charCode }
func (e *fakeEvent) CtrlKey() bool  { return e.ctrl }
func (e *fakeEvent) ShiftKey() bool { return e.shift }
func (e *fakeEvent) AltKey() bool   { return e.alt }

func click(target Element) *fakeEvent {
	return &fakeEvent{kind: "click", target: target}
}

type fakeListener struct {
	node    any
	kind    string
	fn      RawListener
	scope   any
	removed bool
}

type fakeHost struct {
	body       Element
	byID       map[string]Element
	current    RawEvent
	listeners  []*fakeListener
	probes     int
	mouseDown  bool
	selectAttr bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		body: newFake("body"),
		byID: map[string]Element{},
	}
}

func (h *fakeHost) Get(ref any) Element {
	switch v := ref.(type) {
	case Element:
		return v
	case string:
		if el, ok := h.byID[v]; ok {
			return el
		}
	}
	return nil
}

func (h *fakeHost) HasClass(el Element, name string) bool {
	h.probes++
	return el.HasClass(name)
}

func (h *fakeHost) AddClass(el Element, name string) {
	if f, ok := el.(*fakeElement); ok && !f.HasClass(name) {
		f.classes = append(f.classes, name)
	}
}

func (h *fakeHost) OwnerByClassName(el Element, name string) Element {
	for cur := el; cur != nil; cur = cur.Parent() {
		if cur.HasClass(name) {
			return cur
		}
	}
	return nil
}

func (h *fakeHost) OwnerByTagName(el Element, tag string) Element {
	for cur := el; cur != nil; cur = cur.Parent() {
		if cur.TagName() == strings.ToUpper(tag) {
			return cur
		}
	}
	return nil
}

func (h *fakeHost) FirstChildByTagName(Element, string) Element { return nil }

func (h *fakeHost) Body() Element {
	if h.body == nil {
		return nil
	}
	return h.body
}

func (h *fakeHost) Current() RawEvent { return h.current }

func (h *fakeHost) Listen(node any, kind string, fn RawListener, scope any, _ bool) func() {
	l := &fakeListener{node: node, kind: kind, fn: fn, scope: scope}
	h.listeners = append(h.listeners, l)
	return func() { l.removed = true }
}

// deliver runs the live listeners for kind on node.
func (h *fakeHost) deliver(node any, kind string, e RawEvent) int {
	n := 0
	for _, l := range h.listeners {
		if l.removed || l.kind != kind || l.node != node {
			continue
		}
		l.fn(e, l.scope)
		n++
	}
	return n
}

func (h *fakeHost) live(kind string) int {
	n := 0
	for _, l := range h.listeners {
		if !l.removed && l.kind == kind {
			n++
		}
	}
	return n
}

func (h *fakeHost) SecondaryClickOnMouseDown() bool  { return h.mouseDown }
func (h *fakeHost) SelectDefaultFromAttribute() bool { return h.selectAttr }

type fakeTimer struct {
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

type fakeClock struct {
	now    time.Duration
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	t := &fakeTimer{at: c.now + d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now += d
	for _, t := range c.timers {
		if t.stopped || t.fired || t.at > c.now {
			continue
		}
		t.fired = true
		t.fn()
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestPage(t *testing.T, host *fakeHost, opts ...Option) (*Page, *fakeClock) {
	t.Helper()
	clock := &fakeClock{}
	opts = append([]Option{WithLogger(quietLogger()), WithClock(clock)}, opts...)
	p, err := New(host, opts...)
	require.NoError(t, err)
	return p, clock
}

// recorder logs fires as "layer:name" where name is the target's id or tag.
type recorder struct {
	calls []string
	envs  []*Envelope
}

func (r *recorder) listener(layer string, env *Envelope, _ any) {
	r.calls = append(r.calls, fmt.Sprintf("%s:%s", layer, name(env.Target)))
	r.envs = append(r.envs, env)
}

func (r *recorder) watch(p *Page, layers ...string) *recorder {
	for _, l := range layers {
		p.Subscribe(l, r.listener, nil)
	}
	return r
}

func name(el Element) string {
	if el == nil {
		return "<nil>"
	}
	if el.ID() != "" {
		return el.ID()
	}
	return strings.ToLower(el.TagName())
}

package dom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/antchfx/htmlquery"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/awakmu/bubbling-library/bubbling"
)

type ReadyState string

const (
	Loading     ReadyState = "loading"
	Interactive ReadyState = "interactive"
	Complete    ReadyState = "complete"
)

type listener struct {
	fn      bubbling.RawListener
	scope   any
	capture bool
	removed bool
}

type listenerKey struct {
	node any
	kind string
}

// Document is a parsed page acting as the host surface of a bubbling.Page.
// It is meant for one goroutine at a time; the internal lock only keeps
// the bookkeeping consistent when a page timer reads it.
// https://html.spec.whatwg.org/#the-document-object
type Document struct {
	mu         sync.RWMutex
	root       *html.Node
	nodes      map[*html.Node]*Element
	listeners  map[listenerKey][]*listener
	current    *Event
	readyState ReadyState

	env Env
	log *logrus.Entry
}

var _ bubbling.Host = (*Document)(nil)

// Option configures a Document.
type Option func(*Document)

// WithEnv sets the environment probe answers.
func WithEnv(env Env) Option {
	return func(d *Document) { d.env = env }
}

func WithLogger(l *logrus.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.log = l.WithField("module", "dom")
		}
	}
}

// WithReadyState sets the initial ready state. Documents start complete.
func WithReadyState(s ReadyState) Option {
	return func(d *Document) { d.readyState = s }
}

// Parse reads an HTML page.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse document")
	}
	d := &Document{
		root:       root,
		nodes:      make(map[*html.Node]*Element),
		listeners:  make(map[listenerKey][]*listener),
		readyState: Complete,
		log:        logrus.StandardLogger().WithField("module", "dom"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// ParseString reads an HTML page from a string.
func ParseString(s string, opts ...Option) (*Document, error) {
	return Parse(strings.NewReader(s), opts...)
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.nodes[n]; ok {
		return el
	}
	el := &Element{doc: d, node: n, selected: unset}
	d.nodes[n] = el
	return el
}

// CreateElement returns a new element that is not attached to the tree.
func (d *Document) CreateElement(tag string) *Element {
	tag = strings.ToLower(tag)
	return d.wrap(&html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	})
}

func (d *Document) ReadyState() ReadyState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.readyState
}

// SetReadyState moves the document to s and delivers readystatechange.
// Leaving loading also delivers DOMContentLoaded; reaching complete
// delivers load on the window.
func (d *Document) SetReadyState(s ReadyState) {
	d.mu.Lock()
	was := d.readyState
	d.readyState = s
	d.mu.Unlock()
	if was == s {
		return
	}

	d.Dispatch(NewNodeEvent("readystatechange", bubbling.Document))
	if was == Loading {
		d.Dispatch(NewNodeEvent("DOMContentLoaded", bubbling.Document))
	}
	if s == Complete {
		d.Dispatch(NewNodeEvent("load", bubbling.Window))
	}
}

// Body returns the body element, or nil while the document is loading.
func (d *Document) Body() bubbling.Element {
	if d.ReadyState() == Loading {
		return nil
	}
	if n := htmlquery.FindOne(d.root, "//body"); n != nil {
		return d.wrap(n)
	}
	return nil
}

// GetElementByID returns the first element with the id, or nil.
func (d *Document) GetElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	lit, ok := xpathLiteral(id)
	if !ok {
		return nil
	}
	n, err := htmlquery.Query(d.root, fmt.Sprintf("//*[@id=%s]", lit))
	if err != nil || n == nil {
		return nil
	}
	return d.wrap(n)
}

// GetElementsByClassName returns the elements carrying the classname, in
// document order.
func (d *Document) GetElementsByClassName(name string) []*Element {
	lit, ok := xpathLiteral(" " + name + " ")
	if !ok || strings.TrimSpace(name) == "" {
		return nil
	}
	expr := fmt.Sprintf("//*[contains(concat(' ', normalize-space(@class), ' '), %s)]", lit)
	nodes, err := htmlquery.QueryAll(d.root, expr)
	if err != nil {
		d.log.WithError(err).WithField("class", name).Debug("class query failed")
		return nil
	}
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out
}

// Get returns the element for ref: an element, or an element id.
func (d *Document) Get(ref any) bubbling.Element {
	switch v := ref.(type) {
	case *Element:
		if v != nil {
			return v
		}
	case *Button:
		if v != nil {
			return v
		}
	case bubbling.Element:
		return v
	case string:
		if el := d.GetElementByID(v); el != nil {
			return el
		}
	}
	return nil
}

// HasClass reads the class attribute straight from the parsed node for
// document elements; anything else answers for itself.
func (d *Document) HasClass(el bubbling.Element, name string) bool {
	e, ok := el.(*Element)
	if !ok {
		return el != nil && el.HasClass(name)
	}
	for _, c := range strings.Fields(htmlquery.SelectAttr(e.node, "class")) {
		if c == name {
			return true
		}
	}
	return false
}

func (d *Document) AddClass(el bubbling.Element, name string) {
	if e, ok := el.(*Element); ok {
		e.AddClass(name)
		return
	}
	if el == nil || name == "" || el.HasClass(name) {
		return
	}
	v, _ := el.GetAttribute("class")
	el.SetAttribute("class", strings.TrimSpace(v+" "+name))
}

// OwnerByClassName returns el or its nearest ancestor with the classname.
func (d *Document) OwnerByClassName(el bubbling.Element, name string) bubbling.Element {
	for cur := el; cur != nil; cur = cur.Parent() {
		if d.HasClass(cur, name) {
			return cur
		}
	}
	return nil
}

// OwnerByTagName returns el or its nearest ancestor with the tag name.
func (d *Document) OwnerByTagName(el bubbling.Element, tag string) bubbling.Element {
	tag = strings.ToUpper(tag)
	for cur := el; cur != nil; cur = cur.Parent() {
		if cur.TagName() == tag {
			return cur
		}
	}
	return nil
}

// FirstChildByTagName returns the first descendant of el with the tag.
func (d *Document) FirstChildByTagName(el bubbling.Element, tag string) bubbling.Element {
	e, ok := el.(*Element)
	if !ok || !validTag(tag) {
		return nil
	}
	n, err := htmlquery.Query(e.node, ".//"+strings.ToLower(tag))
	if err != nil || n == nil {
		return nil
	}
	return d.wrap(n)
}

func (d *Document) SecondaryClickOnMouseDown() bool  { return d.env.MouseDownContextMenu }
func (d *Document) SelectDefaultFromAttribute() bool { return d.env.SelectDefaultAttribute }

// Current returns the event being dispatched, or nil.
func (d *Document) Current() bubbling.RawEvent {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.current == nil {
		return nil
	}
	return d.current
}

// Listen attaches fn for events of kind on node: bubbling.Window,
// bubbling.Document, an *Element or a *Button.
func (d *Document) Listen(node any, kind string, fn bubbling.RawListener, scope any, capture bool) func() {
	key, ok := listenKey(node)
	if !ok || fn == nil {
		return func() {}
	}
	l := &listener{fn: fn, scope: scope, capture: capture}
	k := listenerKey{node: key, kind: kind}

	d.mu.Lock()
	d.listeners[k] = append(d.listeners[k], l)
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		l.removed = true
		ls := d.listeners[k]
		for i := range ls {
			if ls[i] == l {
				d.listeners[k] = append(ls[:i:i], ls[i+1:]...)
				break
			}
		}
	}
}

func listenKey(node any) (any, bool) {
	switch v := node.(type) {
	case bubbling.Node:
		return v, true
	case *Element:
		return v, v != nil
	case *Button:
		if v == nil || v.Element == nil {
			return nil, false
		}
		return v.Element, true
	}
	return nil, false
}

// Dispatch delivers e along its path: capture listeners from the window
// down to the target's parent, the target's own listeners, then bubble
// listeners back up when the event bubbles. It returns false when a
// listener prevented the default action.
func (d *Document) Dispatch(e *Event) bool {
	path := d.path(e)
	if len(path) == 0 {
		return true
	}

	d.mu.Lock()
	prev := d.current
	d.current = e
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.current = prev
		d.mu.Unlock()
	}()

	last := len(path) - 1
	e.phase = CapturingPhase
	for _, node := range path[:last] {
		if d.invoke(node, e, true, false) {
			return !e.defaultPrevented
		}
	}
	e.phase = AtTargetPhase
	if d.invoke(path[last], e, true, true) {
		return !e.defaultPrevented
	}
	if e.bubbles {
		e.phase = BubblingPhase
		for i := last - 1; i >= 0; i-- {
			if d.invoke(path[i], e, false, false) {
				break
			}
		}
	}
	e.phase = NonePhase
	e.currentTarget = nil
	return !e.defaultPrevented
}

// path lists the propagation path from the window to the target.
func (d *Document) path(e *Event) []any {
	if e.target == nil {
		switch e.node {
		case bubbling.Window:
			return []any{bubbling.Window}
		case bubbling.Document:
			return []any{bubbling.Window, bubbling.Document}
		}
		return nil
	}
	var chain []any
	for el := e.target; el != nil; el = el.parent() {
		chain = append(chain, el)
	}
	path := make([]any, 0, len(chain)+2)
	if e.target.InDocument() {
		path = append(path, bubbling.Window, bubbling.Document)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		path = append(path, chain[i])
	}
	return path
}

// invoke runs the listeners of node and reports whether propagation was
// stopped. At the target both capture and bubble listeners run.
func (d *Document) invoke(node any, e *Event, capture, atTarget bool) bool {
	d.mu.RLock()
	ls := d.listeners[listenerKey{node: node, kind: e.eventType}]
	snapshot := make([]*listener, len(ls))
	copy(snapshot, ls)
	d.mu.RUnlock()

	e.currentTarget = node
	for _, l := range snapshot {
		if l.removed || (!atTarget && l.capture != capture) {
			continue
		}
		d.call(l, e)
	}
	return e.stopped
}

func (d *Document) call(l *listener, e *Event) {
	defer func() {
		if v := recover(); v != nil {
			d.log.WithError(errors.Errorf("%v", v)).
				WithField("event", e.eventType).
				Error("raw listener failed")
		}
	}()
	l.fn(e, l.scope)
}

func validTag(tag string) bool {
	if tag == "" {
		return false
	}
	for _, r := range tag {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

func xpathLiteral(s string) (string, bool) {
	switch {
	case !strings.Contains(s, "'"):
		return "'" + s + "'", true
	case !strings.Contains(s, `"`):
		return `"` + s + `"`, true
	}
	return "", false
}

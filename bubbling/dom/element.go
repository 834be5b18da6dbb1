package dom

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/awakmu/bubbling-library/bubbling"
)

var (
	// ErrNoValue is returned when an element has no value property.
	ErrNoValue = errors.New("dom: element has no value")
	// ErrNoOption is returned when a select has no option at an index.
	ErrNoOption = errors.New("dom: no option at index")
	// ErrNotSelect is returned by select operations on other elements.
	ErrNotSelect = errors.New("dom: element is not a select")
)

const unset = -2

// Element is an element node of a Document. There is exactly one Element
// per node, so elements compare equal with ==.
// https://dom.spec.whatwg.org/#interface-element
type Element struct {
	doc  *Document
	node *html.Node

	// live state, the parsed attributes stay the default
	value    *string
	selected int
}

var (
	_ bubbling.Element    = (*Element)(nil)
	_ bubbling.Valuer     = (*Element)(nil)
	_ bubbling.Selectable = (*Element)(nil)
)

// Node returns the underlying parser node.
func (e *Element) Node() *html.Node { return e.node }

// Document returns the owner document.
func (e *Element) Document() *Document { return e.doc }

// TagName returns the upper case tag name.
func (e *Element) TagName() string {
	return strings.ToUpper(e.node.Data)
}

func (e *Element) ID() string {
	v, _ := e.GetAttribute("id")
	return v
}

// ClassList returns the classnames in document order.
func (e *Element) ClassList() []string {
	v, _ := e.GetAttribute("class")
	return strings.Fields(v)
}

func (e *Element) HasClass(name string) bool {
	for _, c := range e.ClassList() {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass appends name unless it is present.
func (e *Element) AddClass(name string) {
	if name == "" || e.HasClass(name) {
		return
	}
	e.SetAttribute("class", strings.Join(append(e.ClassList(), name), " "))
}

func (e *Element) RemoveClass(name string) {
	classes := e.ClassList()
	kept := classes[:0]
	for _, c := range classes {
		if c != name {
			kept = append(kept, c)
		}
	}
	e.SetAttribute("class", strings.Join(kept, " "))
}

// GetAttribute looks up an attribute. HTML attribute names are case
// insensitive and are stored lower case by the parser.
func (e *Element) GetAttribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e *Element) HasAttribute(name string) bool {
	_, ok := e.GetAttribute(name)
	return ok
}

func (e *Element) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

func (e *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr = append(e.node.Attr[:i], e.node.Attr[i+1:]...)
			return
		}
	}
}

// Parent returns the parent element, or nil at the top of the tree.
func (e *Element) Parent() bubbling.Element {
	if p := e.parent(); p != nil {
		return p
	}
	return nil
}

func (e *Element) parent() *Element {
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode || e.doc == nil {
		return nil
	}
	return e.doc.wrap(p)
}

// InDocument reports whether the element is attached to its document.
func (e *Element) InDocument() bool {
	if e.doc == nil {
		return false
	}
	n := e.node
	for n.Parent != nil {
		n = n.Parent
	}
	return n == e.doc.root
}

// AppendChild moves child under e.
func (e *Element) AppendChild(child *Element) *Element {
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
	return child
}

// RemoveChild detaches child from e.
func (e *Element) RemoveChild(child *Element) *Element {
	if child.node.Parent == e.node {
		e.node.RemoveChild(child.node)
	}
	return child
}

// TextContent returns the concatenated text of the subtree.
func (e *Element) TextContent() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return b.String()
}

// Value returns the live value of form controls.
func (e *Element) Value() (string, error) {
	if e.value != nil {
		return *e.value, nil
	}
	switch e.node.DataAtom {
	case atom.Input, atom.Button:
		v, _ := e.GetAttribute("value")
		return v, nil
	case atom.Textarea:
		return e.TextContent(), nil
	case atom.Option:
		return optionValue(e), nil
	case atom.Select:
		if e.Multiple() {
			for i, o := range e.options() {
				if e.isSelected(i, o) {
					return optionValue(o), nil
				}
			}
			return "", nil
		}
		return e.OptionValue(e.SelectedIndex())
	}
	return "", errors.Wrapf(ErrNoValue, "<%s>", e.node.Data)
}

// SetValue sets the live value, as typing into the control would.
func (e *Element) SetValue(v string) {
	e.value = &v
}

// Multiple reports whether a select allows several selected options.
func (e *Element) Multiple() bool {
	return e.node.DataAtom == atom.Select && e.HasAttribute("multiple")
}

// SelectedIndex returns the index of the first selected option, or -1. A
// single select without an explicitly selected option selects its first
// option.
func (e *Element) SelectedIndex() int {
	if e.node.DataAtom != atom.Select {
		return -1
	}
	if e.selected != unset {
		return e.selected
	}
	opts := e.options()
	for i, o := range opts {
		if o.HasAttribute("selected") {
			return i
		}
	}
	if len(opts) > 0 && !e.Multiple() {
		return 0
	}
	return -1
}

// Select sets the selected index. -1 clears the selection.
func (e *Element) Select(i int) error {
	if e.node.DataAtom != atom.Select {
		return errors.Wrapf(ErrNotSelect, "<%s>", e.node.Data)
	}
	if i < -1 || i >= len(e.options()) {
		return errors.Wrapf(ErrNoOption, "select %d", i)
	}
	e.selected = i
	return nil
}

// OptionValue returns the value of the option at i.
func (e *Element) OptionValue(i int) (string, error) {
	opts := e.options()
	if i < 0 || i >= len(opts) {
		return "", errors.Wrapf(ErrNoOption, "option %d of %d", i, len(opts))
	}
	return optionValue(opts[i]), nil
}

func (e *Element) isSelected(i int, o *Element) bool {
	if e.selected != unset {
		return i == e.selected
	}
	return o.HasAttribute("selected")
}

func (e *Element) options() []*Element {
	var opts []*Element
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if c.DataAtom == atom.Option {
				opts = append(opts, e.doc.wrap(c))
				continue
			}
			walk(c)
		}
	}
	walk(e.node)
	return opts
}

func optionValue(o *Element) string {
	if v, ok := o.GetAttribute("value"); ok {
		return v
	}
	return strings.TrimSpace(o.TextContent())
}

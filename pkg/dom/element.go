// Package dom carries the retained element tree the render layer draws
// into. It stands in for a browser document: elements hold attributes,
// children and event listeners, and events dispatched on a node bubble up
// through its ancestors.
package dom

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

type Attrs map[string]string

// Handler reacts to a dispatched event. Calling ev.StopPropagation inside a
// handler stops the bubble at the current element.
type Handler func(ev *Event)

type Event struct {
	Type    string
	Target  *Element
	stopped bool
}

func (ev *Event) StopPropagation() {
	ev.stopped = true
}

// Element is a single node. A node with an empty Tag is a text node and
// holds only Text.
type Element struct {
	Tag  string
	Text string

	attrs     Attrs
	children  []*Element
	parent    *Element
	listeners map[string][]Handler
}

// H builds an element, mirroring the usual hyperscript shape: children may
// be *Element or string (turned into text nodes); nils are skipped.
func H(tag string, attrs Attrs, children ...interface{}) *Element {
	el := &Element{Tag: tag, attrs: Attrs{}}
	for k, v := range attrs {
		el.attrs[k] = v
	}
	for _, c := range children {
		switch v := c.(type) {
		case nil:
		case string:
			el.AppendChild(&Element{Text: v})
		case *Element:
			el.AppendChild(v)
		default:
			el.AppendChild(&Element{Text: fmt.Sprint(v)})
		}
	}
	return el
}

func Text(s string) *Element {
	return &Element{Text: s}
}

func (el *Element) Attr(name string) string {
	return el.attrs[name]
}

func (el *Element) SetAttr(name, value string) {
	if el.attrs == nil {
		el.attrs = Attrs{}
	}
	el.attrs[name] = value
}

func (el *Element) HasClass(class string) bool {
	for _, c := range strings.Fields(el.attrs["class"]) {
		if c == class {
			return true
		}
	}
	return false
}

func (el *Element) AppendChild(child *Element) {
	child.parent = el
	el.children = append(el.children, child)
}

func (el *Element) Children() []*Element {
	return el.children
}

func (el *Element) Parent() *Element {
	return el.parent
}

// ReplaceChildren atomically swaps the whole subtree below el. The old
// children are detached together with their listeners, so repeated refreshes
// never accumulate stale handlers.
func (el *Element) ReplaceChildren(children ...*Element) {
	for _, c := range el.children {
		c.parent = nil
	}
	el.children = el.children[:0]
	for _, c := range children {
		el.AppendChild(c)
	}
}

func (el *Element) On(event string, h Handler) {
	if el.listeners == nil {
		el.listeners = map[string][]Handler{}
	}
	el.listeners[event] = append(el.listeners[event], h)
}

// Dispatch fires an event at el and bubbles it to the root.
func (el *Element) Dispatch(event string) {
	ev := &Event{Type: event, Target: el}
	for node := el; node != nil; node = node.parent {
		for _, h := range node.listeners[event] {
			h(ev)
		}
		if ev.stopped {
			return
		}
	}
}

func (el *Element) Click() {
	el.Dispatch("click")
}

// Closest walks from el upward and returns the first element matching tag
// and, when class is non-empty, carrying that class. Mirrors
// target.closest("tag.class").
func (el *Element) Closest(tag, class string) *Element {
	for node := el; node != nil; node = node.parent {
		if node.Tag == tag && (class == "" || node.HasClass(class)) {
			return node
		}
	}
	return nil
}

// GetElementByID searches the subtree rooted at el depth-first.
func (el *Element) GetElementByID(id string) *Element {
	if el.attrs["id"] == id && el.Tag != "" {
		return el
	}
	for _, c := range el.children {
		if found := c.GetElementByID(id); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns, in document order, every element in the subtree with the
// given tag and class (class may be empty).
func (el *Element) FindAll(tag, class string) []*Element {
	var out []*Element
	if el.Tag == tag && (class == "" || el.HasClass(class)) {
		out = append(out, el)
	}
	for _, c := range el.children {
		out = append(out, c.FindAll(tag, class)...)
	}
	return out
}

// SetText replaces the element's content with a single text node.
func (el *Element) SetText(s string) {
	el.ReplaceChildren(Text(s))
}

// TextContent concatenates all text nodes in the subtree.
func (el *Element) TextContent() string {
	if el.Tag == "" {
		return el.Text
	}
	var b strings.Builder
	for _, c := range el.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// WriteTo renders the subtree as indented markup, used by the terminal
// front end to show what a browser would display.
func (el *Element) WriteTo(w io.Writer) {
	el.write(w, 0)
}

func (el *Element) write(w io.Writer, depth int) {
	indent := strings.Repeat("  ", depth)
	if el.Tag == "" {
		if strings.TrimSpace(el.Text) != "" {
			fmt.Fprintf(w, "%s%s\n", indent, el.Text)
		}
		return
	}

	keys := make([]string, 0, len(el.attrs))
	for k := range el.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("<" + el.Tag)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%q", k, el.attrs[k])
	}
	b.WriteString(">")
	fmt.Fprintf(w, "%s%s\n", indent, b.String())

	for _, c := range el.children {
		c.write(w, depth+1)
	}
}

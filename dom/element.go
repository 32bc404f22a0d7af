// Package dom is a small headless DOM: the widget's element tree, the
// attribute/class/dataset operations the slider code performs on it, pure
// node descriptions for diffing, and HTML rendering through x/net/html.
package dom

import (
	"sort"
	"strings"
)

// Tooltip is the live tooltip instance attached to an element
type Tooltip struct {
	Title   string
	Enabled bool
}

// Element is a node of the headless DOM
type Element struct {
	Tag      string
	ID       string
	Text     string
	Children []*Element
	Parent   *Element

	classes []string
	attrs   map[string]string
	dataset map[string]string
	tooltip *Tooltip
}

// NewElement creates a detached element
func NewElement(tag string, classes ...string) *Element {
	e := &Element{
		Tag:     strings.ToLower(tag),
		attrs:   make(map[string]string),
		dataset: make(map[string]string),
	}
	for _, c := range classes {
		e.AddClass(c)
	}
	return e
}

// Classes returns a copy of the class list in insertion order
func (e *Element) Classes() []string {
	return append([]string(nil), e.classes...)
}

func (e *Element) HasClass(class string) bool {
	for _, c := range e.classes {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass reports whether the class list changed
func (e *Element) AddClass(class string) bool {
	if class == "" || e.HasClass(class) {
		return false
	}
	e.classes = append(e.classes, class)
	return true
}

// RemoveClass reports whether the class list changed
func (e *Element) RemoveClass(class string) bool {
	for i, c := range e.classes {
		if c == class {
			e.classes = append(e.classes[:i], e.classes[i+1:]...)
			return true
		}
	}
	return false
}

// ToggleClass adds or removes class depending on on, reporting a change
func (e *Element) ToggleClass(class string, on bool) bool {
	if on {
		return e.AddClass(class)
	}
	return e.RemoveClass(class)
}

// Attr reads an attribute. id, class and data-* are routed to their
// dedicated fields so that every view of the element agrees.
func (e *Element) Attr(name string) (string, bool) {
	name = strings.ToLower(name)
	switch {
	case name == "id":
		return e.ID, e.ID != ""
	case name == "class":
		return strings.Join(e.classes, " "), len(e.classes) > 0
	case strings.HasPrefix(name, "data-"):
		v, ok := e.dataset[DataKey(name)]
		return v, ok
	}
	v, ok := e.attrs[name]
	return v, ok
}

// SetAttr writes an attribute
func (e *Element) SetAttr(name, value string) {
	name = strings.ToLower(name)
	switch {
	case name == "id":
		e.ID = value
	case name == "class":
		e.classes = nil
		for _, c := range strings.Fields(value) {
			e.AddClass(c)
		}
	case strings.HasPrefix(name, "data-"):
		e.dataset[DataKey(name)] = value
	default:
		e.attrs[name] = value
	}
}

// RemoveAttr deletes an attribute
func (e *Element) RemoveAttr(name string) {
	name = strings.ToLower(name)
	switch {
	case name == "id":
		e.ID = ""
	case name == "class":
		e.classes = nil
	case strings.HasPrefix(name, "data-"):
		delete(e.dataset, DataKey(name))
	default:
		delete(e.attrs, name)
	}
}

// Data reads a dataset entry by its camelCase key
func (e *Element) Data(key string) string {
	return e.dataset[key]
}

// SetData writes a dataset entry by its camelCase key
func (e *Element) SetData(key, value string) {
	e.dataset[key] = value
}

// Dataset returns a copy of the dataset
func (e *Element) Dataset() map[string]string {
	out := make(map[string]string, len(e.dataset))
	for k, v := range e.dataset {
		out[k] = v
	}
	return out
}

// attributes lists plain attributes and data-* attributes in render order
func (e *Element) attributes() [][2]string {
	out := make([][2]string, 0, len(e.attrs)+len(e.dataset)+2)
	if e.ID != "" {
		out = append(out, [2]string{"id", e.ID})
	}
	if len(e.classes) > 0 {
		out = append(out, [2]string{"class", strings.Join(e.classes, " ")})
	}
	for _, k := range sortedKeys(e.attrs) {
		out = append(out, [2]string{k, e.attrs[k]})
	}
	for _, k := range sortedKeys(e.dataset) {
		out = append(out, [2]string{DataAttrName(k), e.dataset[k]})
	}
	if _, set := e.dataset["bsToggle"]; !set && e.tooltip != nil && e.tooltip.Enabled {
		out = append(out, [2]string{"data-bs-toggle", "tooltip"})
	}
	return out
}

// Tooltip returns the attached tooltip instance, nil when none
func (e *Element) Tooltip() *Tooltip {
	return e.tooltip
}

// DisposeTooltip detaches the tooltip instance
func (e *Element) DisposeTooltip() {
	e.tooltip = nil
}

// EnableTooltip attaches a fresh tooltip built from data-bs-title
func (e *Element) EnableTooltip() {
	e.tooltip = &Tooltip{Title: e.dataset["bsTitle"], Enabled: true}
}

// Append adds children at the end, detaching them from their old parent
func (e *Element) Append(children ...*Element) {
	for _, c := range children {
		c.Remove()
		c.Parent = e
		e.Children = append(e.Children, c)
	}
}

// Prepend inserts child as the first child
func (e *Element) Prepend(child *Element) {
	child.Remove()
	child.Parent = e
	e.Children = append([]*Element{child}, e.Children...)
}

// InsertBefore inserts child right before ref, or appends when ref is not a child of e
func (e *Element) InsertBefore(child, ref *Element) {
	child.Remove()
	i := e.indexOf(ref)
	if ref == nil || i < 0 {
		e.Append(child)
		return
	}
	child.Parent = e
	e.Children = append(e.Children[:i], append([]*Element{child}, e.Children[i:]...)...)
}

// Remove detaches e from its parent
func (e *Element) Remove() {
	p := e.Parent
	if p == nil {
		return
	}
	if i := p.indexOf(e); i >= 0 {
		p.Children = append(p.Children[:i], p.Children[i+1:]...)
	}
	e.Parent = nil
}

// Unwrap removes e's parent, leaving e and its siblings in the parent's place.
// It reports false when the parent cannot be removed.
func (e *Element) Unwrap() bool {
	p := e.Parent
	if p == nil || p.Parent == nil {
		return false
	}
	gp := p.Parent
	i := gp.indexOf(p)
	if i < 0 {
		return false
	}

	moved := p.Children
	for _, c := range moved {
		c.Parent = gp
	}
	children := make([]*Element, 0, len(gp.Children)-1+len(moved))
	children = append(children, gp.Children[:i]...)
	children = append(children, moved...)
	children = append(children, gp.Children[i+1:]...)
	gp.Children = children

	p.Children = nil
	p.Parent = nil
	return true
}

// Wrap puts wrapper where e is and moves e inside it
func (e *Element) Wrap(wrapper *Element) {
	wrapper.Remove()
	p := e.Parent
	if p != nil {
		i := p.indexOf(e)
		p.Children[i] = wrapper
		wrapper.Parent = p
		e.Parent = nil
	}
	wrapper.Append(e)
}

// Walk visits e and its descendants in document order until fn returns false
func (e *Element) Walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range append([]*Element(nil), e.Children...) {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Contains reports whether other is e or one of its descendants
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.Parent {
		if n == e {
			return true
		}
	}
	return false
}

func (e *Element) indexOf(child *Element) int {
	for i, c := range e.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// DataKey converts a data-kebab-case attribute name into its dataset key
func DataKey(attr string) string {
	name := strings.TrimPrefix(strings.ToLower(attr), "data-")
	var b strings.Builder
	upper := false
	for _, r := range name {
		if r == '-' {
			upper = true
			continue
		}
		if upper && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		upper = false
		b.WriteRune(r)
	}
	return b.String()
}

// DataAttrName converts a dataset key into its data-kebab-case attribute name
func DataAttrName(key string) string {
	var b strings.Builder
	b.WriteString("data-")
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

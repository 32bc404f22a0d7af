package dom

// NodeDesc is a pure, comparable description of a subtree. Attrs holds
// every attribute except id and class, data-* included.
type NodeDesc struct {
	Tag      string            `json:"tag"`
	ID       string            `json:"id,omitempty"`
	Classes  []string          `json:"classes,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Text     string            `json:"text,omitempty"`
	Children []NodeDesc        `json:"children,omitempty"`
}

// Describe captures the current state of e and its subtree
func Describe(e *Element) NodeDesc {
	d := NodeDesc{
		Tag:     e.Tag,
		ID:      e.ID,
		Classes: e.Classes(),
		Text:    e.Text,
	}
	_, explicitToggle := e.dataset["bsToggle"]
	for _, kv := range e.attributes() {
		if kv[0] == "id" || kv[0] == "class" || (kv[0] == "data-bs-toggle" && !explicitToggle) {
			continue
		}
		if d.Attrs == nil {
			d.Attrs = make(map[string]string)
		}
		d.Attrs[kv[0]] = kv[1]
	}
	for _, c := range e.Children {
		d.Children = append(d.Children, Describe(c))
	}
	return d
}

// Build materializes a description into a detached element tree
func Build(d NodeDesc) *Element {
	e := NewElement(d.Tag, d.Classes...)
	e.ID = d.ID
	e.Text = d.Text
	for k, v := range d.Attrs {
		e.SetAttr(k, v)
	}
	for _, c := range d.Children {
		e.Append(Build(c))
	}
	return e
}

// Equal compares two descriptions; nil and empty collections are equal
func (d NodeDesc) Equal(o NodeDesc) bool {
	if d.Tag != o.Tag || d.ID != o.ID || d.Text != o.Text {
		return false
	}
	if len(d.Classes) != len(o.Classes) || len(d.Attrs) != len(o.Attrs) || len(d.Children) != len(o.Children) {
		return false
	}
	for i := range d.Classes {
		if d.Classes[i] != o.Classes[i] {
			return false
		}
	}
	for k, v := range d.Attrs {
		if ov, ok := o.Attrs[k]; !ok || ov != v {
			return false
		}
	}
	for i := range d.Children {
		if !d.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Shallow returns d without children
func (d NodeDesc) Shallow() NodeDesc {
	d.Children = nil
	return d
}

// SyncOwn rewrites e's own classes, attributes and text to match d, leaving
// tag, id and children alone. It reports whether anything changed.
func (e *Element) SyncOwn(d NodeDesc) bool {
	current := Describe(e).Shallow()
	want := d.Shallow()
	want.Tag, want.ID = current.Tag, current.ID
	if current.Equal(want) {
		return false
	}

	e.classes = nil
	for _, c := range d.Classes {
		e.AddClass(c)
	}
	for k := range current.Attrs {
		if _, keep := d.Attrs[k]; !keep {
			e.RemoveAttr(k)
		}
	}
	for k, v := range d.Attrs {
		e.SetAttr(k, v)
	}
	e.Text = d.Text
	return true
}

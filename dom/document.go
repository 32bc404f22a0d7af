package dom

import (
	"fmt"
	"strings"
)

// Document is a tree rooted at a body element
type Document struct {
	Body *Element
}

// NewDocument returns an empty document
func NewDocument() *Document {
	return &Document{Body: NewElement("body")}
}

// GetElementByID returns the first element with id, nil when absent
func (d *Document) GetElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	d.Body.Walk(func(e *Element) bool {
		if e.ID == id {
			found = e
			return false
		}
		return true
	})
	return found
}

// GetElementsByClass returns every element carrying class, in document order
func (d *Document) GetElementsByClass(class string) []*Element {
	var out []*Element
	d.Body.Walk(func(e *Element) bool {
		if e.HasClass(class) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// Contains reports whether e is attached to this document
func (d *Document) Contains(e *Element) bool {
	return e != nil && d.Body.Contains(e)
}

// Selector returns a CSS path to e anchored at its nearest ancestor with an
// id. Used to address patches sent to the live preview.
func Selector(e *Element) string {
	var parts []string
	for n := e; n != nil; n = n.Parent {
		if n.ID != "" {
			parts = append(parts, "#"+n.ID)
			break
		}
		if n.Parent == nil {
			parts = append(parts, n.Tag)
			break
		}
		seg := n.Tag
		for _, c := range n.classes {
			seg += "." + c
		}
		seg += fmt.Sprintf(":nth-child(%d)", n.Parent.indexOf(n)+1)
		parts = append(parts, seg)
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

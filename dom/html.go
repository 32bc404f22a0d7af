package dom

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render writes e and its subtree as HTML
func Render(w io.Writer, e *Element) error {
	return html.Render(w, toNode(e))
}

// RenderString renders e, returning "" on failure
func RenderString(e *Element) string {
	var buf bytes.Buffer
	if err := Render(&buf, e); err != nil {
		return ""
	}
	return buf.String()
}

// RenderBody renders the children of the document body
func (d *Document) RenderBody(w io.Writer) error {
	for _, c := range d.Body.Children {
		if err := Render(w, c); err != nil {
			return err
		}
	}
	return nil
}

// String renders the body children as one HTML string
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.RenderBody(&buf); err != nil {
		return ""
	}
	return buf.String()
}

func toNode(e *Element) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     e.Tag,
		DataAtom: atom.Lookup([]byte(e.Tag)),
	}
	for _, kv := range e.attributes() {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[0], Val: kv[1]})
	}
	if e.Text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: e.Text})
	}
	for _, c := range e.Children {
		n.AppendChild(toNode(c))
	}
	return n
}

// Parse reads an HTML fragment into a Document. Text directly inside an
// element is concatenated into Element.Text; comments are dropped.
func Parse(r io.Reader) (*Document, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, err
	}

	doc := NewDocument()
	for _, n := range nodes {
		switch n.Type {
		case html.ElementNode:
			doc.Body.Append(fromNode(n))
		case html.TextNode:
			doc.Body.Text += strings.TrimSpace(n.Data)
		}
	}
	return doc, nil
}

func fromNode(n *html.Node) *Element {
	e := NewElement(n.Data)
	for _, a := range n.Attr {
		e.SetAttr(a.Key, a.Val)
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			e.Append(fromNode(c))
		case html.TextNode:
			text.WriteString(c.Data)
		}
	}
	e.Text = strings.TrimSpace(text.String())
	return e
}

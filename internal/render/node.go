package render

import (
	"encoding/json"
	"html"
	"strings"
)

// Attr is one element attribute. Attributes keep insertion order.
type Attr struct {
	Key string
	Val string
}

// Node is a display element, or a text leaf when Tag is empty.
type Node struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Node
}

// El builds an element node.
func El(tag string, attrs []Attr, children ...*Node) *Node {
	return (&Node{Tag: tag, Attrs: attrs}).Append(children...)
}

// Text builds a text leaf.
func Text(s string) *Node {
	return &Node{Text: s}
}

// Class is shorthand for a single class attribute.
func Class(name string) []Attr {
	return []Attr{{Key: "class", Val: name}}
}

// Attr returns the value of key and whether it is set.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Append adds the non-nil children and returns n.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

type nodeJSON struct {
	Tag      string            `json:"tag,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Text     string            `json:"text,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// MarshalJSON emits attributes as an object.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{Tag: n.Tag, Text: n.Text, Children: n.Children}
	if len(n.Attrs) > 0 {
		out.Attrs = make(map[string]string, len(n.Attrs))
		for _, a := range n.Attrs {
			out.Attrs[a.Key] = a.Val
		}
	}
	return json.Marshal(out)
}

var voidElements = map[string]bool{
	"br": true, "hr": true, "img": true, "input": true,
}

// HTML serializes nodes. Text and attribute values are escaped; the
// output is not sanitized.
func HTML(nodes []*Node) string {
	var b strings.Builder
	for _, n := range nodes {
		writeNode(&b, n)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	if n.Tag == "" {
		b.WriteString(html.EscapeString(n.Text))
		return
	}

	b.WriteByte('<')
	b.WriteString(n.Tag)
	for _, a := range n.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	if voidElements[n.Tag] {
		return
	}

	if n.Text != "" {
		b.WriteString(html.EscapeString(n.Text))
	}
	for _, c := range n.Children {
		writeNode(b, c)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}

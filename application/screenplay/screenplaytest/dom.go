// Package screenplaytest provides in-memory collaborators for exercising
// activities without a browser: a tiny DOM, an API stub and a file store.
package screenplaytest

import (
	"strings"
)

// Node is an element of the fake DOM. It matches a CSS query when the
// selector is one of its Selectors, exactly as written.
type Node struct {
	Name      string
	Selectors []string
	Role      string
	Label     string
	Text      string
	HTML      string
	Attrs     map[string]string
	Value     string
	Hidden    bool
	Children  []*Node
	// Document is the content of an iframe node
	Document *Node

	Files    []string
	Selected string
	Pressed  []string

	OnClick func(n *Node)

	parent *Node
}

// El creates a node answering to the given selectors
func El(name string, selectors ...string) *Node {
	return &Node{Name: name, Selectors: selectors, Attrs: map[string]string{}}
}

// WithText sets the node's own text
func (n *Node) WithText(text string) *Node {
	n.Text = text
	return n
}

// WithHTML sets the node's inner HTML
func (n *Node) WithHTML(html string) *Node {
	n.HTML = html
	return n
}

// WithAttr sets an attribute
func (n *Node) WithAttr(name, value string) *Node {
	n.Attrs[name] = value
	return n
}

// WithRole sets the ARIA role and accessible name
func (n *Node) WithRole(role, label string) *Node {
	n.Role = role
	n.Label = label
	return n
}

// WithValue sets the input value
func (n *Node) WithValue(value string) *Node {
	n.Value = value
	return n
}

// WithDocument makes the node an iframe showing doc
func (n *Node) WithDocument(doc *Node) *Node {
	n.Document = doc
	doc.parent = nil
	return n
}

// Hide marks the node invisible
func (n *Node) Hide() *Node {
	n.Hidden = true
	return n
}

// Append adds children and returns n
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		c.parent = n
		n.Children = append(n.Children, c)
	}
	return n
}

// Remove detaches n from its parent
func (n *Node) Remove() {
	if n.parent == nil {
		return
	}
	siblings := n.parent.Children
	for i, c := range siblings {
		if c == n {
			n.parent.Children = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// TextContent is the node's own text followed by its descendants' text
func (n *Node) TextContent() string {
	var b strings.Builder
	b.WriteString(n.Text)
	for _, c := range n.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

func (n *Node) String() string {
	if n.Name != "" {
		return n.Name
	}
	if len(n.Selectors) > 0 {
		return n.Selectors[0]
	}
	return "node"
}

func (n *Node) matchesSelector(selector string) bool {
	for _, s := range n.Selectors {
		if s == selector {
			return true
		}
	}
	return false
}

func (n *Node) descendants(visit func(*Node)) {
	for _, c := range n.Children {
		visit(c)
		c.descendants(visit)
	}
}

func (n *Node) visible() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.Hidden {
			return false
		}
	}
	return true
}

// relative follows the two xpath axes the fake understands
func (n *Node) relative(xpath string) *Node {
	switch xpath {
	case "..":
		return n.parent
	case "following-sibling::*[1]":
		if n.parent == nil {
			return nil
		}
		siblings := n.parent.Children
		for i, c := range siblings {
			if c == n && i+1 < len(siblings) {
				return siblings[i+1]
			}
		}
	}
	return nil
}

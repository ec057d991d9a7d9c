package legaldoc

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// maxXMLDepth bounds element nesting to defuse XML bombs.
const maxXMLDepth = 256

// xmlNode is a minimal document-tree node. Only what the locators need
// survives parsing: local tag name, attributes, the character data that
// precedes the first child (the "direct text"), and children in
// document order. Text trailing a child element is discarded, matching
// how the section heuristics were originally tuned.
type xmlNode struct {
	name     string // local name, namespace stripped
	attrs    map[string]string
	text     string
	children []*xmlNode
}

// parseXMLTree decodes an XML document into an xmlNode tree.
func parseXMLTree(r io.Reader) (*xmlNode, error) {
	dec := xml.NewDecoder(r)
	// Legal-corpus XML is frequently served as latin-1 or with stray
	// entities; be permissive about charset labels.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var root *xmlNode
	var stack []*xmlNode
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) >= maxXMLDepth {
				return nil, fmt.Errorf("xml nesting depth exceeds %d", maxXMLDepth)
			}
			n := &xmlNode{name: t.Name.Local}
			if len(t.Attr) > 0 {
				n.attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.attrs[a.Name.Local] = a.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple document roots")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			n := stack[len(stack)-1]
			// Direct text only: ignore character data after the first child.
			if len(n.children) == 0 {
				n.text += string(t)
			}

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("empty xml document")
	}
	return root, nil
}

// directText returns the node's own character data, trimmed.
func (n *xmlNode) directText() string {
	return strings.TrimSpace(n.text)
}

// attr returns the named attribute or "".
func (n *xmlNode) attr(name string) string {
	return n.attrs[name]
}

// walk visits n and every descendant in document order. Returning false
// from fn stops descending into that node's children (the node itself
// has already been visited).
func (n *xmlNode) walk(fn func(*xmlNode) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.walk(fn)
	}
}

// findFirst returns the first node (preorder, including n itself) whose
// local name matches fold-insensitively, or nil.
func (n *xmlNode) findFirst(name string) *xmlNode {
	var found *xmlNode
	n.walk(func(node *xmlNode) bool {
		if found != nil {
			return false
		}
		if strings.EqualFold(node.name, name) {
			found = node
			return false
		}
		return true
	})
	return found
}

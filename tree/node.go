// Package tree implements the named, typed, ordered node tree that harriet
// uses for everything: handler bodies, invocation arguments, and results all
// travel as Node trees.
package tree

import (
	"fmt"
	"strings"
)

// Node is a single tree node. A Node owns its children; the same Node must
// never appear in two trees. Child order is insertion order and is
// significant.
type Node struct {
	Name     string
	Value    any
	Children []*Node
}

// New creates a node with the given name and children.
func New(name string, children ...*Node) *Node {
	return &Node{Name: name, Children: children}
}

// NewValue creates a leaf node with the given name and value.
func NewValue(name string, value any) *Node {
	return &Node{Name: name, Value: value}
}

// Clone returns a structurally independent deep copy of the node. Child
// order is preserved. Values are copied as-is: scalars are immutable, and
// opaque values are shared by reference.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Name: n.Name, Value: n.Value}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// CloneChildren deep-copies a child slice without requiring a parent node.
func CloneChildren(children []*Node) []*Node {
	if len(children) == 0 {
		return nil
	}
	out := make([]*Node, len(children))
	for i, child := range children {
		out[i] = child.Clone()
	}
	return out
}

// Child returns the first child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// At walks a child path by name, returning nil if any segment is missing.
func (n *Node) At(path ...string) *Node {
	cur := n
	for _, name := range path {
		if cur = cur.Child(name); cur == nil {
			return nil
		}
	}
	return cur
}

// Put replaces the first child with the same name, or appends if no child
// has that name. Replacement keeps the original child's position.
func (n *Node) Put(child *Node) {
	for i, c := range n.Children {
		if c.Name == child.Name {
			n.Children[i] = child
			return
		}
	}
	n.Children = append(n.Children, child)
}

// Append adds a child at the end regardless of name collisions.
func (n *Node) Append(child *Node) {
	n.Children = append(n.Children, child)
}

// Remove deletes the first child with the given name. Returns true if a
// child was removed.
func (n *Node) Remove(name string) bool {
	for i, c := range n.Children {
		if c.Name == name {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return true
		}
	}
	return false
}

// Str returns the node's value coerced to a string. Non-string scalars are
// formatted; nil is the empty string.
func (n *Node) Str() string {
	if n == nil || n.Value == nil {
		return ""
	}
	if s, ok := n.Value.(string); ok {
		return s
	}
	return fmt.Sprint(n.Value)
}

// ChildStr is shorthand for looking up a child and coercing its value.
func (n *Node) ChildStr(name string) string {
	return n.Child(name).Str()
}

// Equal reports structural equality: same name, same value, same children
// in the same order.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Name != other.Name || n.Value != other.Value {
		return false
	}
	if len(n.Children) != len(other.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// Walk visits the node and every descendant in depth-first order. The walk
// stops early if fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// String renders the tree in a compact one-line form, for logs and test
// failure messages.
func (n *Node) String() string {
	var b strings.Builder
	n.writeTo(&b)
	return b.String()
}

func (n *Node) writeTo(b *strings.Builder) {
	if n == nil {
		b.WriteString("<nil>")
		return
	}
	b.WriteString(n.Name)
	if n.Value != nil {
		fmt.Fprintf(b, "=%v", n.Value)
	}
	if len(n.Children) > 0 {
		b.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte(' ')
			}
			c.writeTo(b)
		}
		b.WriteByte(')')
	}
}

package field

import (
	"fmt"
	"maps"
)

// Kind enumerates the node variants of a field graph.
type Kind int

const (
	KindSphere       Kind = iota // sphere centered at the origin
	KindPlane                    // half-space below a plane
	KindBox                      // axis-aligned box centered at the origin
	KindUnion                    // smallest distance of all children
	KindIntersection             // largest distance of all children
	KindDifference               // first child minus the union of the rest
	KindTransform                // rigid transform of its child
	KindRepetition               // mirrored periodic folding of space
	KindDisplacement             // union of children plus a scalar offset
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindPlane:
		return "plane"
	case KindBox:
		return "box"
	case KindUnion:
		return "union"
	case KindIntersection:
		return "intersection"
	case KindDifference:
		return "difference"
	case KindTransform:
		return "transform"
	case KindRepetition:
		return "repetition"
	case KindDisplacement:
		return "displacement"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsLeaf reports whether nodes of this kind are primitives without children.
func (k Kind) IsLeaf() bool {
	return k == KindSphere || k == KindPlane || k == KindBox
}

// IsUnary reports whether nodes of this kind wrap exactly one child.
func (k Kind) IsUnary() bool {
	return k == KindTransform || k == KindRepetition
}

// Node is the fundamental element of a field graph.
//
// Groups and wrappers own their children exclusively. A graph must be fully
// built before it is evaluated and must not be mutated while evaluations are
// running; evaluation itself never writes to a node.
type Node struct {
	Kind        Kind
	Data        NodeData
	Children    []*Node
	Attachments Attachments
}

// Add appends children to a group or wrapper node and returns the node.
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Child returns the i-th child or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// String returns a short description of the node.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if name := n.Name(); name != "" {
		return fmt.Sprintf("%s %q", n.Kind, name)
	}
	if n.Kind.IsLeaf() {
		return n.Kind.String()
	}
	return fmt.Sprintf("%s[%d]", n.Kind, len(n.Children))
}

// Walk visits n and its descendants depth-first in pre-order. Returning
// false from fn skips the children of the visited node.
func Walk(n *Node, fn func(n *Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Count returns the number of nodes reachable from n.
func Count(n *Node) int {
	count := 0
	Walk(n, func(*Node) bool {
		count++
		return true
	})
	return count
}

// Clone returns a deep copy of the graph rooted at n. Attachment maps are
// copied; attachment values and node data are shared.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	c := &Node{Kind: n.Kind, Data: n.Data, Attachments: maps.Clone(n.Attachments)}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = Clone(child)
		}
	}
	return c
}

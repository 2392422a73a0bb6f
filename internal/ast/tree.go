package ast

import (
	"strata/internal/lang"
	"strata/internal/source"
	"strata/internal/token"
)

// Tree is the per-parse arena of nodes. All nodes of one parse live and die
// together: drop the Tree and every node goes with it. Callers that want
// incremental reuse retain the Tree; nothing inside holds it alive.
type Tree struct {
	nodes *Arena[Node]
	root  NodeID
}

func NewTree() *Tree {
	return &Tree{
		nodes: NewArena[Node](64),
	}
}

// NewValue allocates a leaf atom node.
func (t *Tree) NewValue(span source.Span, kind token.Kind, text string) NodeID {
	return NodeID(t.nodes.Allocate(Node{
		Kind:  NodeValue,
		Span:  span,
		Token: kind,
		Text:  text,
	}))
}

// NewContainer allocates a delimited region node.
func (t *Tree) NewContainer(span source.Span, tag lang.PairTag, children []NodeID) NodeID {
	return NodeID(t.nodes.Allocate(Node{
		Kind:     NodeContainer,
		Span:     span,
		Tag:      tag,
		Children: children,
	}))
}

// NewField allocates a key/value pair node; children are key then value.
func (t *Tree) NewField(span source.Span, key, value NodeID) NodeID {
	return NodeID(t.nodes.Allocate(Node{
		Kind:     NodeField,
		Span:     span,
		Children: []NodeID{key, value},
	}))
}

// NewError allocates an error node carrying an optional partial subtree.
func (t *Tree) NewError(span source.Span, msg string, partial []NodeID) NodeID {
	return NodeID(t.nodes.Allocate(Node{
		Kind:     NodeError,
		Span:     span,
		Msg:      msg,
		Children: partial,
	}))
}

// Get returns the node for id, or nil for NoNodeID.
func (t *Tree) Get(id NodeID) *Node {
	return t.nodes.Get(uint32(id))
}

// Root returns the root node ID, NoNodeID for an empty tree.
func (t *Tree) Root() NodeID { return t.root }

// SetRoot records the tree's root.
func (t *Tree) SetRoot(id NodeID) { t.root = id }

// Len returns the number of allocated nodes.
func (t *Tree) Len() int { return int(t.nodes.Len()) }

// Walk visits id and its subtree depth-first, parents before children.
// Returning false from visit prunes the subtree.
func (t *Tree) Walk(id NodeID, visit func(id NodeID, n *Node) bool) {
	n := t.Get(id)
	if n == nil {
		return
	}
	if !visit(id, n) {
		return
	}
	for _, child := range n.Children {
		t.Walk(child, visit)
	}
}

// ErrorCount counts error nodes in the subtree rooted at id.
func (t *Tree) ErrorCount(id NodeID) int {
	count := 0
	t.Walk(id, func(_ NodeID, n *Node) bool {
		if n.Kind == NodeError {
			count++
		}
		return true
	})
	return count
}

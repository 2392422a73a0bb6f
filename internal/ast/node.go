package ast

import (
	"strata/internal/lang"
	"strata/internal/source"
	"strata/internal/token"
)

// NodeID is a 1-based index into a Tree's arena. 0 is the null node.
type NodeID uint32

// NoNodeID is the null node reference.
const NoNodeID NodeID = 0

// NodeKind tags the closed set of node variants.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota
	// NodeValue is a leaf atom: literal, identifier, keyword.
	NodeValue
	// NodeContainer is a delimited region holding items.
	NodeContainer
	// NodeField is a key/value pair inside a container.
	NodeField
	// NodeError marks a region the parser could not complete. Parse
	// failure is a tree shape, not an out-of-band signal: an error node
	// carries its message and whatever partial children were built.
	NodeError
)

func (k NodeKind) String() string {
	switch k {
	case NodeValue:
		return "value"
	case NodeContainer:
		return "container"
	case NodeField:
		return "field"
	case NodeError:
		return "error"
	}
	return "invalid"
}

// Node is one tagged variant. The payload fields used depend on Kind:
// Token/Text for values, Tag/Children for containers, Children for fields
// (key then value), Msg/Children for errors.
type Node struct {
	Kind     NodeKind
	Span     source.Span
	Token    token.Kind
	Text     string
	Tag      lang.PairTag
	Msg      string
	Children []NodeID
}

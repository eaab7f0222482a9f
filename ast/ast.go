package ast

// Node represents any node in the policy syntax tree.
type Node interface {
	Pos() int       // Starting position (for error reporting)
	End() int       // Ending position
	String() string // String representation for debugging/printing
}

// NodeInfo embeddable struct for position tracking.
type NodeInfo struct{ StartPos, StopPos int }

// NewNodeInfo builds position info from byte offsets.
func NewNodeInfo(start, stop int) NodeInfo { return NodeInfo{StartPos: start, StopPos: stop} }

func (n *NodeInfo) Pos() int       { return n.StartPos }
func (n *NodeInfo) End() int       { return n.StopPos }
func (n *NodeInfo) String() string { return "{Node}" } // Default stringer

// Ident names a variable, a function or a key. Identifiers are opaque:
// anything the lexer accepts is a valid name, number-like tokens included.
type Ident string

func (i Ident) String() string { return string(i) }

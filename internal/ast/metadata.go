package ast

import "fmt"

// NodeID uniquely identifies an AST node within one parse, so the REPL and
// language server can map a source position back to the node that produced
// a diagnostic or evaluation result.
type NodeID uint32

// SourceRange is the span of source text a node covers.
type SourceRange struct {
	Start Position
	End   Position
}

// Contains reports whether pos falls within the range.
func (sr SourceRange) Contains(pos Position) bool {
	return sr.Start.Offset <= pos.Offset && pos.Offset <= sr.End.Offset
}

func (sr SourceRange) String() string {
	if sr.Start.Line == sr.End.Line {
		return fmt.Sprintf("%s:%d:%d-%d", sr.Start.Filename, sr.Start.Line, sr.Start.Column, sr.End.Column)
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", sr.Start.Filename, sr.Start.Line, sr.Start.Column, sr.End.Line, sr.End.Column)
}

// Metadata carries debugging information for a node: its unique ID, the
// source range and text it was parsed from, and its parent in the tree.
// Unlike a bytecode-targeting compiler, the interpreter never lowers the
// tree to another representation, so there is no IR/bytecode mapping here.
type Metadata struct {
	NodeID     NodeID
	Source     SourceRange
	SourceText string
	ParentID   NodeID
}

func (m *Metadata) String() string {
	return fmt.Sprintf("NodeID:%d Source:%s Parent:%d", m.NodeID, m.Source.String(), m.ParentID)
}

// NodeTracker assigns node IDs and keeps the resulting metadata addressable
// by ID, e.g. for "what node is under the cursor" style lookups.
type NodeTracker struct {
	nextID   NodeID
	metadata map[NodeID]*Metadata
}

func NewNodeTracker() *NodeTracker {
	return &NodeTracker{nextID: 1, metadata: make(map[NodeID]*Metadata)}
}

func (nt *NodeTracker) GenerateID() NodeID {
	id := nt.nextID
	nt.nextID++
	return id
}

func (nt *NodeTracker) SetMetadata(id NodeID, meta *Metadata) { nt.metadata[id] = meta }
func (nt *NodeTracker) GetMetadata(id NodeID) *Metadata       { return nt.metadata[id] }

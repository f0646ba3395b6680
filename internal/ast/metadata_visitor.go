package ast

// MetadataVisitor assigns Metadata (node IDs, source ranges, source text)
// to every node in a parsed Program, so tooling built on top of the parser
// (the REPL's debug dump, the language server's hover/position lookups)
// can walk back from a node to where it came from.
type MetadataVisitor struct {
	tracker    *NodeTracker
	sourceText string
}

func NewMetadataVisitor(sourceText string) *MetadataVisitor {
	return &MetadataVisitor{tracker: NewNodeTracker(), sourceText: sourceText}
}

func (mv *MetadataVisitor) GetTracker() *NodeTracker { return mv.tracker }

// AssignMetadata assigns metadata to node and recurses into its children.
func (mv *MetadataVisitor) AssignMetadata(node Node, parentID NodeID) {
	if node == nil {
		return
	}

	id := mv.tracker.GenerateID()
	start, end := node.NodePos(), node.NodeEndPos()
	meta := &Metadata{
		NodeID:     id,
		Source:     SourceRange{Start: start, End: end},
		SourceText: mv.extractSourceText(start, end),
		ParentID:   parentID,
	}
	node.SetMetadata(meta)
	mv.tracker.SetMetadata(id, meta)

	mv.visitChildren(node, id)
}

func (mv *MetadataVisitor) extractSourceText(start, end Position) string {
	if mv.sourceText == "" || start.Offset < 0 || end.Offset < 0 ||
		start.Offset > len(mv.sourceText) || end.Offset > len(mv.sourceText) || start.Offset > end.Offset {
		return ""
	}
	return mv.sourceText[start.Offset:end.Offset]
}

func (mv *MetadataVisitor) visitChildren(node Node, parentID NodeID) {
	switch n := node.(type) {
	case *Program:
		for _, s := range n.Stmts {
			mv.AssignMetadata(s, parentID)
		}
	case *VarStmt:
		mv.AssignMetadata(&n.Name, parentID)
		mv.AssignMetadata(n.Value, parentID)
	case *ExprStmt:
		mv.AssignMetadata(n.Expr, parentID)
	case *BinaryExpr:
		mv.AssignMetadata(n.Left, parentID)
		mv.AssignMetadata(n.Right, parentID)
	case *UnaryExpr:
		mv.AssignMetadata(n.Value, parentID)
	case *RollExpr:
		mv.AssignMetadata(n.Count, parentID)
		mv.AssignMetadata(n.Faces, parentID)
	case *InExpr:
		mv.AssignMetadata(n.Value, parentID)
		mv.AssignMetadata(n.Low, parentID)
		mv.AssignMetadata(n.High, parentID)
	case *CallExpr:
		mv.AssignMetadata(&n.Callee, parentID)
		for _, a := range n.Args {
			mv.AssignMetadata(a, parentID)
		}
	case *ParenExpr:
		mv.AssignMetadata(n.Value, parentID)
	}
}

// FindNodeByPosition returns the innermost node's metadata containing pos.
func (mv *MetadataVisitor) FindNodeByPosition(pos Position) *Metadata {
	var best *Metadata
	for _, meta := range mv.tracker.metadata {
		if !meta.Source.Contains(pos) {
			continue
		}
		if best == nil || meta.Source.End.Offset-meta.Source.Start.Offset < best.Source.End.Offset-best.Source.Start.Offset {
			best = meta
		}
	}
	return best
}

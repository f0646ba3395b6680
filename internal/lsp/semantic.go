package lsp

import "dicelang/internal/ast"

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into the SemanticTokenTypes array
// TokenModifiers is a bitmask based on SemanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int // index into SemanticTokenTypes
	TokenModifiers int // bitmask
}

// collectSemanticTokens walks a parsed program collecting one token per
// identifier reference, function call name, and number literal.
func collectSemanticTokens(program *ast.Program) []SemanticToken {
	var tokens []SemanticToken

	if program == nil {
		return tokens
	}

	for _, stmt := range program.Stmts {
		tokens = append(tokens, walkStmt(stmt)...)
	}

	return tokens
}

func walkStmt(stmt ast.Stmt) []SemanticToken {
	switch s := stmt.(type) {
	case *ast.VarStmt:
		tokens := []SemanticToken{makeToken(s.Name.Pos, s.Name.EndPos, "variable", 1)}
		return append(tokens, walkExpr(s.Value)...)
	case *ast.ExprStmt:
		return walkExpr(s.Expr)
	default:
		return nil
	}
}

func walkExpr(expr ast.Expr) []SemanticToken {
	var tokens []SemanticToken

	switch e := expr.(type) {
	case *ast.Ident:
		tokens = append(tokens, makeToken(e.Pos, e.EndPos, "variable", 0))
	case *ast.NumberLit:
		tokens = append(tokens, makeToken(e.Pos, e.EndPos, "number", 0))
	case *ast.BinaryExpr:
		tokens = append(tokens, walkExpr(e.Left)...)
		tokens = append(tokens, walkExpr(e.Right)...)
	case *ast.UnaryExpr:
		tokens = append(tokens, walkExpr(e.Value)...)
	case *ast.RollExpr:
		tokens = append(tokens, walkExpr(e.Count)...)
		tokens = append(tokens, walkExpr(e.Faces)...)
	case *ast.InExpr:
		tokens = append(tokens, walkExpr(e.Value)...)
		tokens = append(tokens, walkExpr(e.Low)...)
		tokens = append(tokens, walkExpr(e.High)...)
	case *ast.ParenExpr:
		tokens = append(tokens, walkExpr(e.Value)...)
	case *ast.CallExpr:
		tokens = append(tokens, makeToken(e.Callee.Pos, e.Callee.EndPos, "function", 0))
		for _, arg := range e.Args {
			tokens = append(tokens, walkExpr(arg)...)
		}
	}

	return tokens
}

func makeToken(pos, endPos ast.Position, tokenType string, decl int) SemanticToken {
	length := endPos.Column - pos.Column
	if length <= 0 {
		length = 1
	}

	return SemanticToken{
		Line:           uint32(pos.Line - 1),
		StartChar:      uint32(pos.Column - 1),
		Length:         uint32(length),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: decl << indexOf("declaration", SemanticTokenModifiers),
	}
}

// indexOf returns the index of a string in a list, or -1 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return -1
}

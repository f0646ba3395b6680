package ast

import "fmt"

// VarStmt binds a name to the value of an expression, entering the
// driver's "in definition" state while Value is evaluated so that repeated
// references to other variables inside it are decomposed consistently.
// Example: "var X = 1d6;".
type VarStmt struct {
	Pos      Position
	EndPos   Position
	Name     Ident
	Value    Expr
	metadata *Metadata
}

func (v *VarStmt) String() string { return fmt.Sprintf("var %s = %s;", v.Name.Name, v.Value.String()) }

// ExprStmt is a bare expression evaluated for its result.
// Example: "2d6;".
type ExprStmt struct {
	Pos      Position
	EndPos   Position
	Expr     Expr
	metadata *Metadata
}

func (e *ExprStmt) String() string { return e.Expr.String() + ";" }

// BadStmt stands in for a statement the parser could not make sense of,
// produced after panic-mode recovery re-synchronizes at the next ';'.
type BadStmt struct {
	Bad BadNode
}

func (b *BadStmt) String() string { return "<bad stmt: " + b.Bad.Message + ">" }

// Program is the root node: a semicolon-separated list of statements.
type Program struct {
	Pos      Position
	EndPos   Position
	Stmts    []Stmt
	metadata *Metadata
}

func (p *Program) String() string {
	s := ""
	for _, stmt := range p.Stmts {
		s += stmt.String() + "\n"
	}
	return s
}

package ast

import "fmt"

// BadNode records a parse failure so a later node can still be produced
// (and the parser can keep going after resynchronizing).
type BadNode struct {
	Pos      Position
	EndPos   Position
	Message  string
	metadata *Metadata
}

// Ident is a variable or function name reference.
// Example: "X" in "X + 1".
type Ident struct {
	Pos      Position
	EndPos   Position
	Name     string
	metadata *Metadata
}

func (i *Ident) String() string { return i.Name }

// NumberLit is an integer or real literal.
// Example: "6" in "1d6", "3.5".
type NumberLit struct {
	Pos      Position
	EndPos   Position
	Value    string
	metadata *Metadata
}

func (n *NumberLit) String() string { return n.Value }

// BinaryExpr covers arithmetic ("+", "-", "*", "/") and relational
// ("<", "<=", ">", ">=", "==", "!=") operators; dice rolls are RollExpr.
// Example: "X + 1", "X == 5".
type BinaryExpr struct {
	Pos      Position
	EndPos   Position
	Op       string
	Left     Expr
	Right    Expr
	metadata *Metadata
}

func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op, b.Right.String())
}

// RollExpr is kept distinct from BinaryExpr so the parser and driver can
// give "d"/"D" its own highest-precedence slot without it being confused
// for an arithmetic operator by callers pattern-matching on Op.
// Example: "4d6", "2D20".
type RollExpr struct {
	Pos      Position
	EndPos   Position
	Count    Expr
	Faces    Expr
	metadata *Metadata
}

func (r *RollExpr) String() string {
	return fmt.Sprintf("(%s d %s)", r.Count.String(), r.Faces.String())
}

// UnaryExpr is unary negation.
// Example: "-X".
type UnaryExpr struct {
	Pos      Position
	EndPos   Position
	Op       string
	Value    Expr
	metadata *Metadata
}

func (u *UnaryExpr) String() string { return fmt.Sprintf("(%s%s)", u.Op, u.Value.String()) }

// InExpr tests membership in an inclusive integer range.
// Example: "1d6 in [2, 5]".
type InExpr struct {
	Pos      Position
	EndPos   Position
	Value    Expr
	Low      Expr
	High     Expr
	metadata *Metadata
}

func (in *InExpr) String() string {
	return fmt.Sprintf("(%s in [%s, %s])", in.Value.String(), in.Low.String(), in.High.String())
}

// CallExpr invokes a built-in function by name.
// Example: "expectation(1d6)", "roll(2, 6)".
type CallExpr struct {
	Pos      Position
	EndPos   Position
	Callee   Ident
	Args     []Expr
	metadata *Metadata
}

func (c *CallExpr) String() string {
	s := c.Callee.Name + "("
	for i, a := range c.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

// ParenExpr preserves an explicit parenthesization for accurate position
// reporting; it has no effect on evaluation beyond grouping.
type ParenExpr struct {
	Pos      Position
	EndPos   Position
	Value    Expr
	metadata *Metadata
}

func (p *ParenExpr) String() string { return "(" + p.Value.String() + ")" }

// BadExpr stands in for an expression the parser could not make sense of.
type BadExpr struct {
	Bad BadNode
}

func (b *BadExpr) String() string { return "<bad expr: " + b.Bad.Message + ">" }

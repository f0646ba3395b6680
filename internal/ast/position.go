// Package ast defines the syntax tree produced by internal/parser for the
// dice expression language: statements, expressions, and the small amount
// of debugging metadata the REPL and language server attach to nodes.
package ast

import "fmt"

// Position tracks location information for error reporting and tooling.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

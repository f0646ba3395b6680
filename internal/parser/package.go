package parser

import "dicelang/internal/ast"

// ParseSource scans and parses a full source, returning the resulting
// Program along with every syntax and lexical error it recovered from.
func ParseSource(filename string, source string) (*ast.Program, []ParseError, []ScanError) {
	scanner := NewScanner(source)
	tokens := stripComments(scanner.ScanTokens())

	p := NewParser(filename, tokens)
	program := p.ParseProgram()

	if program != nil {
		mv := ast.NewMetadataVisitor(source)
		for _, stmt := range program.Stmts {
			mv.AssignMetadata(stmt, 0)
		}
	}

	return program, p.errors, scanner.errors
}

// stripComments drops COMMENT and BLOCK_COMMENT tokens before parsing, since
// the grammar has no place for them between statements or inside expressions.
func stripComments(tokens []Token) []Token {
	out := tokens[:0:0]
	for _, tok := range tokens {
		if tok.Type == COMMENT || tok.Type == BLOCK_COMMENT {
			continue
		}
		out = append(out, tok)
	}
	return out
}

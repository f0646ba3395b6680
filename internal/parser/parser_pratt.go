package parser

import "dicelang/internal/ast"

// parseExpr parses a relational expression: an additive expression,
// optionally followed by a single (non-associative) comparison or an "in"
// range test. Relational operators do not chain: "a < b < c" parses as
// "(a < b)" followed by a dangling "< c", matching the reference grammar.
func (p *Parser) parseExpr() ast.Expr {
	left := p.parseAdd()

	if p.match(IN) {
		return p.parseInExpr(left)
	}

	if op, ok := p.relOpToken(); ok {
		p.advance()
		right := p.parseAdd()
		return &ast.BinaryExpr{
			Pos:    left.NodePos(),
			EndPos: right.NodeEndPos(),
			Op:     op,
			Left:   left,
			Right:  right,
		}
	}

	return left
}

func (p *Parser) relOpToken() (string, bool) {
	switch p.peek().Type {
	case LESS:
		return "<", true
	case LESS_EQUAL:
		return "<=", true
	case GREATER:
		return ">", true
	case GREATER_EQUAL:
		return ">=", true
	case EQUAL_EQUAL:
		return "==", true
	case BANG_EQUAL:
		return "!=", true
	default:
		return "", false
	}
}

func (p *Parser) parseInExpr(value ast.Expr) ast.Expr {
	p.consume(LEFT_BRACKET, "expected '[' after 'in'")
	low := p.parseAdd()
	p.consume(COMMA, "expected ',' between the bounds of 'in'")
	high := p.parseAdd()
	end := p.consume(RIGHT_BRACKET, "expected ']' to close 'in' range")

	return &ast.InExpr{
		Pos:    value.NodePos(),
		EndPos: p.makeEndPos(end),
		Value:  value,
		Low:    low,
		High:   high,
	}
}

// parseAdd parses left-associative '+'/'-'.
func (p *Parser) parseAdd() ast.Expr {
	result := p.parseMult()
	for p.match(PLUS, MINUS) {
		op := p.previous()
		right := p.parseMult()
		result = &ast.BinaryExpr{
			Pos:    result.NodePos(),
			EndPos: right.NodeEndPos(),
			Op:     op.Lexeme,
			Left:   result,
			Right:  right,
		}
	}
	return result
}

// parseMult parses left-associative '*'/'/'.
func (p *Parser) parseMult() ast.Expr {
	result := p.parseDiceRoll()
	for p.match(STAR, SLASH) {
		op := p.previous()
		right := p.parseDiceRoll()
		result = &ast.BinaryExpr{
			Pos:    result.NodePos(),
			EndPos: right.NodeEndPos(),
			Op:     op.Lexeme,
			Left:   result,
			Right:  right,
		}
	}
	return result
}

// parseDiceRoll parses a chain of "d"/"D" rolls, with any leading unary
// minuses collected and applied once to the whole chain afterward. This
// mirrors the reference grammar: "-1d6" is "unary-(1d6)", not "(-1)d6",
// since the roll operator binds its operands tighter than negation.
func (p *Parser) parseDiceRoll() ast.Expr {
	negations := 0
	var start Token
	hasStart := false
	for p.match(MINUS) {
		if !hasStart {
			start = p.previous()
			hasStart = true
		}
		negations++
	}

	result := p.parseFactor()
	for p.match(DICE) {
		faces := p.parseFactor()
		result = &ast.RollExpr{
			Pos:    result.NodePos(),
			EndPos: faces.NodeEndPos(),
			Count:  result,
			Faces:  faces,
		}
	}

	if negations%2 != 0 {
		pos := result.NodePos()
		if hasStart {
			pos = p.makePos(start)
		}
		result = &ast.UnaryExpr{
			Pos:    pos,
			EndPos: result.NodeEndPos(),
			Op:     "-",
			Value:  result,
		}
	}

	return result
}

func (p *Parser) parseFactor() ast.Expr {
	if p.match(LEFT_PAREN) {
		l := p.previous()
		inner := p.parseExpr()
		r := p.consume(RIGHT_PAREN, "expected ')' after expression")
		return &ast.ParenExpr{
			Pos:    p.makePos(l),
			EndPos: p.makeEndPos(r),
			Value:  inner,
		}
	}

	if p.match(NUMBER) {
		tok := p.previous()
		return &ast.NumberLit{
			Pos:    p.makePos(tok),
			EndPos: p.makeEndPos(tok),
			Value:  tok.Lexeme,
		}
	}

	if p.match(IDENTIFIER) {
		tok := p.previous()
		if p.check(LEFT_PAREN) {
			p.advance()
			args := p.parseExprList()
			end := p.consume(RIGHT_PAREN, "expected ')' after arguments")
			return &ast.CallExpr{
				Pos:    p.makePos(tok),
				EndPos: p.makeEndPos(end),
				Callee: p.makeIdent(tok),
				Args:   args,
			}
		}
		ident := p.makeIdent(tok)
		return &ident
	}

	return p.badFactor()
}

func (p *Parser) badFactor() ast.Expr {
	tok := p.peek()
	p.errorAtCurrent("expected a number, identifier, function call or '(' in expression, got " + tok.Lexeme)
	bad := &ast.BadExpr{
		Bad: ast.BadNode{
			Pos:     p.makePos(tok),
			EndPos:  p.makeEndPos(tok),
			Message: "unexpected token in expression",
		},
	}
	if tok.Type != EOF {
		p.advance()
	}
	return bad
}

func (p *Parser) parseExprList() []ast.Expr {
	var args []ast.Expr
	if p.check(RIGHT_PAREN) {
		return args
	}

	for {
		args = append(args, p.parseExpr())
		if !p.match(COMMA) {
			break
		}
	}

	return args
}

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dicelang/internal/ast"
)

func parseOK(t *testing.T, source string) *ast.Program {
	t.Helper()
	program, parseErrs, scanErrs := ParseSource("test.dice", source)
	require.Empty(t, scanErrs)
	require.Empty(t, parseErrs)
	require.NotNil(t, program)
	return program
}

func TestScanTokensSkipsWhitespaceAndComments(t *testing.T) {
	s := NewScanner("1 + 2 // trailing comment\n")
	tokens := s.ScanTokens()
	var types []TokenType
	for _, tok := range tokens {
		if tok.Type == COMMENT {
			continue
		}
		types = append(types, tok.Type)
	}
	assert.Equal(t, []TokenType{NUMBER, PLUS, NUMBER, EOF}, types)
}

func TestParseSourceSkipsComments(t *testing.T) {
	program := parseOK(t, "1 + 2; // trailing comment\n/* block */ 3 + 4;")
	require.Len(t, program.Stmts, 2)
	_, ok := program.Stmts[1].(*ast.ExprStmt)
	assert.True(t, ok)
}

func TestScanDiceOperatorIsCaseInsensitive(t *testing.T) {
	for _, src := range []string{"1d6", "1D6"} {
		s := NewScanner(src)
		tokens := s.ScanTokens()
		require.Len(t, tokens, 4) // NUMBER, DICE, NUMBER, EOF
		assert.Equal(t, NUMBER, tokens[0].Type)
		assert.Equal(t, DICE, tokens[1].Type)
		assert.Equal(t, NUMBER, tokens[2].Type)
	}
}

func TestScanIdentifierStartingWithDIsNotDiceOperator(t *testing.T) {
	s := NewScanner("drop")
	tokens := s.ScanTokens()
	require.Len(t, tokens, 2)
	assert.Equal(t, IDENTIFIER, tokens[0].Type)
	assert.Equal(t, "drop", tokens[0].Lexeme)
}

func TestScanRealNumberLiteral(t *testing.T) {
	s := NewScanner("3.5")
	tokens := s.ScanTokens()
	require.Len(t, tokens, 2)
	assert.Equal(t, NUMBER, tokens[0].Type)
	assert.Equal(t, "3.5", tokens[0].Lexeme)
}

func TestParseSimpleExprStmt(t *testing.T) {
	program := parseOK(t, "2 + 3;")
	require.Len(t, program.Stmts, 1)
	exprStmt, ok := program.Stmts[0].(*ast.ExprStmt)
	require.True(t, ok)
	binExpr, ok := exprStmt.Expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", binExpr.Op)
}

func TestParseVarStmt(t *testing.T) {
	program := parseOK(t, "var X = 1d6;")
	require.Len(t, program.Stmts, 1)
	varStmt, ok := program.Stmts[0].(*ast.VarStmt)
	require.True(t, ok)
	assert.Equal(t, "X", varStmt.Name.Name)
	roll, ok := varStmt.Value.(*ast.RollExpr)
	require.True(t, ok)
	assert.Equal(t, "1", roll.Count.(*ast.NumberLit).Value)
	assert.Equal(t, "6", roll.Faces.(*ast.NumberLit).Value)
}

func TestParseMultipleStatements(t *testing.T) {
	program := parseOK(t, "var X = 1d6; X + 1;")
	require.Len(t, program.Stmts, 2)
}

func TestRelationalBindsLooserThanAdditive(t *testing.T) {
	// "1 + 2 == 3" should parse as "(1 + 2) == 3", not "1 + (2 == 3)".
	program := parseOK(t, "1 + 2 == 3;")
	exprStmt := program.Stmts[0].(*ast.ExprStmt)
	top, ok := exprStmt.Expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "==", top.Op)
	left, ok := top.Left.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", left.Op)
}

func TestMultiplicationBindsTighterThanAdditive(t *testing.T) {
	program := parseOK(t, "1 + 2 * 3;")
	top := program.Stmts[0].(*ast.ExprStmt).Expr.(*ast.BinaryExpr)
	assert.Equal(t, "+", top.Op)
	right, ok := top.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "*", right.Op)
}

func TestDiceRollBindsTighterThanMultiplication(t *testing.T) {
	program := parseOK(t, "2 * 1d6;")
	top := program.Stmts[0].(*ast.ExprStmt).Expr.(*ast.BinaryExpr)
	assert.Equal(t, "*", top.Op)
	_, ok := top.Right.(*ast.RollExpr)
	assert.True(t, ok)
}

func TestUnaryMinusWrapsWholeDiceRollChain(t *testing.T) {
	// "-1d6" parses as "unary-(1d6)", not "(-1)d6".
	program := parseOK(t, "-1d6;")
	top := program.Stmts[0].(*ast.ExprStmt).Expr.(*ast.UnaryExpr)
	assert.Equal(t, "-", top.Op)
	_, ok := top.Value.(*ast.RollExpr)
	assert.True(t, ok)
}

func TestDoubleNegationCancelsOut(t *testing.T) {
	program := parseOK(t, "--5;")
	top := program.Stmts[0].(*ast.ExprStmt).Expr
	_, ok := top.(*ast.UnaryExpr)
	assert.False(t, ok, "an even number of leading minuses should not wrap in a UnaryExpr")
	_, ok = top.(*ast.NumberLit)
	assert.True(t, ok)
}

func TestParseInExpr(t *testing.T) {
	program := parseOK(t, "1d6 in [2, 5];")
	top := program.Stmts[0].(*ast.ExprStmt).Expr.(*ast.InExpr)
	assert.Equal(t, "2", top.Low.(*ast.NumberLit).Value)
	assert.Equal(t, "5", top.High.(*ast.NumberLit).Value)
}

func TestParseFunctionCall(t *testing.T) {
	program := parseOK(t, "expectation(1d6);")
	call := program.Stmts[0].(*ast.ExprStmt).Expr.(*ast.CallExpr)
	assert.Equal(t, "expectation", call.Callee.Name)
	require.Len(t, call.Args, 1)
}

func TestParseFunctionCallMultipleArgs(t *testing.T) {
	program := parseOK(t, "roll(2, 6);")
	call := program.Stmts[0].(*ast.ExprStmt).Expr.(*ast.CallExpr)
	require.Len(t, call.Args, 2)
}

func TestParseParenthesizedExpr(t *testing.T) {
	program := parseOK(t, "(1 + 2) * 3;")
	top := program.Stmts[0].(*ast.ExprStmt).Expr.(*ast.BinaryExpr)
	assert.Equal(t, "*", top.Op)
	_, ok := top.Left.(*ast.ParenExpr)
	assert.True(t, ok)
}

func TestParseDependentConditionalExpression(t *testing.T) {
	program := parseOK(t, "var X = 1d6; (X == 5) * 4 + (1 - (X == 5)) * 2;")
	require.Len(t, program.Stmts, 2)
}

func TestTrailingSemicolonIsOptional(t *testing.T) {
	for _, src := range []string{"1d6", "2d6", "4d4", "expectation(1d6)", "1d6 in [2, 5]"} {
		program := parseOK(t, src)
		require.Len(t, program.Stmts, 1)
		_, ok := program.Stmts[0].(*ast.ExprStmt)
		assert.True(t, ok, "source %q", src)
	}
}

func TestLastStatementWithoutTrailingSemicolon(t *testing.T) {
	program := parseOK(t, "var X = 1d6; (X == 5) * 4 + (1 - (X == 5)) * 2")
	require.Len(t, program.Stmts, 2)
	_, ok := program.Stmts[1].(*ast.ExprStmt)
	assert.True(t, ok)
}

func TestParseErrorRecoversAtNextStatement(t *testing.T) {
	program, parseErrs, _ := ParseSource("test.dice", "var = 1; 2 + 3;")
	require.NotEmpty(t, parseErrs)
	require.Len(t, program.Stmts, 2)
	_, ok := program.Stmts[0].(*ast.BadStmt)
	assert.True(t, ok)
	exprStmt, ok := program.Stmts[1].(*ast.ExprStmt)
	require.True(t, ok)
	assert.Equal(t, "+", exprStmt.Expr.(*ast.BinaryExpr).Op)
}

func TestEmptyProgramParsesToNoStatements(t *testing.T) {
	program := parseOK(t, "")
	assert.Empty(t, program.Stmts)
}

func TestMetadataIsAssignedToEveryNode(t *testing.T) {
	program := parseOK(t, "1 + 2;")
	exprStmt := program.Stmts[0].(*ast.ExprStmt)
	assert.NotNil(t, exprStmt.GetMetadata())
	assert.NotNil(t, exprStmt.Expr.GetMetadata())
}

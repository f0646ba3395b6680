package errors

import (
	"fmt"
	"strings"

	"dicelang/internal/ast"
)

// SemanticErrorBuilder provides a fluent interface for creating semantic errors with suggestions
type SemanticErrorBuilder struct {
	err CompilerError
}

// NewSemanticError creates a new semantic error builder
func NewSemanticError(code, message string, pos ast.Position) *SemanticErrorBuilder {
	return &SemanticErrorBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// WithLength sets the length of the error span
func (b *SemanticErrorBuilder) WithLength(length int) *SemanticErrorBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *SemanticErrorBuilder) WithSuggestion(message string) *SemanticErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithNote adds a note to the error
func (b *SemanticErrorBuilder) WithNote(note string) *SemanticErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *SemanticErrorBuilder) WithHelp(help string) *SemanticErrorBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed compiler error
func (b *SemanticErrorBuilder) Build() CompilerError {
	return b.err
}

// UnknownVariable creates an error for a name with no binding in the
// current environment, with suggestions drawn from names already defined.
func UnknownVariable(name string, pos ast.Position, knownNames []string) CompilerError {
	builder := NewSemanticError(ErrorUnknownVariable, fmt.Sprintf("unknown variable '%s'", name), pos).
		WithLength(len(name))

	if similar := findSimilarNames(name, knownNames); len(similar) > 0 {
		builder = builder.WithSuggestion(didYouMean(similar))
	} else {
		builder = builder.WithSuggestion("make sure the variable is assigned with 'var' before use")
	}

	return builder.Build()
}

// UnknownFunction creates an error for a call to a name the environment
// has no overloads registered for.
func UnknownFunction(name string, pos ast.Position, knownNames []string) CompilerError {
	builder := NewSemanticError(ErrorUnknownFunction, fmt.Sprintf("unknown function '%s'", name), pos).
		WithLength(len(name))

	if similar := findSimilarNames(name, knownNames); len(similar) > 0 {
		builder = builder.WithSuggestion(didYouMean(similar))
	}

	return builder.WithHelp("built-in functions are roll, min, max, expectation, variance").Build()
}

// Redefinition creates an error for assigning to a name that is already
// bound, outside of interactive mode.
func Redefinition(name string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorRedefinition, fmt.Sprintf("'%s' is already defined", name), pos).
		WithLength(len(name)).
		WithNote("variables can only be redefined in interactive mode").
		Build()
}

// NoMatchingOverload creates an error for a call where every candidate
// overload has an infinite conversion cost for the given arguments.
func NoMatchingOverload(name string, argTypes []string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorNoMatchingOverload,
		fmt.Sprintf("no overload of '%s' accepts (%s)", name, strings.Join(argTypes, ", ")), pos).
		WithLength(len(name)).
		Build()
}

// ArgumentTypeMismatch creates an error for a single argument that cannot
// be converted to any candidate overload's parameter type.
func ArgumentTypeMismatch(name string, index int, got string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorArgumentTypeMismatch,
		fmt.Sprintf("argument %d to '%s' has type %s, which converts to none of its overloads", index+1, name, got), pos).
		Build()
}

// ArithmeticOverflow creates an error for a checked arithmetic operation
// that overflowed the underlying integer type.
func ArithmeticOverflow(op string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorArithmeticOverflow, fmt.Sprintf("'%s' overflowed", op), pos).
		WithNote("checked arithmetic rejects results outside the representable range").
		Build()
}

// ArithmeticUnderflow creates an error for a checked arithmetic operation
// that underflowed the underlying integer type.
func ArithmeticUnderflow(op string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorArithmeticUnderflow, fmt.Sprintf("'%s' underflowed", op), pos).
		WithNote("checked arithmetic rejects results outside the representable range").
		Build()
}

// DivideByZero creates an error for division by a zero divisor.
func DivideByZero(pos ast.Position) CompilerError {
	return NewSemanticError(ErrorDivideByZero, "division by zero", pos).Build()
}

// InvalidDiceParameters creates an error for a roll whose dice count or
// face count is not a positive integer.
func InvalidDiceParameters(pos ast.Position) CompilerError {
	return NewSemanticError(ErrorInvalidDiceParameters, "dice count and face count must both be positive", pos).
		WithSuggestion("use a literal or expression that evaluates to a positive integer").
		Build()
}

// DependentRollOperands creates an error for a roll_op call whose operands
// share a dependency, which would make the convolution statistically wrong.
func DependentRollOperands(pos ast.Position) CompilerError {
	return NewSemanticError(ErrorDependentRollOperands, "roll operands must be statistically independent", pos).
		WithNote("both sides of a dice roll derive from the same variable here").
		WithHelp("roll a fresh variable instead of reusing one already in scope").
		Build()
}

// ImpossibleConversion creates an error for a conversion attempt between
// two value types with no entry in the conversion table.
func ImpossibleConversion(from, to string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorImpossibleConversion, fmt.Sprintf("cannot convert %s to %s", from, to), pos).
		Build()
}

func didYouMean(names []string) string {
	if len(names) == 1 {
		return fmt.Sprintf("did you mean '%s'?", names[0])
	}
	return fmt.Sprintf("did you mean one of: '%s'?", strings.Join(names, "', '"))
}

// findSimilarNames returns candidates within Levenshtein distance 2 of target.
func findSimilarNames(target string, candidates []string) []string {
	var similar []string

	for _, candidate := range candidates {
		if levenshteinDistance(target, candidate) <= 2 && len(candidate) > 2 {
			similar = append(similar, candidate)
		}
	}

	return similar
}

// levenshteinDistance is a simple edit-distance implementation used to
// suggest corrections for misspelled variable and function names.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
	}

	for i := 0; i <= len(a); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			matrix[i][j] = min3(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}

	return matrix[len(a)][len(b)]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

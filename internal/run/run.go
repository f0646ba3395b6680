// Package run wires the scanner, parser, interpreter driver, formatter and
// error reporter together into the single pipeline both the CLI and the
// REPL drive: parse a chunk of source, evaluate every statement, print
// each result, and report every error encountered along the way.
package run

import (
	"fmt"
	"io"

	"dicelang/internal/ast"
	"dicelang/internal/errors"
	"dicelang/internal/format"
	"dicelang/internal/interp"
	"dicelang/internal/parser"
)

// Source parses and evaluates source against driver, writing formatted
// values to out and formatted diagnostics to errOut. It reports whether
// every statement evaluated without error, for the caller's exit code.
func Source(driver *interp.Driver, filename, source string, out, errOut io.Writer) bool {
	program, parseErrs, scanErrs := parser.ParseSource(filename, source)

	reporter := errors.NewErrorReporter(filename, source)
	ok := true

	for _, scanErr := range scanErrs {
		ok = false
		fmt.Fprint(errOut, reporter.FormatError(errors.CompilerError{
			Level:    errors.Error,
			Message:  scanErr.Message,
			Position: toASTPosition(filename, scanErr.Position),
			Length:   scanErr.Length,
		}))
	}

	for _, parseErr := range parseErrs {
		ok = false
		fmt.Fprint(errOut, reporter.FormatError(errors.CompilerError{
			Level:    errors.Error,
			Message:  parseErr.Message,
			Position: toASTPosition(filename, parseErr.Position),
			Length:   1,
		}))
	}

	if program == nil {
		return ok
	}

	results := driver.Evaluate(program)
	for i, result := range results {
		if result.Err != nil {
			ok = false
			pos := program.Stmts[i].NodePos()
			fmt.Fprint(errOut, reporter.FormatError(errors.CompilerError{
				Level:    errors.Error,
				Message:  result.Err.Error(),
				Position: pos,
				Length:   1,
			}))
			continue
		}
		if result.Missing {
			continue
		}
		fmt.Fprintln(out, format.Value(result.Value))
	}

	return ok
}

func toASTPosition(filename string, pos parser.Position) ast.Position {
	return ast.Position{Filename: filename, Offset: pos.Offset, Line: pos.Line, Column: pos.Column}
}

// Package interp implements the dicelang interpreter driver: a tree of
// build callbacks invoked in post-order over a parsed program, tracking a
// Normal/InDefinition state so it can apply the promotion rule that keeps
// dependent uses of a bound variable statistically correlated.
//
// Grounded in original_source/src/direct_interpreter.hpp's
// direct_interpreter, decomposition_visitor and dependencies_visitor.
package interp

import (
	"fmt"
	"strconv"
	"strings"

	"dicelang/internal/ast"
	"dicelang/internal/builtins"
	"dicelang/internal/checked"
	"dicelang/internal/decomposition"
	"dicelang/internal/value"
)

// State is the driver's assignment-tracking state.
type State int

const (
	// Normal is the state outside of any var statement's right hand side.
	Normal State = iota
	// InDefinition is entered while evaluating the right hand side of a
	// var statement, and is what gates the promotion rule.
	InDefinition
)

// Driver evaluates a parsed program against an Environment, expression by
// expression, applying dicelang's dependency-promotion rules as it goes.
type Driver struct {
	env   *builtins.Environment
	ids   *decomposition.IDSource
	state State
}

// NewDriver returns a driver in the Normal state over env, using ids to
// mint fresh dependency identities when promoting random variables.
func NewDriver(env *builtins.Environment, ids *decomposition.IDSource) *Driver {
	return &Driver{env: env, ids: ids, state: Normal}
}

// State returns the driver's current state.
func (d *Driver) State() State { return d.state }

// EnableInteractiveMode allows variable redefinition, as the REPL does.
func (d *Driver) EnableInteractiveMode() { d.env.EnableInteractiveMode() }

// SetVar programmatically binds a variable, applying the same promotion on
// write as an in-language assignment would.
func (d *Driver) SetVar(name string, v value.Value) error {
	return d.env.Set(name, v, d.ids)
}

// GetVar programmatically reads a variable.
func (d *Driver) GetVar(name string) (value.Value, error) {
	return d.env.Get(name)
}

// Result is the outcome of evaluating one top-level statement: either a
// value (possibly absent, for a var statement which produces nothing), or
// an error that aborted just that statement.
type Result struct {
	Value   value.Value
	Missing bool
	Err     error
}

// Evaluate runs every statement in the program in order. A statement that
// fails contributes a Result with Err set and evaluation continues with
// the next statement, matching the left-to-right, no-short-circuit
// ordering model.
func (d *Driver) Evaluate(program *ast.Program) []Result {
	results := make([]Result, 0, len(program.Stmts))
	for _, stmt := range program.Stmts {
		v, missing, err := d.evalStmt(stmt)
		results = append(results, Result{Value: v, Missing: missing, Err: err})
	}
	return results
}

func (d *Driver) evalStmt(stmt ast.Stmt) (value.Value, bool, error) {
	switch s := stmt.(type) {
	case *ast.VarStmt:
		d.state = InDefinition
		v, err := d.evalExpr(s.Value)
		d.state = Normal
		if err != nil {
			return nil, true, err
		}
		if err := d.env.Set(s.Name.Name, v, d.ids); err != nil {
			return nil, true, err
		}
		return nil, true, nil
	case *ast.ExprStmt:
		v, err := d.evalExpr(s.Expr)
		if err != nil {
			return nil, true, err
		}
		return v, false, nil
	case *ast.BadStmt:
		return d.defaultValue(), false, nil
	default:
		return nil, true, fmt.Errorf("unhandled statement type %T", stmt)
	}
}

// defaultValue is substituted for a node the parser could not fully parse,
// matching the recovered-to-zero behavior of a panic-mode parser error.
func (d *Driver) defaultValue() value.Value { return value.NewInt(0) }

func (d *Driver) evalExpr(expr ast.Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLit:
		return parseNumber(e.Value)
	case *ast.Ident:
		v, err := d.env.Get(e.Name)
		if err != nil {
			return nil, err
		}
		return v, nil
	case *ast.ParenExpr:
		return d.evalExpr(e.Value)
	case *ast.UnaryExpr:
		return d.unaryMinus(e)
	case *ast.BinaryExpr:
		return d.binary(e)
	case *ast.RollExpr:
		return d.roll(e)
	case *ast.InExpr:
		return d.relIn(e)
	case *ast.CallExpr:
		return d.call(e)
	case *ast.BadExpr:
		return d.defaultValue(), nil
	default:
		return nil, fmt.Errorf("unhandled expression type %T", expr)
	}
}

func parseNumber(literal string) (value.Value, error) {
	if strings.ContainsAny(literal, ".eE") {
		f, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number literal %q: %w", literal, err)
		}
		return value.NewReal(f), nil
	}
	i, err := strconv.Atoi(literal)
	if err != nil {
		return nil, fmt.Errorf("invalid number literal %q: %w", literal, err)
	}
	return value.NewInt(checked.Int(i)), nil
}

func (d *Driver) unaryMinus(e *ast.UnaryExpr) (value.Value, error) {
	v, err := d.evalExpr(e.Value)
	if err != nil {
		return nil, err
	}
	return d.env.Call("unary-", []value.Value{v})
}

func (d *Driver) binary(e *ast.BinaryExpr) (value.Value, error) {
	left, err := d.evalExpr(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := d.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}

	left, right = d.prepareOperands(left, right)
	return d.env.Call(e.Op, []value.Value{left, right})
}

func (d *Driver) roll(e *ast.RollExpr) (value.Value, error) {
	left, err := d.evalExpr(e.Count)
	if err != nil {
		return nil, err
	}
	right, err := d.evalExpr(e.Faces)
	if err != nil {
		return nil, err
	}

	left, right = d.prepareOperands(left, right)
	return d.env.Call("roll_op", []value.Value{left, right})
}

func (d *Driver) relIn(e *ast.InExpr) (value.Value, error) {
	v, err := d.evalExpr(e.Value)
	if err != nil {
		return nil, err
	}
	lo, err := d.evalExpr(e.Low)
	if err != nil {
		return nil, err
	}
	hi, err := d.evalExpr(e.High)
	if err != nil {
		return nil, err
	}
	// rel_in never calls prepare_operands in the reference interpreter:
	// the interval bounds are plain numbers, not dependency-bearing
	// operands, so there is nothing to promote.
	return d.env.Call("in", []value.Value{v, lo, hi})
}

func (d *Driver) call(e *ast.CallExpr) (value.Value, error) {
	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := d.evalExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if d.state == InDefinition && anyHasDependencies(args) {
		for i, a := range args {
			args[i] = d.promote(a)
		}
	}

	return d.env.Call(e.Callee.Name, args)
}

// prepareOperands implements the reference interpreter's prepare_operands:
// outside a var statement's right hand side it is a no-op, and inside one
// it promotes both operands (regardless of which one triggered it) the
// moment either already carries a dependency.
func (d *Driver) prepareOperands(left, right value.Value) (value.Value, value.Value) {
	if d.state != InDefinition {
		return left, right
	}
	if !hasDependencies(left) && !hasDependencies(right) {
		return left, right
	}
	return d.promote(left), d.promote(right)
}

func hasDependencies(v value.Value) bool {
	rv, ok := v.(*value.RandVarValue)
	return ok && rv.Value.HasDependencies()
}

func anyHasDependencies(args []value.Value) bool {
	for _, a := range args {
		if hasDependencies(a) {
			return true
		}
	}
	return false
}

// promote decomposes v if it is a random variable; every other value kind
// passes through unchanged, matching decomposition_visitor's no-op visits
// for int and double.
func (d *Driver) promote(v value.Value) value.Value {
	rv, ok := v.(*value.RandVarValue)
	if !ok {
		return v
	}
	return value.NewRandVar(rv.Value.Promote(d.ids))
}

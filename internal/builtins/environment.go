// Package builtins implements dicelang's built-in environment: the
// variable table and the registered overload set for every operator and
// function the language exposes, grounded in
// original_source/src/environment.cpp's add_function calls.
package builtins

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"dicelang/internal/checked"
	"dicelang/internal/decomposition"
	"dicelang/internal/dispatch"
	"dicelang/internal/value"
)

// ErrUnknownVariable is returned by Get when the name has never been set.
var ErrUnknownVariable = errors.New("unknown variable")

// ErrRedefinition is returned by Set when redefinition is disabled and the
// name is already bound.
var ErrRedefinition = errors.New("variable already defined")

// Environment is dicelang's name -> value table plus its registered
// function overloads. One Environment is created per evaluated program (or
// per open document, in the language server); it is not safe for
// concurrent use, matching the single-threaded evaluation model.
type Environment struct {
	registry          *dispatch.Registry
	vars              map[string]value.Value
	rng               *rand.Rand
	allowRedefinition bool
}

// New returns an Environment with every built-in operator and function
// registered and no variables bound.
func New() *Environment {
	env := &Environment{
		registry: dispatch.NewRegistry(dispatch.NewConversionTable()),
		vars:     make(map[string]value.Value),
		rng:      rand.New(rand.NewPCG(1, 2)),
	}
	env.registerBuiltins()
	return env
}

// EnableInteractiveMode allows variables to be redefined, matching the
// REPL's relaxed policy versus a one-shot script evaluation.
func (e *Environment) EnableInteractiveMode() { e.allowRedefinition = true }

// SetRand overrides the random source used by the roll() sampling
// function; tests and deterministic replays use this to pin a seed.
func (e *Environment) SetRand(r *rand.Rand) { e.rng = r }

// Set binds name to value, promoting it first if it is a random variable
// (see decomposition.Promote) so that later reads of name reuse the same
// dependency handles instead of resampling independently each time.
func (e *Environment) Set(name string, v value.Value, ids *decomposition.IDSource) error {
	if !e.allowRedefinition {
		if _, exists := e.vars[name]; exists {
			return fmt.Errorf("%w: %s", ErrRedefinition, name)
		}
	}

	if rv, ok := v.(*value.RandVarValue); ok {
		v = value.NewRandVar(rv.Value.Promote(ids))
	}
	e.vars[name] = v
	return nil
}

// Get returns a clone of the value bound to name, or ErrUnknownVariable.
func (e *Environment) Get(name string) (value.Value, error) {
	v, ok := e.vars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariable, name)
	}
	return v.Clone(), nil
}

// Call resolves and invokes a registered function or operator by name.
func (e *Environment) Call(name string, args []value.Value) (value.Value, error) {
	return e.registry.Call(name, args)
}

func (e *Environment) registerBuiltins() {
	e.registerArithmetic("+", func(a, b checked.Int) (checked.Int, error) { return a.Add(b) },
		func(a, b float64) float64 { return a + b },
		decomposition.Decomposition.Add)
	e.registerArithmetic("-", func(a, b checked.Int) (checked.Int, error) { return a.Sub(b) },
		func(a, b float64) float64 { return a - b },
		decomposition.Decomposition.Sub)
	e.registerArithmetic("*", func(a, b checked.Int) (checked.Int, error) { return a.Mul(b) },
		func(a, b float64) float64 { return a * b },
		decomposition.Decomposition.Mul)
	e.registerArithmetic("/", func(a, b checked.Int) (checked.Int, error) { return a.Div(b) },
		func(a, b float64) float64 { return a / b },
		decomposition.Decomposition.Div)

	e.registry.Register("unary-", dispatch.Signature{
		ArgTypes: []value.TypeID{value.TypeInt},
		Impl: func(args []value.Value) (value.Value, error) {
			v, err := args[0].(*value.IntValue).Value.Neg()
			if err != nil {
				return nil, err
			}
			return value.NewInt(v), nil
		},
	})
	e.registry.Register("unary-", dispatch.Signature{
		ArgTypes: []value.TypeID{value.TypeReal},
		Impl: func(args []value.Value) (value.Value, error) {
			return value.NewReal(-args[0].(*value.RealValue).Value), nil
		},
	})
	e.registry.Register("unary-", dispatch.Signature{
		ArgTypes: []value.TypeID{value.TypeRandVar},
		Impl: func(args []value.Value) (value.Value, error) {
			return value.NewRandVar(args[0].(*value.RandVarValue).Value.Neg()), nil
		},
	})

	e.registerComparison("<", decomposition.Decomposition.LessThan)
	e.registerComparison("<=", decomposition.Decomposition.LessThanOrEqual)
	e.registerComparison("==", decomposition.Decomposition.Equal)
	e.registerComparison("!=", decomposition.Decomposition.NotEqual)
	e.registerComparison(">", decomposition.Decomposition.GreaterThan)
	e.registerComparison(">=", decomposition.Decomposition.GreaterThanOrEqual)

	e.registry.Register("roll_op", dispatch.Signature{
		ArgTypes: []value.TypeID{value.TypeRandVar, value.TypeRandVar},
		Impl: func(args []value.Value) (value.Value, error) {
			a := args[0].(*value.RandVarValue).Value
			b := args[1].(*value.RandVarValue).Value
			result, err := a.Roll(b)
			if err != nil {
				return nil, err
			}
			return value.NewRandVar(result), nil
		},
	})

	e.registry.Register("in", dispatch.Signature{
		ArgTypes: []value.TypeID{value.TypeRandVar, value.TypeInt, value.TypeInt},
		Impl: func(args []value.Value) (value.Value, error) {
			v := args[0].(*value.RandVarValue).Value
			lower := args[1].(*value.IntValue).Value
			upper := args[2].(*value.IntValue).Value
			return value.NewRandVar(v.In(lower, upper)), nil
		},
	})

	e.registry.Register("expectation", dispatch.Signature{
		ArgTypes: []value.TypeID{value.TypeRandVar},
		Impl: func(args []value.Value) (value.Value, error) {
			return value.NewReal(args[0].(*value.RandVarValue).Value.Expectation()), nil
		},
	})
	e.registry.Register("variance", dispatch.Signature{
		ArgTypes: []value.TypeID{value.TypeRandVar},
		Impl: func(args []value.Value) (value.Value, error) {
			return value.NewReal(args[0].(*value.RandVarValue).Value.Variance()), nil
		},
	})

	e.registry.Register("roll", dispatch.Signature{
		ArgTypes: []value.TypeID{value.TypeRandVar},
		Impl: func(args []value.Value) (value.Value, error) {
			rv := args[0].(*value.RandVarValue).Value.ToRandVar()
			sample := rv.RandomValue(e.rng.Float64())
			return value.NewInt(sample), nil
		},
	})

	e.registerMinMax("min",
		func(a, b checked.Int) checked.Int {
			if a < b {
				return a
			}
			return b
		},
		func(a, b float64) float64 {
			if a < b {
				return a
			}
			return b
		},
		decomposition.Min)
	e.registerMinMax("max",
		func(a, b checked.Int) checked.Int {
			if a > b {
				return a
			}
			return b
		},
		func(a, b float64) float64 {
			if a > b {
				return a
			}
			return b
		},
		decomposition.Max)
}

func (e *Environment) registerArithmetic(
	name string,
	intOp func(a, b checked.Int) (checked.Int, error),
	realOp func(a, b float64) float64,
	rvOp func(a, b decomposition.Decomposition) decomposition.Decomposition,
) {
	e.registry.Register(name, dispatch.Signature{
		ArgTypes: []value.TypeID{value.TypeInt, value.TypeInt},
		Impl: func(args []value.Value) (value.Value, error) {
			v, err := intOp(args[0].(*value.IntValue).Value, args[1].(*value.IntValue).Value)
			if err != nil {
				return nil, err
			}
			return value.NewInt(v), nil
		},
	})
	e.registry.Register(name, dispatch.Signature{
		ArgTypes: []value.TypeID{value.TypeReal, value.TypeReal},
		Impl: func(args []value.Value) (value.Value, error) {
			return value.NewReal(realOp(args[0].(*value.RealValue).Value, args[1].(*value.RealValue).Value)), nil
		},
	})
	e.registry.Register(name, dispatch.Signature{
		ArgTypes: []value.TypeID{value.TypeRandVar, value.TypeRandVar},
		Impl: func(args []value.Value) (value.Value, error) {
			a := args[0].(*value.RandVarValue).Value
			b := args[1].(*value.RandVarValue).Value
			return value.NewRandVar(rvOp(a, b)), nil
		},
	})
}

func (e *Environment) registerComparison(name string, op func(a, b decomposition.Decomposition) decomposition.Decomposition) {
	e.registry.Register(name, dispatch.Signature{
		ArgTypes: []value.TypeID{value.TypeRandVar, value.TypeRandVar},
		Impl: func(args []value.Value) (value.Value, error) {
			a := args[0].(*value.RandVarValue).Value
			b := args[1].(*value.RandVarValue).Value
			return value.NewRandVar(op(a, b)), nil
		},
	})
}

func (e *Environment) registerMinMax(
	name string,
	intOp func(a, b checked.Int) checked.Int,
	realOp func(a, b float64) float64,
	rvOp func(a, b decomposition.Decomposition) decomposition.Decomposition,
) {
	e.registry.Register(name, dispatch.Signature{
		ArgTypes: []value.TypeID{value.TypeInt, value.TypeInt},
		Impl: func(args []value.Value) (value.Value, error) {
			return value.NewInt(intOp(args[0].(*value.IntValue).Value, args[1].(*value.IntValue).Value)), nil
		},
	})
	e.registry.Register(name, dispatch.Signature{
		ArgTypes: []value.TypeID{value.TypeReal, value.TypeReal},
		Impl: func(args []value.Value) (value.Value, error) {
			return value.NewReal(realOp(args[0].(*value.RealValue).Value, args[1].(*value.RealValue).Value)), nil
		},
	})
	e.registry.Register(name, dispatch.Signature{
		ArgTypes: []value.TypeID{value.TypeRandVar, value.TypeRandVar},
		Impl: func(args []value.Value) (value.Value, error) {
			a := args[0].(*value.RandVarValue).Value
			b := args[1].(*value.RandVarValue).Value
			return value.NewRandVar(rvOp(a, b)), nil
		},
	})
}

// Package dispatch implements the cost-based type conversion table and
// overload resolution used to call dicelang's built-in operators and
// functions, mirroring original_source/src/conversions.hpp and the
// call_var overload search in original_source/src/environment.cpp.
package dispatch

import (
	"errors"
	"fmt"

	"dicelang/internal/decomposition"
	"dicelang/internal/value"
)

// CostInfinite marks a conversion (or an overload candidate) as not viable.
const CostInfinite = 1 << 30

// Converter turns a value of one type into a value of another.
type Converter func(value.Value) (value.Value, error)

// ErrImpossibleConversion is returned when no registered conversion path
// exists between two types.
var ErrImpossibleConversion = errors.New("impossible conversion")

type edge struct{ from, to value.TypeID }

// ConversionTable is a mapping from (from, to) type pairs to a cost and a
// converter function. Same-type conversion is always cost 0 and the
// identity, regardless of registration.
type ConversionTable struct {
	costs      map[edge]int
	converters map[edge]Converter
}

// NewConversionTable returns the table registered for dicelang: Int can
// widen to Real or to a constant RandVar, each at cost 1. Every other
// cross-type pair is unsupported.
func NewConversionTable() *ConversionTable {
	t := &ConversionTable{
		costs:      make(map[edge]int),
		converters: make(map[edge]Converter),
	}

	t.Register(value.TypeInt, value.TypeReal, 1, func(v value.Value) (value.Value, error) {
		return value.NewReal(float64(v.(*value.IntValue).Value)), nil
	})
	t.Register(value.TypeInt, value.TypeRandVar, 1, func(v value.Value) (value.Value, error) {
		return value.NewRandVar(decomposition.Constant(v.(*value.IntValue).Value)), nil
	})

	return t
}

// Register adds (or replaces) a conversion edge.
func (t *ConversionTable) Register(from, to value.TypeID, cost int, conv Converter) {
	e := edge{from, to}
	t.costs[e] = cost
	t.converters[e] = conv
}

// Cost returns the cost of converting from one type to another, or
// CostInfinite if no such conversion is registered. Same-type is always 0.
func (t *ConversionTable) Cost(from, to value.TypeID) int {
	if from == to {
		return 0
	}
	if c, ok := t.costs[edge{from, to}]; ok {
		return c
	}
	return CostInfinite
}

// Convert converts v to the given type, or fails with
// ErrImpossibleConversion.
func (t *ConversionTable) Convert(v value.Value, to value.TypeID) (value.Value, error) {
	if v.Type() == to {
		return v, nil
	}
	conv, ok := t.converters[edge{v.Type(), to}]
	if !ok {
		return nil, fmt.Errorf("%w: %s to %s", ErrImpossibleConversion, v.Type(), to)
	}
	return conv(v)
}

// Function is a built-in implementation, called with arguments already
// converted to the signature's declared types.
type Function func(args []value.Value) (value.Value, error)

// Signature is one overload of a registered function name.
type Signature struct {
	ArgTypes []value.TypeID
	Impl     Function
}

var (
	// ErrUnknownFunction is returned when no signature is registered under
	// the called name at all.
	ErrUnknownFunction = errors.New("unknown function")
	// ErrNoMatchingOverload is returned when signatures exist under the
	// name but none accept the given argument types (arity mismatch, or
	// every viable candidate requires an unsupported conversion).
	ErrNoMatchingOverload = errors.New("no matching overload")
)

// Registry is a name -> overload-list table plus the conversion table used
// to score and convert call arguments.
type Registry struct {
	table     *ConversionTable
	functions map[string][]Signature
}

// NewRegistry returns an empty registry using the given conversion table.
func NewRegistry(table *ConversionTable) *Registry {
	return &Registry{table: table, functions: make(map[string][]Signature)}
}

// Register adds one overload of name. Overloads are tried in registration
// order when costs tie.
func (r *Registry) Register(name string, sig Signature) {
	r.functions[name] = append(r.functions[name], sig)
}

// Call resolves the minimum-cost overload of name whose arity matches args,
// converts the arguments to that overload's declared types, and invokes it.
func (r *Registry) Call(name string, args []value.Value) (value.Value, error) {
	sigs, ok := r.functions[name]
	if !ok || len(sigs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}

	var best *Signature
	bestCost := CostInfinite
	for i := range sigs {
		sig := &sigs[i]
		if len(sig.ArgTypes) != len(args) {
			continue
		}

		cost := 0
		viable := true
		for j, argType := range sig.ArgTypes {
			c := r.table.Cost(args[j].Type(), argType)
			if c >= CostInfinite {
				viable = false
				break
			}
			cost += c
		}
		if !viable {
			continue
		}
		if cost < bestCost {
			bestCost = cost
			best = sig
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoMatchingOverload, name)
	}

	converted := make([]value.Value, len(args))
	for j, argType := range best.ArgTypes {
		v, err := r.table.Convert(args[j], argType)
		if err != nil {
			return nil, err
		}
		converted[j] = v
	}
	return best.Impl(converted)
}

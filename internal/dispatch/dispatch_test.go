package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dicelang/internal/value"
)

func TestConversionTableCosts(t *testing.T) {
	table := NewConversionTable()
	assert.Equal(t, 0, table.Cost(value.TypeInt, value.TypeInt))
	assert.Equal(t, 1, table.Cost(value.TypeInt, value.TypeReal))
	assert.Equal(t, 1, table.Cost(value.TypeInt, value.TypeRandVar))
	assert.Equal(t, CostInfinite, table.Cost(value.TypeReal, value.TypeInt))
	assert.Equal(t, CostInfinite, table.Cost(value.TypeReal, value.TypeRandVar))
}

func TestConvertIntToReal(t *testing.T) {
	table := NewConversionTable()
	v, err := table.Convert(value.NewInt(5), value.TypeReal)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v.(*value.RealValue).Value)
}

func TestConvertImpossible(t *testing.T) {
	table := NewConversionTable()
	_, err := table.Convert(value.NewReal(5), value.TypeInt)
	assert.ErrorIs(t, err, ErrImpossibleConversion)
}

func addIntImpl(args []value.Value) (value.Value, error) {
	a := args[0].(*value.IntValue).Value
	b := args[1].(*value.IntValue).Value
	v, err := a.Add(b)
	if err != nil {
		return nil, err
	}
	return value.NewInt(v), nil
}

func addRealImpl(args []value.Value) (value.Value, error) {
	a := args[0].(*value.RealValue).Value
	b := args[1].(*value.RealValue).Value
	return value.NewReal(a + b), nil
}

func newPlusRegistry() *Registry {
	r := NewRegistry(NewConversionTable())
	r.Register("+", Signature{ArgTypes: []value.TypeID{value.TypeInt, value.TypeInt}, Impl: addIntImpl})
	r.Register("+", Signature{ArgTypes: []value.TypeID{value.TypeReal, value.TypeReal}, Impl: addRealImpl})
	return r
}

func TestCallExactMatch(t *testing.T) {
	r := newPlusRegistry()
	result, err := r.Call("+", []value.Value{value.NewInt(2), value.NewInt(3)})
	require.NoError(t, err)
	assert.Equal(t, "5", result.String())
}

func TestCallPrefersLowerConversionCost(t *testing.T) {
	r := newPlusRegistry()
	// Int + Real: int/int candidate needs to convert the real arg, which
	// is impossible; real/real candidate needs to convert the int arg,
	// cost 1. Only the latter is viable.
	result, err := r.Call("+", []value.Value{value.NewInt(2), value.NewReal(3.5)})
	require.NoError(t, err)
	assert.Equal(t, value.TypeReal, result.Type())
	assert.Equal(t, 5.5, result.(*value.RealValue).Value)
}

func TestCallUnknownFunction(t *testing.T) {
	r := newPlusRegistry()
	_, err := r.Call("nope", []value.Value{value.NewInt(1)})
	assert.ErrorIs(t, err, ErrUnknownFunction)
}

func TestCallNoMatchingOverloadOnArity(t *testing.T) {
	r := newPlusRegistry()
	_, err := r.Call("+", []value.Value{value.NewInt(1)})
	assert.ErrorIs(t, err, ErrNoMatchingOverload)
}

func TestCallTieBreaksOnRegistrationOrder(t *testing.T) {
	r := NewRegistry(NewConversionTable())
	first := func(args []value.Value) (value.Value, error) { return value.NewInt(1), nil }
	second := func(args []value.Value) (value.Value, error) { return value.NewInt(2), nil }
	r.Register("f", Signature{ArgTypes: []value.TypeID{value.TypeInt}, Impl: first})
	r.Register("f", Signature{ArgTypes: []value.TypeID{value.TypeInt}, Impl: second})

	result, err := r.Call("f", []value.Value{value.NewInt(0)})
	require.NoError(t, err)
	assert.Equal(t, "1", result.String())
}

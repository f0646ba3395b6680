package checked

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	sum, err := Int(2).Add(3)
	require.NoError(t, err)
	assert.Equal(t, Int(5), sum)

	_, err = maxInt.Add(1)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = minInt.Add(-1)
	assert.ErrorIs(t, err, ErrUnderflow)
}

func TestSub(t *testing.T) {
	diff, err := Int(5).Sub(3)
	require.NoError(t, err)
	assert.Equal(t, Int(2), diff)

	_, err = minInt.Sub(1)
	assert.ErrorIs(t, err, ErrUnderflow)

	_, err = maxInt.Sub(-1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestMul(t *testing.T) {
	prod, err := Int(6).Mul(7)
	require.NoError(t, err)
	assert.Equal(t, Int(42), prod)

	_, err = minInt.Mul(-1)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = maxInt.Mul(2)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = minInt.Mul(2)
	assert.ErrorIs(t, err, ErrUnderflow)
}

func TestDiv(t *testing.T) {
	q, err := Int(7).Div(2)
	require.NoError(t, err)
	assert.Equal(t, Int(3), q)

	_, err = Int(1).Div(0)
	assert.ErrorIs(t, err, ErrDivideByZero)

	_, err = minInt.Div(-1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestNeg(t *testing.T) {
	v, err := Int(5).Neg()
	require.NoError(t, err)
	assert.Equal(t, Int(-5), v)

	_, err = minInt.Neg()
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestBounds(t *testing.T) {
	assert.Equal(t, Int(math.MaxInt), maxInt)
	assert.Equal(t, Int(math.MinInt), minInt)
}

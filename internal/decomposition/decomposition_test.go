package decomposition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dicelang/internal/checked"
	"dicelang/internal/randvar"
)

func die(faces int) randvar.RandVar {
	freqs := make([]randvar.Frequency, faces)
	for i := 1; i <= faces; i++ {
		freqs[i-1] = randvar.Frequency{Value: checked.Int(i), Weight: 1}
	}
	return randvar.FromFrequencies(freqs)
}

func TestIndependentCombinationMatchesPlainRandVar(t *testing.T) {
	a := FromRandVar(die(6))
	b := FromRandVar(die(6))

	sum := a.Add(b)
	rv := sum.ToRandVar()

	expected, err := randvar.Roll(randvar.Constant(2), randvar.Constant(6))
	require.NoError(t, err)
	assert.True(t, rv.Equals(expected))
}

func TestPromoteThenSelfSubtractIsZero(t *testing.T) {
	ids := NewIDSource()
	x := FromRandVar(die(6))

	promoted := x.Promote(ids)
	diff := promoted.Sub(promoted)

	rv := diff.ToRandVar()
	assert.Equal(t, 1, rv.Size())
	assert.InDelta(t, 1.0, rv.Probability(0), randvar.Tolerance)
}

func TestPromoteDependentCondtionalExpression(t *testing.T) {
	// var X = 1d6; (X==5)*4 + (1-(X==5))*2
	ids := NewIDSource()
	x := FromRandVar(die(6))
	promoted := x.Promote(ids)

	five := Constant(5)
	isFive := promoted.Equal(five)
	one := Constant(1)
	four := Constant(4)
	two := Constant(2)

	result := isFive.Mul(four).Add(one.Sub(isFive).Mul(two))
	rv := result.ToRandVar()

	assert.Equal(t, 2, rv.Size())
	assert.InDelta(t, 1.0/6.0, rv.Probability(4), randvar.Tolerance)
	assert.InDelta(t, 5.0/6.0, rv.Probability(2), randvar.Tolerance)
}

func TestNonPromotedDependentLookAlikeIsIndependent(t *testing.T) {
	// without Promote, two separate references to "1d6" are independent,
	// so X - X is NOT guaranteed to be 0.
	a := FromRandVar(die(6))
	b := FromRandVar(die(6))

	diff := a.Sub(b)
	rv := diff.ToRandVar()
	assert.Greater(t, rv.Size(), 1)
}

func TestRollRejectsDependentOperands(t *testing.T) {
	ids := NewIDSource()
	x := FromRandVar(die(6)).Promote(ids)

	_, err := x.Roll(x)
	assert.ErrorIs(t, err, ErrDependentOperands)
}

func TestRollAcceptsIndependentOperands(t *testing.T) {
	numDice := Constant(2)
	numFaces := Constant(6)

	result, err := numDice.Roll(numFaces)
	require.NoError(t, err)

	rv := result.ToRandVar()
	assert.Equal(t, 11, rv.Size())
}

func TestExpectationMatchesPlainRandVar(t *testing.T) {
	d := FromRandVar(die(6))
	assert.InDelta(t, 3.5, d.Expectation(), randvar.Tolerance)
}

func TestNegPreservesDependencyStructure(t *testing.T) {
	ids := NewIDSource()
	x := FromRandVar(die(6)).Promote(ids)

	sum := x.Add(x.Neg())
	rv := sum.ToRandVar()
	assert.Equal(t, 1, rv.Size())
	assert.InDelta(t, 1.0, rv.Probability(0), randvar.Tolerance)
}

func TestInPreservesDependencyStructure(t *testing.T) {
	ids := NewIDSource()
	x := FromRandVar(die(6)).Promote(ids)

	indicator := x.In(1, 3)
	same := indicator.Sub(indicator)
	rv := same.ToRandVar()
	assert.Equal(t, 1, rv.Size())
	assert.InDelta(t, 1.0, rv.Probability(0), randvar.Tolerance)
}

func TestHasDependencies(t *testing.T) {
	plain := Constant(5)
	assert.False(t, plain.HasDependencies())

	ids := NewIDSource()
	promoted := FromRandVar(die(6)).Promote(ids)
	assert.True(t, promoted.HasDependencies())
}

func TestQuantile(t *testing.T) {
	d := FromRandVar(die(6))
	q, err := d.Quantile(0.5)
	require.NoError(t, err)
	assert.Equal(t, checked.Int(3), q)
}

func TestMaxMinDependent(t *testing.T) {
	ids := NewIDSource()
	x := FromRandVar(die(6)).Promote(ids)

	mx := Max(x, x)
	mn := Min(x, x)

	// max(X,X) == X == min(X,X) when both operands are the same dependent X
	assert.True(t, mx.Equals(x))
	assert.True(t, mn.Equals(x))
}

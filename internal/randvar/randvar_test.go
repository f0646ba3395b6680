package randvar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dicelang/internal/checked"
)

func die(faces int) RandVar {
	freqs := make([]Frequency, faces)
	for i := 1; i <= faces; i++ {
		freqs[i-1] = Frequency{Value: checked.Int(i), Weight: 1}
	}
	return FromFrequencies(freqs)
}

func TestConstant(t *testing.T) {
	c := Constant(5)
	assert.True(t, c.IsConstant())
	assert.InDelta(t, 1.0, c.Probability(5), Tolerance)
	assert.InDelta(t, 5.0, c.Expectation(), Tolerance)
}

func TestBernoulliDegenerate(t *testing.T) {
	always := Bernoulli(1)
	assert.True(t, always.IsConstant())
	assert.InDelta(t, 1.0, always.Probability(1), Tolerance)

	never := Bernoulli(0)
	assert.True(t, never.IsConstant())
	assert.InDelta(t, 1.0, never.Probability(0), Tolerance)
}

func Test1d6(t *testing.T) {
	rv, err := Roll(Constant(1), Constant(6))
	require.NoError(t, err)
	assert.Equal(t, 6, rv.Size())
	for i := checked.Int(1); i <= 6; i++ {
		assert.InDelta(t, 1.0/6.0, rv.Probability(i), Tolerance)
	}
}

func Test2d6(t *testing.T) {
	rv, err := Roll(Constant(2), Constant(6))
	require.NoError(t, err)
	assert.Equal(t, 11, rv.Size())

	expected := map[checked.Int]float64{
		2: 1, 3: 2, 4: 3, 5: 4, 6: 5, 7: 6, 8: 5, 9: 4, 10: 3, 11: 2, 12: 1,
	}
	for v, count := range expected {
		assert.InDelta(t, count/36.0, rv.Probability(v), Tolerance, "value %d", v)
	}

	var sum float64
	rv.Iterate(func(_ checked.Int, p float64) { sum += p })
	assert.InDelta(t, 1.0, sum, Tolerance)
}

func Test4d4(t *testing.T) {
	rv, err := Roll(Constant(4), Constant(4))
	require.NoError(t, err)
	assert.Equal(t, 13, rv.Size())

	var sum float64
	rv.Iterate(func(_ checked.Int, p float64) { sum += p })
	assert.InDelta(t, 1.0, sum, Tolerance)

	min, max := rv.MinValue(), rv.MaxValue()
	assert.Equal(t, checked.Int(4), min)
	assert.Equal(t, checked.Int(16), max)
}

func TestRollNonPositiveFails(t *testing.T) {
	_, err := Roll(Constant(0), die(6))
	assert.ErrorIs(t, err, ErrNonPositive)

	_, err = Roll(Constant(1), Constant(-1))
	assert.ErrorIs(t, err, ErrNonPositive)
}

func TestExpectation1d6(t *testing.T) {
	rv, err := Roll(Constant(1), Constant(6))
	require.NoError(t, err)
	assert.InDelta(t, 3.5, rv.Expectation(), Tolerance)
}

func TestIn(t *testing.T) {
	rv, err := Roll(Constant(1), Constant(6))
	require.NoError(t, err)

	in := rv.In(2, 5)
	assert.InDelta(t, 4.0/6.0, in.Probability(1), Tolerance)
	assert.InDelta(t, 2.0/6.0, in.Probability(0), Tolerance)
}

func TestAAIsZero(t *testing.T) {
	rv, err := Roll(Constant(1), die(6))
	require.NoError(t, err)

	diff := rv.Sub(rv) // independent combination, NOT the dependent "A-A"
	// independent combination of A-A is not necessarily 0; verify it sums to 1
	var sum float64
	diff.Iterate(func(_ checked.Int, p float64) { sum += p })
	assert.InDelta(t, 1.0, sum, Tolerance)
}

func TestNegNegIsIdentityExceptAtMin(t *testing.T) {
	rv, err := Roll(Constant(1), die(6))
	require.NoError(t, err)

	assert.True(t, rv.Neg().Neg().Equals(rv))
}

func TestQuantile(t *testing.T) {
	rv, err := Roll(Constant(1), Constant(6))
	require.NoError(t, err)

	q, err := rv.Quantile(0.5)
	require.NoError(t, err)
	assert.Equal(t, checked.Int(3), q)
}

func TestQuantileUndefinedOnEmpty(t *testing.T) {
	var rv RandVar
	_, err := rv.Quantile(0.5)
	assert.Error(t, err)
}

func TestMaxMin(t *testing.T) {
	d6 := die(6)
	mx := Max(d6, d6)
	mn := Min(d6, d6)

	assert.InDelta(t, 1.0, sumProb(mx), Tolerance)
	assert.InDelta(t, 1.0, sumProb(mn), Tolerance)
}

func sumProb(rv RandVar) float64 {
	var sum float64
	rv.Iterate(func(_ checked.Int, p float64) { sum += p })
	return sum
}

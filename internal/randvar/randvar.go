// Package randvar implements discrete random variables over checked.Int:
// construction from constants, Bernoulli trials and frequency lists,
// moments, quantiles, the independent-combination algebra (+ - * / and the
// relational operators), and the XdY dice-roll convolution.
package randvar

import (
	"fmt"
	"math"
	"sort"

	"dicelang/internal/checked"
)

// RandVar is a discrete random variable: a map from value to probability.
// The zero value is the impossible event (empty support).
type RandVar struct {
	prob map[checked.Int]float64
	// order preserves first-insertion order of values, matching the
	// "don't assume iteration order is value order" design note: callers
	// that need value order must sort explicitly (see Iterate).
	order []checked.Int
}

// Tolerance is the default equality tolerance for probability comparisons,
// mirroring the reference implementation's floating point slack.
const Tolerance = 1e-9

func empty() RandVar {
	return RandVar{prob: make(map[checked.Int]float64)}
}

// Constant returns the random variable that always equals value.
func Constant(value checked.Int) RandVar {
	rv := empty()
	rv.addProbability(value, 1.0)
	return rv
}

// Bernoulli returns a {0,1}-valued random variable with P(1) = successProb.
// A success probability <= 0 or >= 1 collapses to the corresponding
// constant, rather than keeping a zero-probability branch in the support.
func Bernoulli(successProb float64) RandVar {
	successProb = math.Max(0, math.Min(1, successProb))
	rv := empty()
	if successProb > 0 {
		rv.addProbability(1, successProb)
	}
	if successProb < 1 {
		rv.addProbability(0, 1-successProb)
	}
	return rv
}

// Frequency is one (value, weight) entry for FromFrequencies.
type Frequency struct {
	Value  checked.Int
	Weight float64
}

// FromFrequencies builds a random variable from relative weights,
// normalizing them to sum to 1. Entries with weight 0 are dropped.
func FromFrequencies(freqs []Frequency) RandVar {
	var sum float64
	for _, f := range freqs {
		sum += f.Weight
	}

	rv := empty()
	for _, f := range freqs {
		if f.Weight == 0 {
			continue
		}
		rv.addProbability(f.Value, f.Weight/sum)
	}
	return rv
}

func (rv *RandVar) addProbability(value checked.Int, p float64) {
	if rv.prob == nil {
		rv.prob = make(map[checked.Int]float64)
	}
	if _, ok := rv.prob[value]; !ok {
		rv.order = append(rv.order, value)
	}
	rv.prob[value] += p
}

// IsConstant reports whether the variable's support has exactly one value.
func (rv RandVar) IsConstant() bool { return len(rv.prob) == 1 }

// Empty reports whether the variable is the impossible event.
func (rv RandVar) Empty() bool { return len(rv.prob) == 0 }

// Size returns the number of values with non-zero probability.
func (rv RandVar) Size() int { return len(rv.prob) }

// Probability returns P(X = value), or 0 if value is outside the support.
func (rv RandVar) Probability(value checked.Int) float64 { return rv.prob[value] }

// MaxValue returns the largest value in the support, or math.MinInt64-ish
// sentinel checked.Int(math.MinInt) if the variable is empty.
func (rv RandVar) MaxValue() checked.Int {
	value := checked.Int(math.MinInt)
	for v := range rv.prob {
		if v > value {
			value = v
		}
	}
	return value
}

// MinValue returns the smallest value in the support, or the
// checked.Int(math.MaxInt) sentinel if the variable is empty.
func (rv RandVar) MinValue() checked.Int {
	value := checked.Int(math.MaxInt)
	for v := range rv.prob {
		if v < value {
			value = v
		}
	}
	return value
}

// Expectation returns the expected value E[X].
func (rv RandVar) Expectation() float64 {
	var exp float64
	for v, p := range rv.prob {
		exp += float64(v) * p
	}
	return exp
}

// Variance returns Var[X] = E[X^2] - E[X]^2.
func (rv RandVar) Variance() float64 {
	var sumSq, sum float64
	for v, p := range rv.prob {
		fv := float64(v)
		sumSq += fv * fv * p
		sum += fv * p
	}
	return sumSq - sum*sum
}

// Deviation returns the standard deviation sqrt(Var[X]).
func (rv RandVar) Deviation() float64 { return math.Sqrt(rv.Variance()) }

// Quantile returns min{x : P(X <= x) >= prob}. It errors if the variable
// has no support.
func (rv RandVar) Quantile(prob float64) (checked.Int, error) {
	if rv.Empty() {
		return 0, fmt.Errorf("quantile is not defined for an impossible event")
	}

	values := make([]checked.Int, 0, len(rv.prob))
	for v := range rv.prob {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	result := values[0]
	var sum float64
	for _, v := range values {
		if sum >= prob {
			break
		}
		sum += rv.prob[v]
		result = v
	}
	return result, nil
}

// RandomValue returns the first value (in insertion order, not sorted) for
// which the cumulative probability reaches prob; it is the auxiliary
// single-shot sampler mentioned as a non-primary output of the language.
func (rv RandVar) RandomValue(prob float64) checked.Int {
	var sum float64
	var last checked.Int
	for _, v := range rv.order {
		last = v
		p := rv.prob[v]
		if sum+p >= prob {
			return v
		}
		sum += p
	}
	return last
}

// In returns the Bernoulli indicator of lower <= X <= upper.
func (rv RandVar) In(lower, upper checked.Int) RandVar {
	var successProb float64
	for v, p := range rv.prob {
		if lower <= v && v <= upper {
			successProb += p
		}
	}
	return Bernoulli(successProb)
}

// Combine builds the distribution of f(X, Y) assuming X (rv) and Y (other)
// are independent, by convolving over the cartesian product of supports.
func (rv RandVar) Combine(other RandVar, f func(a, b checked.Int) checked.Int) RandVar {
	dist := empty()
	for _, a := range rv.order {
		pa := rv.prob[a]
		for _, b := range other.order {
			pb := other.prob[b]
			dist.addProbability(f(a, b), pa*pb)
		}
	}
	return dist
}

func boolInt(b bool) checked.Int {
	if b {
		return 1
	}
	return 0
}

func (rv RandVar) Add(other RandVar) RandVar {
	return rv.Combine(other, func(a, b checked.Int) checked.Int { v, _ := a.Add(b); return v })
}
func (rv RandVar) Sub(other RandVar) RandVar {
	return rv.Combine(other, func(a, b checked.Int) checked.Int { v, _ := a.Sub(b); return v })
}
func (rv RandVar) Mul(other RandVar) RandVar {
	return rv.Combine(other, func(a, b checked.Int) checked.Int { v, _ := a.Mul(b); return v })
}
func (rv RandVar) Div(other RandVar) RandVar {
	return rv.Combine(other, func(a, b checked.Int) checked.Int { v, _ := a.Div(b); return v })
}

func (rv RandVar) LessThan(other RandVar) RandVar {
	return rv.Combine(other, func(a, b checked.Int) checked.Int { return boolInt(a < b) })
}
func (rv RandVar) LessThanOrEqual(other RandVar) RandVar {
	return rv.Combine(other, func(a, b checked.Int) checked.Int { return boolInt(a <= b) })
}
func (rv RandVar) Equal(other RandVar) RandVar {
	return rv.Combine(other, func(a, b checked.Int) checked.Int { return boolInt(a == b) })
}
func (rv RandVar) NotEqual(other RandVar) RandVar {
	return rv.Combine(other, func(a, b checked.Int) checked.Int { return boolInt(a != b) })
}
func (rv RandVar) GreaterThan(other RandVar) RandVar {
	return rv.Combine(other, func(a, b checked.Int) checked.Int { return boolInt(a > b) })
}
func (rv RandVar) GreaterThanOrEqual(other RandVar) RandVar {
	return rv.Combine(other, func(a, b checked.Int) checked.Int { return boolInt(a >= b) })
}

// Neg returns the distribution of -X.
func (rv RandVar) Neg() RandVar {
	result := empty()
	for _, v := range rv.order {
		neg, _ := v.Neg()
		result.addProbability(neg, rv.prob[v])
	}
	return result
}

// Restrict returns a new variable whose support is limited to values for
// which include returns true, renormalized so probabilities sum to 1.
func (rv RandVar) Restrict(include func(checked.Int) bool) RandVar {
	var sum float64
	for _, v := range rv.order {
		if include(v) {
			sum += rv.prob[v]
		}
	}

	result := empty()
	for _, v := range rv.order {
		if include(v) {
			result.addProbability(v, rv.prob[v]/sum)
		}
	}
	return result
}

// Max returns the distribution of max(X, Y) for independent X, Y.
func Max(a, b RandVar) RandVar {
	return a.Combine(b, func(x, y checked.Int) checked.Int {
		if x > y {
			return x
		}
		return y
	})
}

// Min returns the distribution of min(X, Y) for independent X, Y.
func Min(a, b RandVar) RandVar {
	return a.Combine(b, func(x, y checked.Int) checked.Int {
		if x < y {
			return x
		}
		return y
	})
}

// Equals reports whether rv and other have identical (value, probability)
// supports within floating point Tolerance.
func (rv RandVar) Equals(other RandVar) bool {
	if len(rv.prob) != len(other.prob) {
		return false
	}
	for v, p := range rv.prob {
		op, ok := other.prob[v]
		if !ok || math.Abs(p-op) > Tolerance {
			return false
		}
	}
	return true
}

// Iterate calls f for each (value, probability) pair in ascending value
// order, matching the order the output formatter and tests expect.
func (rv RandVar) Iterate(f func(value checked.Int, prob float64)) {
	for _, p := range rv.Pairs() {
		f(p.Value, p.Prob)
	}
}

// Pair is one (value, probability) entry of a RandVar's support.
type Pair struct {
	Value checked.Int
	Prob  float64
}

// Pairs returns the support in ascending value order. Decomposition relies
// on this order being stable and reproducible across calls for the same
// variable, since it indexes into it positionally when reconstructing
// conditional distributions.
func (rv RandVar) Pairs() []Pair {
	values := make([]checked.Int, 0, len(rv.prob))
	for v := range rv.prob {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	pairs := make([]Pair, len(values))
	for i, v := range values {
		pairs[i] = Pair{Value: v, Prob: rv.prob[v]}
	}
	return pairs
}

// Roll computes the distribution of XdY (X independent rolls of a Y-sided
// die) given distributions for the dice count and the face count, using a
// prefix-sum dynamic program run once per possible face count. Both inputs
// must have strictly positive support; ErrNonPositive is returned
// otherwise, per the language's "non-positive dice parameters fail"
// contract rather than silently producing an impossible event.
func Roll(numDice, numFaces RandVar) (RandVar, error) {
	if numDice.Empty() || numFaces.Empty() {
		return empty(), nil
	}

	for v := range numDice.prob {
		if v <= 0 {
			return RandVar{}, fmt.Errorf("%w: number of dice must be positive, got %d", ErrNonPositive, v)
		}
	}
	for v := range numFaces.prob {
		if v <= 0 {
			return RandVar{}, fmt.Errorf("%w: number of faces must be positive, got %d", ErrNonPositive, v)
		}
	}

	maxDice := int(numDice.MaxValue())
	dist := empty()

	for faces, facesProb := range numFaces.prob {
		facesCount := int(faces)
		baseProb := 1.0 / float64(facesCount)

		if rollsProb, ok := numDice.prob[1]; ok {
			prob := baseProb * facesProb * rollsProb
			for i := 1; i <= facesCount; i++ {
				dist.addProbability(checked.Int(i), prob)
			}
		}

		probability := make([]float64, facesCount*maxDice+1)
		for i := 1; i <= facesCount; i++ {
			probability[i] = baseProb
		}

		for diceCount := 2; diceCount <= maxDice; diceCount++ {
			for i := 2; i <= facesCount*diceCount; i++ {
				probability[i] = probability[i-1] + probability[i]
			}

			for i := facesCount * diceCount; i >= diceCount; i-- {
				j := i - facesCount
				if j < 1 {
					j = 1
				}
				probI := probability[i-1] - probability[j-1]
				probI *= baseProb
				probability[i] = probI

				if rollsProb, ok := numDice.prob[checked.Int(diceCount)]; ok {
					prob := probI * facesProb * rollsProb
					dist.addProbability(checked.Int(i), prob)
				}
			}

			for i := 1; i < diceCount; i++ {
				probability[i] = 0
			}
		}
	}

	return dist, nil
}

// ErrNonPositive is returned by Roll when a dice-count or face-count
// operand's support contains a non-positive value.
var ErrNonPositive = fmt.Errorf("dice roll parameters must be positive integers")

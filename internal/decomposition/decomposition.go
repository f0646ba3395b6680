// Package decomposition tracks statistical dependence between random
// variables produced by the same expression tree, so that reusing a bound
// variable (e.g. `var X = 1d6; (X==5)*4 + (1-(X==5))*2`) evaluates correctly
// instead of treating every occurrence of X as independent.
//
// A Decomposition represents a random variable as a tree: a sorted list of
// "dependency" random variables (deps) forms the inner nodes, and a list of
// conditional random variables (vars) forms the leaves, one per combination
// of dependency values. Applying the law of total probability this way
// keeps dependent occurrences of a variable correlated through combine,
// while still letting every individual operation work on plain, independent
// random_variable algebra underneath.
package decomposition

import (
	"errors"
	"math"

	"dicelang/internal/checked"
	"dicelang/internal/randvar"
)

// Dep is one dependency in a Decomposition's tree: a random variable tagged
// with the order in which it was introduced. Decompositions keep deps
// sorted ascending by id, which is what lets combine line up two trees'
// dependency lists with a simple merge instead of a full re-index.
type Dep struct {
	id       uint64
	variable randvar.RandVar
}

// IDSource hands out increasing dependency ids. One source should be shared
// by every decomposition produced during the evaluation of a single
// program, so that ids stay globally ordered within that program; it is not
// safe for concurrent use, matching the rest of this package.
type IDSource struct {
	next uint64
}

// NewIDSource returns an IDSource whose first id is 1; id 0 is reserved as
// a sentinel for "no dependency".
func NewIDSource() *IDSource {
	return &IDSource{next: 1}
}

// Next returns the next dependency id.
func (s *IDSource) Next() uint64 {
	id := s.next
	s.next++
	return id
}

// Decomposition is a (possibly trivial) tree-structured random variable.
// The zero value has no dependencies and no leaves; use the constructors
// below to build a meaningful value.
type Decomposition struct {
	deps []*Dep
	vars []randvar.RandVar
}

// FromRandVar wraps a plain random variable as a decomposition with no
// dependencies, i.e. a single leaf.
func FromRandVar(v randvar.RandVar) Decomposition {
	return Decomposition{vars: []randvar.RandVar{v}}
}

// Constant returns the decomposition of a random variable that always
// equals value.
func Constant(value checked.Int) Decomposition {
	return FromRandVar(randvar.Constant(value))
}

// Bernoulli returns the decomposition of a {0,1}-valued random variable
// with P(1) = successProb.
func Bernoulli(successProb float64) Decomposition {
	return FromRandVar(randvar.Bernoulli(successProb))
}

// FromFrequencies returns the decomposition of a random variable built from
// relative weights.
func FromFrequencies(freqs []randvar.Frequency) Decomposition {
	return FromRandVar(randvar.FromFrequencies(freqs))
}

// HasDependencies reports whether this decomposition depends on at least
// one other random variable, i.e. whether it is anything beyond a single
// independent leaf.
func (d Decomposition) HasDependencies() bool { return len(d.deps) > 0 }

// unionWithMembership merges two dependency lists (each sorted ascending
// by id, no duplicate ids within a list) and reports, for each entry of the
// merged list, whether it came from a, from b, or from both.
func unionWithMembership(a, b []*Dep) (merged []*Dep, inA, inB []bool) {
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i >= len(a):
			merged = append(merged, b[j])
			inA = append(inA, false)
			inB = append(inB, true)
			j++
		case j >= len(b):
			merged = append(merged, a[i])
			inA = append(inA, true)
			inB = append(inB, false)
			i++
		case a[i].id < b[j].id:
			merged = append(merged, a[i])
			inA = append(inA, true)
			inB = append(inB, false)
			i++
		case b[j].id < a[i].id:
			merged = append(merged, b[j])
			inA = append(inA, false)
			inB = append(inB, true)
			j++
		default:
			merged = append(merged, a[i])
			inA = append(inA, true)
			inB = append(inB, true)
			i++
			j++
		}
	}
	return merged, inA, inB
}

// combineErr computes f(A, B) over the union of A and B's dependency
// trees, reconstructing which conditional leaves of A and B correspond to
// each combination of the merged dependency list via mixed-radix indexing:
// deps[0] is the least significant digit of the leaf index, later deps are
// more significant. It stops at the first error f returns.
func (d Decomposition) combineErr(other Decomposition, f func(a, b randvar.RandVar) (randvar.RandVar, error)) (Decomposition, error) {
	deps, inA, inB := unionWithMembership(d.deps, other.deps)

	numValues := 1
	for _, dep := range deps {
		numValues *= dep.variable.Size()
	}

	result := Decomposition{deps: deps, vars: make([]randvar.RandVar, 0, numValues)}
	for i := 0; i < numValues; i++ {
		indexA, indexB := 0, 0
		sizeA, sizeB := 1, 1
		indexResult := i
		for j, dep := range deps {
			count := dep.variable.Size()
			if inA[j] {
				indexA += (indexResult % count) * sizeA
				sizeA *= count
			}
			if inB[j] {
				indexB += (indexResult % count) * sizeB
				sizeB *= count
			}
			indexResult /= count
		}

		v, err := f(d.vars[indexA], other.vars[indexB])
		if err != nil {
			return Decomposition{}, err
		}
		result.vars = append(result.vars, v)
	}
	return result, nil
}

func (d Decomposition) combine(other Decomposition, f func(a, b randvar.RandVar) randvar.RandVar) Decomposition {
	result, _ := d.combineErr(other, func(a, b randvar.RandVar) (randvar.RandVar, error) { return f(a, b), nil })
	return result
}

func (d Decomposition) Add(other Decomposition) Decomposition {
	return d.combine(other, randvar.RandVar.Add)
}
func (d Decomposition) Sub(other Decomposition) Decomposition {
	return d.combine(other, randvar.RandVar.Sub)
}
func (d Decomposition) Mul(other Decomposition) Decomposition {
	return d.combine(other, randvar.RandVar.Mul)
}
func (d Decomposition) Div(other Decomposition) Decomposition {
	return d.combine(other, randvar.RandVar.Div)
}
func (d Decomposition) LessThan(other Decomposition) Decomposition {
	return d.combine(other, randvar.RandVar.LessThan)
}
func (d Decomposition) LessThanOrEqual(other Decomposition) Decomposition {
	return d.combine(other, randvar.RandVar.LessThanOrEqual)
}
func (d Decomposition) Equal(other Decomposition) Decomposition {
	return d.combine(other, randvar.RandVar.Equal)
}
func (d Decomposition) NotEqual(other Decomposition) Decomposition {
	return d.combine(other, randvar.RandVar.NotEqual)
}
func (d Decomposition) GreaterThan(other Decomposition) Decomposition {
	return d.combine(other, randvar.RandVar.GreaterThan)
}
func (d Decomposition) GreaterThanOrEqual(other Decomposition) Decomposition {
	return d.combine(other, randvar.RandVar.GreaterThanOrEqual)
}

// ErrDependentOperands is returned by Roll when its operands share a
// dependency, since a die roll's parameters must be resolved independently
// of one another.
var ErrDependentOperands = errors.New("roll operands must be independent of each other")

// Roll computes the distribution of a d b (a rolls of a b-sided die). It
// rejects operands that share a dependency.
func (d Decomposition) Roll(other Decomposition) (Decomposition, error) {
	if d.sharesDependency(other) {
		return Decomposition{}, ErrDependentOperands
	}
	return d.combineErr(other, randvar.Roll)
}

func (d Decomposition) sharesDependency(other Decomposition) bool {
	seen := make(map[uint64]bool, len(d.deps))
	for _, dep := range d.deps {
		seen[dep.id] = true
	}
	for _, dep := range other.deps {
		if seen[dep.id] {
			return true
		}
	}
	return false
}

// Neg returns the decomposition of -X. Unlike the binary operators, this
// needs no dependency merge: it just negates every leaf in place.
func (d Decomposition) Neg() Decomposition {
	result := Decomposition{deps: d.deps, vars: make([]randvar.RandVar, len(d.vars))}
	for i, v := range d.vars {
		result.vars[i] = v.Neg()
	}
	return result
}

// In returns the indicator of lower <= X <= upper, leaf by leaf.
func (d Decomposition) In(lower, upper checked.Int) Decomposition {
	result := Decomposition{deps: d.deps, vars: make([]randvar.RandVar, len(d.vars))}
	for i, v := range d.vars {
		result.vars[i] = v.In(lower, upper)
	}
	return result
}

// Max returns the decomposition of max(A, B); A and B need not be
// independent.
func Max(a, b Decomposition) Decomposition { return a.combine(b, randvar.Max) }

// Min returns the decomposition of min(A, B); A and B need not be
// independent.
func Min(a, b Decomposition) Decomposition { return a.combine(b, randvar.Min) }

// Iterate calls f for every (value, probability) pair implied by this
// decomposition's tree. The same value may be reported more than once,
// once per leaf whose conditional distribution contains it; probabilities
// sum to 1 across the whole call.
func (d Decomposition) Iterate(f func(value checked.Int, prob float64)) {
	if len(d.vars) == 0 {
		return
	}

	depPairs := make([][]randvar.Pair, len(d.deps))
	for i, dep := range d.deps {
		depPairs[i] = dep.variable.Pairs()
	}

	for leafIndex, leaf := range d.vars {
		indexResult := leafIndex
		prob := 1.0
		for j, dep := range d.deps {
			count := dep.variable.Size()
			digit := indexResult % count
			indexResult /= count
			prob *= depPairs[j][digit].Prob
		}

		for _, p := range leaf.Pairs() {
			f(p.Value, prob*p.Prob)
		}
	}
}

// ToRandVar materializes this decomposition into a plain random variable.
// This loses the dependency structure; it is how a decomposition's final
// result is reported to the user or fed into a context (such as dice roll
// parameters) that only understands independent random variables.
func (d Decomposition) ToRandVar() randvar.RandVar {
	var freqs []randvar.Frequency
	d.Iterate(func(v checked.Int, p float64) {
		freqs = append(freqs, randvar.Frequency{Value: v, Weight: p})
	})
	return randvar.FromFrequencies(freqs)
}

// Expectation returns E[X].
func (d Decomposition) Expectation() float64 {
	var exp float64
	d.Iterate(func(v checked.Int, p float64) { exp += float64(v) * p })
	return exp
}

// Variance returns Var[X] = E[X^2] - E[X]^2.
func (d Decomposition) Variance() float64 {
	var sumSq, sum float64
	d.Iterate(func(v checked.Int, p float64) {
		fv := float64(v)
		sumSq += fv * fv * p
		sum += fv * p
	})
	return sumSq - sum*sum
}

// Deviation returns the standard deviation sqrt(Var[X]).
func (d Decomposition) Deviation() float64 { return math.Sqrt(d.Variance()) }

// Quantile returns min{x : P(X <= x) >= prob}, materializing the
// decomposition first; this loses dependency information the same way
// ToRandVar does, which is fine since a quantile is already a property of
// the marginal distribution.
func (d Decomposition) Quantile(prob float64) (checked.Int, error) {
	return d.ToRandVar().Quantile(prob)
}

// Promote decomposes every non-constant leaf of d into its own dependency,
// replacing d's leaves with constants conditioned on those new
// dependencies. This is how the interpreter driver "promotes" a random
// variable when it is bound by a var statement: later references to the
// same variable reuse these dependencies instead of re-sampling
// independently, which is what keeps `var X = 1d6; X - X` correctly
// collapsing to 0 instead of behaving like two independent d6 rolls.
//
// All leaves are promoted simultaneously (not just one at a time), which
// matches the reference behavior of decomposing the entire current tree in
// one step rather than leaving some leaves dependent on others in a way
// that would make the new dependency set inconsistent.
func (d Decomposition) Promote(ids *IDSource) Decomposition {
	if len(d.vars) == 0 {
		return d
	}

	result := Decomposition{deps: append([]*Dep{}, d.deps...)}

	pairs := make([][]randvar.Pair, len(d.vars))
	for i, v := range d.vars {
		if !v.IsConstant() && !v.Empty() {
			result.deps = append(result.deps, &Dep{id: ids.Next(), variable: v})
		}
		pairs[i] = v.Pairs()
	}

	oldLeafCount := len(d.vars)
	numValues := 1
	for _, dep := range result.deps {
		numValues *= dep.variable.Size()
	}
	newComboCount := numValues / oldLeafCount

	index := make([]int, oldLeafCount)
	result.vars = make([]randvar.RandVar, 0, numValues)
	for i := 0; i < newComboCount; i++ {
		for j := 0; j < oldLeafCount; j++ {
			result.vars = append(result.vars, randvar.Constant(pairs[j][index[j]].Value))
		}

		for j := 0; j < oldLeafCount; j++ {
			index[j]++
			if index[j] < len(pairs[j]) {
				break
			}
			index[j] = 0
		}
	}
	return result
}

// Equals reports whether d and other describe the same marginal
// distribution. This is exact and materializes both sides; it exists
// mainly so decompositions can be compared in tests and as values inside
// dice expressions, not as a hot path.
func (d Decomposition) Equals(other Decomposition) bool {
	return d.ToRandVar().Equals(other.ToRandVar())
}

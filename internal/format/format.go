// Package format renders dicelang values for the REPL and CLI output,
// grounded in original_source/src/main.cpp's formatting_visitor and
// format_probability.
package format

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"dicelang/internal/value"
)

// Probability renders a probability as a percentage, matching
// format_probability: anything below 0.01% (but not exactly zero) is
// reported as "< 0.01 %" rather than printed as a misleadingly precise
// "0.000012 %".
func Probability(p float64) string {
	if p < 0.0001 && p != 0 {
		return "< 0.01 %"
	}
	return fmt.Sprintf("%f %%", p*100)
}

// Value renders a Value for display: integers and reals print as plain
// numbers, random variables as a Value/PMF/CDF table sorted by value
// ascending.
func Value(v value.Value) string {
	switch val := v.(type) {
	case *value.IntValue:
		return fmt.Sprintf("%d", val.Value)
	case *value.RealValue:
		return fmt.Sprintf("%v", val.Value)
	case *value.RandVarValue:
		return randVarTable(val)
	default:
		return v.String()
	}
}

const (
	widthValue = 10
	widthProb  = 15
	widthCDF   = 15
)

func randVarTable(v *value.RandVarValue) string {
	// Pairs() already returns the support in ascending value order.
	pairs := v.Value.ToRandVar().Pairs()
	if len(pairs) == 0 {
		return "impossible event (no values)"
	}

	var b strings.Builder
	header := color.New(color.Bold)
	fmt.Fprintln(&b)
	header.Fprintf(&b, "%*s%*s%*s\n", widthValue, "Value", widthProb, "PMF", widthCDF, "CDF")

	sum := 0.0
	for _, pair := range pairs {
		sum += pair.Prob
		fmt.Fprintf(&b, "%*d%*s%*s\n", widthValue, pair.Value, widthProb, Probability(pair.Prob), widthCDF, Probability(sum))
	}

	return b.String()
}

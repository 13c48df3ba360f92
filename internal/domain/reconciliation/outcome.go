package reconciliation

import "github.com/shopspring/decimal"

// Outcome classifies the difference between expected and declared collections
type Outcome string

const (
	OutcomeBalanced  Outcome = "balanced"
	OutcomeShortfall Outcome = "shortfall"
	OutcomeExcess    Outcome = "excess"
)

// Classify maps difference = expected - declared to an outcome:
// zero is balanced, positive is a shortfall, negative an excess
func Classify(difference decimal.Decimal) Outcome {
	switch difference.Sign() {
	case 0:
		return OutcomeBalanced
	case 1:
		return OutcomeShortfall
	default:
		return OutcomeExcess
	}
}

// Difference returns expected - declared rounded to money scale
func Difference(expected, declared decimal.Decimal) decimal.Decimal {
	return expected.Sub(declared).Round(2)
}

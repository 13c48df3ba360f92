package shared

import "github.com/shopspring/decimal"

// Scales used for persisted amounts
const (
	MoneyScale  int32 = 2
	VolumeScale int32 = 3
)

// RoundMoney rounds an amount to two decimal places
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// RoundVolume rounds a volume in litres to three decimal places
func RoundVolume(d decimal.Decimal) decimal.Decimal {
	return d.Round(VolumeScale)
}

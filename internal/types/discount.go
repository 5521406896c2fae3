package types

// DiscountEntryMode selects how the requested discount is entered: as an
// absolute CLP amount or as a percentage of the subtotal. The engine is the
// same either way; only the derivation of the requested amount differs.
type DiscountEntryMode string

const (
	DiscountEntryAmount     DiscountEntryMode = "amount"
	DiscountEntryPercentage DiscountEntryMode = "percentage"
)

func (m DiscountEntryMode) Validate() bool {
	switch m {
	case DiscountEntryAmount, DiscountEntryPercentage:
		return true
	default:
		return false
	}
}

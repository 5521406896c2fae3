package policy

import (
	ierr "github.com/Ceefunky/calculadora-retencion/internal/errors"
	"github.com/Ceefunky/calculadora-retencion/internal/types"
	"github.com/shopspring/decimal"
)

// Base ceilings are fixed policy constants, not user input. They cap the
// discount as a fraction of the pre-discount subtotal.
var baseCeilings = map[types.Tier]decimal.Decimal{
	types.TierNivel1:     decimal.NewFromFloat(0.25),
	types.TierTelecierre: decimal.NewFromFloat(0.40),
}

// MaxOverrideFraction bounds any ceiling override, manager or token issued
var MaxOverrideFraction = decimal.NewFromFloat(0.80)

// BaseCeiling returns the base discount ceiling for a tier
func BaseCeiling(tier types.Tier) (decimal.Decimal, error) {
	ceiling, ok := baseCeilings[tier]
	if !ok {
		return decimal.Zero, ierr.NewError("unknown tier").
			WithHintf("Unknown retention tier: %s", tier).
			Mark(ierr.ErrValidation)
	}
	return ceiling, nil
}

// ValidateOverridePercent checks an override expressed as a percentage, the
// form manager edits and token mints arrive in
func ValidateOverridePercent(percent decimal.Decimal) error {
	return ValidateOverrideFraction(percent.Div(decimal.NewFromInt(100)))
}

// ValidateOverrideFraction checks that an override ceiling fraction is within
// the allowed [0, 0.8] bound
func ValidateOverrideFraction(fraction decimal.Decimal) error {
	if fraction.IsNegative() || fraction.GreaterThan(MaxOverrideFraction) {
		return ierr.NewError("ceiling override out of bounds").
			WithHintf("Ceiling override must be between 0%% and %s%%", MaxOverrideFraction.Mul(decimal.NewFromInt(100)).StringFixed(0)).
			WithReportableDetails(map[string]any{
				"fraction": fraction.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

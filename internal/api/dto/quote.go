package dto

import (
	ierr "github.com/Ceefunky/calculadora-retencion/internal/errors"
	"github.com/Ceefunky/calculadora-retencion/internal/types"
	"github.com/Ceefunky/calculadora-retencion/internal/validator"
	"github.com/shopspring/decimal"
)

// CreateQuoteRequest represents a discount authorization request. The
// discount field is a CLP amount or a percentage depending on the configured
// entry mode.
type CreateQuoteRequest struct {
	Tier        types.Tier      `json:"tier" validate:"required"`
	UnitPriceUF decimal.Decimal `json:"unit_price_uf"`
	Quantity    int             `json:"quantity"`
	Discount    decimal.Decimal `json:"discount"`
	// ManualUFRate overrides the automatic rate, e.g. when the provider is
	// down or there is no connectivity
	ManualUFRate *decimal.Decimal `json:"manual_uf_rate,omitempty"`
	// RoundToThousand rounds the final total to the nearest thousand CLP
	RoundToThousand bool `json:"round_to_thousand,omitempty"`
}

func (r *CreateQuoteRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if !r.Tier.Validate() {
		return ierr.NewError("unknown tier").
			WithHintf("Unknown retention tier: %s", r.Tier).
			Mark(ierr.ErrValidation)
	}

	if r.ManualUFRate != nil && !r.ManualUFRate.IsPositive() {
		return ierr.NewError("manual uf rate must be positive").
			WithHint("The manually entered UF rate must be greater than zero").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// RateInfo carries the UF rate used for a quote and where it came from
type RateInfo struct {
	Value      decimal.Decimal `json:"value"`
	Provenance string          `json:"provenance"`
}

// DiscountInfo pairs a discount amount in CLP with its fraction of the
// subtotal
type DiscountInfo struct {
	AmountCLP decimal.Decimal `json:"amount_clp"`
	Fraction  decimal.Decimal `json:"fraction"`
}

// CeilingInfo describes the active tope for the quoted tier
type CeilingInfo struct {
	Fraction  decimal.Decimal `json:"fraction"`
	AmountCLP decimal.Decimal `json:"amount_clp"`
}

// QuoteResponse is the full discount authorization result
type QuoteResponse struct {
	Tier        types.Tier      `json:"tier"`
	TierDisplay string          `json:"tier_display"`
	UFRate      RateInfo        `json:"uf_rate"`
	UnitPriceUF decimal.Decimal `json:"unit_price_uf"`
	Quantity    int             `json:"quantity"`

	UnitPriceCLP decimal.Decimal `json:"unit_price_clp"`
	NetCLP       decimal.Decimal `json:"net_clp"`
	TaxCLP       decimal.Decimal `json:"tax_clp"`
	SubtotalCLP  decimal.Decimal `json:"subtotal_clp"`

	Requested      DiscountInfo `json:"requested"`
	Applied        DiscountInfo `json:"applied"`
	Ceiling        CeilingInfo  `json:"ceiling"`
	ExceedsCeiling bool         `json:"exceeds_ceiling"`

	TotalCLP decimal.Decimal `json:"total_clp"`

	// TotalFormatted and Summary are presentation helpers for the hosted UI
	TotalFormatted string `json:"total_formatted"`
	Summary        string `json:"summary"`

	// Warnings surfaces recovered conditions: coerced inputs, ignored flash
	// tokens, capped discounts
	Warnings []string `json:"warnings,omitempty"`
}

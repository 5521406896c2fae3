package dto

import (
	"time"

	"github.com/Ceefunky/calculadora-retencion/internal/domain/policy"
	ierr "github.com/Ceefunky/calculadora-retencion/internal/errors"
	"github.com/Ceefunky/calculadora-retencion/internal/types"
	"github.com/Ceefunky/calculadora-retencion/internal/validator"
	"github.com/shopspring/decimal"
)

// MintFlashTokenRequest asks for a signed, time-limited grant of relaxed
// ceilings, expressed as percentages in [0, 80]
type MintFlashTokenRequest struct {
	DurationHours int                            `json:"duration_hours" validate:"required,gte=1,lte=168"`
	Overrides     map[types.Tier]decimal.Decimal `json:"overrides" validate:"required,min=1"`
	// BaseLink, when present, is returned with the token appended as the
	// flash query parameter
	BaseLink string `json:"base_link,omitempty" validate:"omitempty,url"`
}

func (r *MintFlashTokenRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	for tier, percent := range r.Overrides {
		if !tier.Validate() {
			return ierr.NewError("unknown tier").
				WithHintf("Unknown retention tier: %s", tier).
				Mark(ierr.ErrValidation)
		}
		if err := policy.ValidateOverridePercent(percent); err != nil {
			return err
		}
	}

	return nil
}

// MintFlashTokenResponse carries the minted token and a shareable link
type MintFlashTokenResponse struct {
	Token     string    `json:"token"`
	Link      string    `json:"link,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SetCeilingsRequest is a manager's direct ceiling edit, in percentages
type SetCeilingsRequest struct {
	Ceilings map[types.Tier]decimal.Decimal `json:"ceilings" validate:"required,min=1"`
}

func (r *SetCeilingsRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	for tier, percent := range r.Ceilings {
		if !tier.Validate() {
			return ierr.NewError("unknown tier").
				WithHintf("Unknown retention tier: %s", tier).
				Mark(ierr.ErrValidation)
		}
		if err := policy.ValidateOverridePercent(percent); err != nil {
			return err
		}
	}

	return nil
}

// TierCeiling reports one tier's base and currently active ceiling fractions
type TierCeiling struct {
	Tier        types.Tier      `json:"tier"`
	TierDisplay string          `json:"tier_display"`
	Base        decimal.Decimal `json:"base"`
	Active      decimal.Decimal `json:"active"`
	Overridden  bool            `json:"overridden"`
}

// CeilingsResponse lists the ceilings in effect for the caller's session
type CeilingsResponse struct {
	Ceilings []TierCeiling `json:"ceilings"`
}

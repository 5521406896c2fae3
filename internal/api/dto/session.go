package dto

import (
	"time"

	"github.com/Ceefunky/calculadora-retencion/internal/types"
	"github.com/Ceefunky/calculadora-retencion/internal/validator"
	"github.com/shopspring/decimal"
)

// UnlockRequest is a passcode attempt to gain manager role for the session
type UnlockRequest struct {
	Passcode string `json:"passcode" validate:"required"`
}

func (r *UnlockRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// SessionResponse describes the caller's resolved session
type SessionResponse struct {
	Identity string     `json:"identity,omitempty"`
	Role     types.Role `json:"role"`
}

// RateResponse is the current UF rate for display
type RateResponse struct {
	Value      decimal.Decimal `json:"value"`
	Formatted  string          `json:"formatted"`
	Provenance string          `json:"provenance"`
	AsOf       time.Time       `json:"as_of"`
}

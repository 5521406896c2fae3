package policy

import (
	"time"

	"github.com/Ceefunky/calculadora-retencion/internal/types"
	"github.com/shopspring/decimal"
)

// Store holds the currently effective discount ceilings for one session. It
// starts from the base ceilings and layers up to two override sources on top:
// a manager's direct edit and a verified flash token grant. A manager edit
// always wins over a token when both are present. A Store is session-scoped
// and never shared across sessions.
type Store struct {
	managerOverrides map[types.Tier]decimal.Decimal
	tokenOverrides   map[types.Tier]decimal.Decimal
	tokenExpiry      time.Time
}

func NewStore() *Store {
	return &Store{
		managerOverrides: make(map[types.Tier]decimal.Decimal),
		tokenOverrides:   make(map[types.Tier]decimal.Decimal),
	}
}

// GetActiveCeiling returns the effective ceiling fraction for a tier. The
// returned fraction is always in [0, 1]. Expired token grants are ignored at
// read time; there is no revocation beyond expiry.
func (s *Store) GetActiveCeiling(tier types.Tier, now time.Time) (decimal.Decimal, error) {
	base, err := BaseCeiling(tier)
	if err != nil {
		return decimal.Zero, err
	}

	if ceiling, ok := s.managerOverrides[tier]; ok {
		return ceiling, nil
	}

	// a grant is valid through its expiry instant, matching the codec
	if ceiling, ok := s.tokenOverrides[tier]; ok && !now.After(s.tokenExpiry) {
		return ceiling, nil
	}

	return base, nil
}

// SetManagerOverride records a manager's direct ceiling edit for a tier.
// Fractions outside [0, 0.8] are rejected, never clamped silently.
func (s *Store) SetManagerOverride(tier types.Tier, fraction decimal.Decimal) error {
	if _, err := BaseCeiling(tier); err != nil {
		return err
	}
	if err := ValidateOverrideFraction(fraction); err != nil {
		return err
	}
	s.managerOverrides[tier] = fraction
	return nil
}

// SetTokenOverrides installs the ceiling grants carried by a verified flash
// token. Out-of-bound fractions are rejected even when the signature checks
// out; a token can never grant more than the policy maximum.
func (s *Store) SetTokenOverrides(overrides map[types.Tier]decimal.Decimal, expiry time.Time) error {
	for tier, fraction := range overrides {
		if _, err := BaseCeiling(tier); err != nil {
			return err
		}
		if err := ValidateOverrideFraction(fraction); err != nil {
			return err
		}
	}

	s.tokenOverrides = make(map[types.Tier]decimal.Decimal, len(overrides))
	for tier, fraction := range overrides {
		s.tokenOverrides[tier] = fraction
	}
	s.tokenExpiry = expiry
	return nil
}

// HasTokenGrant reports whether an unexpired token grant is active
func (s *Store) HasTokenGrant(now time.Time) bool {
	return len(s.tokenOverrides) > 0 && !now.After(s.tokenExpiry)
}

// TokenExpiry returns the expiry of the installed token grant, if any
func (s *Store) TokenExpiry() time.Time {
	return s.tokenExpiry
}

// ResetToBase drops all overrides, returning every tier to its base ceiling
func (s *Store) ResetToBase() {
	s.managerOverrides = make(map[types.Tier]decimal.Decimal)
	s.tokenOverrides = make(map[types.Tier]decimal.Decimal)
	s.tokenExpiry = time.Time{}
}

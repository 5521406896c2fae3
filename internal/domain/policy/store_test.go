package policy

import (
	"testing"
	"time"

	ierr "github.com/Ceefunky/calculadora-retencion/internal/errors"
	"github.com/Ceefunky/calculadora-retencion/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseCeilings(t *testing.T) {
	testCases := []struct {
		tier     types.Tier
		expected string
	}{
		{types.TierNivel1, "0.25"},
		{types.TierTelecierre, "0.4"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.tier), func(t *testing.T) {
			ceiling, err := BaseCeiling(tc.tier)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ceiling.String())
		})
	}

	_, err := BaseCeiling(types.Tier("unknown"))
	assert.True(t, ierr.IsValidation(err))
}

// The percentage form used by manager edits and token mints shares the
// single fraction bound; there is no separate configurable limit.
func TestValidateOverridePercent(t *testing.T) {
	testCases := []struct {
		name    string
		percent string
		wantErr bool
	}{
		{"zero", "0", false},
		{"mid range", "35", false},
		{"at the bound", "80", false},
		{"just over", "80.01", true},
		{"well over", "100", true},
		{"negative", "-5", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateOverridePercent(decimal.RequireFromString(tc.percent))
			if tc.wantErr {
				assert.True(t, ierr.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStoreDefaultsToBaseCeilings(t *testing.T) {
	store := NewStore()
	now := time.Now()

	for _, tier := range types.Tiers() {
		ceiling, err := store.GetActiveCeiling(tier, now)
		require.NoError(t, err)

		base, err := BaseCeiling(tier)
		require.NoError(t, err)
		assert.True(t, ceiling.Equal(base))
	}
}

func TestStoreManagerOverride(t *testing.T) {
	store := NewStore()
	now := time.Now()

	err := store.SetManagerOverride(types.TierNivel1, decimal.NewFromFloat(0.30))
	require.NoError(t, err)

	ceiling, err := store.GetActiveCeiling(types.TierNivel1, now)
	require.NoError(t, err)
	assert.Equal(t, "0.3", ceiling.String())

	// other tiers keep their base ceiling
	ceiling, err = store.GetActiveCeiling(types.TierTelecierre, now)
	require.NoError(t, err)
	assert.Equal(t, "0.4", ceiling.String())
}

func TestStoreRejectsOutOfBoundOverrides(t *testing.T) {
	store := NewStore()

	testCases := []struct {
		name     string
		fraction decimal.Decimal
		wantErr  bool
	}{
		{"zero is allowed", decimal.Zero, false},
		{"max bound is allowed", decimal.NewFromFloat(0.80), false},
		{"above max is rejected", decimal.NewFromFloat(0.81), true},
		{"negative is rejected", decimal.NewFromFloat(-0.01), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.SetManagerOverride(types.TierNivel1, tc.fraction)
			if tc.wantErr {
				assert.True(t, ierr.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}

	err := store.SetManagerOverride(types.Tier("unknown"), decimal.NewFromFloat(0.10))
	assert.True(t, ierr.IsValidation(err))
}

func TestStoreTokenOverrides(t *testing.T) {
	store := NewStore()
	now := time.Now()

	overrides := map[types.Tier]decimal.Decimal{
		types.TierNivel1:     decimal.NewFromFloat(0.35),
		types.TierTelecierre: decimal.NewFromFloat(0.50),
	}
	require.NoError(t, store.SetTokenOverrides(overrides, now.Add(time.Hour)))

	ceiling, err := store.GetActiveCeiling(types.TierNivel1, now)
	require.NoError(t, err)
	assert.Equal(t, "0.35", ceiling.String())

	assert.True(t, store.HasTokenGrant(now))

	// expired grants fall back to the base ceiling at read time
	later := now.Add(2 * time.Hour)
	ceiling, err = store.GetActiveCeiling(types.TierNivel1, later)
	require.NoError(t, err)
	assert.Equal(t, "0.25", ceiling.String())
	assert.False(t, store.HasTokenGrant(later))
}

// The store and the token codec agree on the boundary: a grant holds through
// its expiry instant and is ignored strictly after it.
func TestStoreTokenGrantExpiryBoundary(t *testing.T) {
	store := NewStore()
	minted := time.Now()
	expiry := minted.Add(time.Hour)

	overrides := map[types.Tier]decimal.Decimal{
		types.TierNivel1: decimal.NewFromFloat(0.35),
	}
	require.NoError(t, store.SetTokenOverrides(overrides, expiry))

	ceiling, err := store.GetActiveCeiling(types.TierNivel1, expiry)
	require.NoError(t, err)
	assert.Equal(t, "0.35", ceiling.String())
	assert.True(t, store.HasTokenGrant(expiry))

	after := expiry.Add(time.Second)
	ceiling, err = store.GetActiveCeiling(types.TierNivel1, after)
	require.NoError(t, err)
	assert.Equal(t, "0.25", ceiling.String())
	assert.False(t, store.HasTokenGrant(after))
}

func TestStoreTokenOverridesRejectOutOfBoundGrants(t *testing.T) {
	store := NewStore()
	now := time.Now()

	err := store.SetTokenOverrides(map[types.Tier]decimal.Decimal{
		types.TierNivel1: decimal.NewFromFloat(0.95),
	}, now.Add(time.Hour))
	assert.True(t, ierr.IsValidation(err))

	// a rejected grant installs nothing
	ceiling, err := store.GetActiveCeiling(types.TierNivel1, now)
	require.NoError(t, err)
	assert.Equal(t, "0.25", ceiling.String())
}

func TestStoreManagerEditWinsOverToken(t *testing.T) {
	store := NewStore()
	now := time.Now()

	require.NoError(t, store.SetTokenOverrides(map[types.Tier]decimal.Decimal{
		types.TierNivel1: decimal.NewFromFloat(0.50),
	}, now.Add(time.Hour)))
	require.NoError(t, store.SetManagerOverride(types.TierNivel1, decimal.NewFromFloat(0.30)))

	ceiling, err := store.GetActiveCeiling(types.TierNivel1, now)
	require.NoError(t, err)
	assert.Equal(t, "0.3", ceiling.String())
}

func TestStoreResetToBase(t *testing.T) {
	store := NewStore()
	now := time.Now()

	require.NoError(t, store.SetManagerOverride(types.TierNivel1, decimal.NewFromFloat(0.60)))
	require.NoError(t, store.SetTokenOverrides(map[types.Tier]decimal.Decimal{
		types.TierTelecierre: decimal.NewFromFloat(0.55),
	}, now.Add(time.Hour)))

	store.ResetToBase()

	for _, tier := range types.Tiers() {
		ceiling, err := store.GetActiveCeiling(tier, now)
		require.NoError(t, err)

		base, err := BaseCeiling(tier)
		require.NoError(t, err)
		assert.True(t, ceiling.Equal(base))
	}
}

func TestActiveCeilingAlwaysWithinBounds(t *testing.T) {
	store := NewStore()
	now := time.Now()

	require.NoError(t, store.SetManagerOverride(types.TierNivel1, decimal.NewFromFloat(0.80)))

	for _, tier := range types.Tiers() {
		ceiling, err := store.GetActiveCeiling(tier, now)
		require.NoError(t, err)
		assert.False(t, ceiling.IsNegative())
		assert.True(t, ceiling.LessThanOrEqual(MaxOverrideFraction))
	}
}

package types

// Tier is a named retention policy bucket. Each tier carries its own maximum
// discount fraction (the "tope"), either the base one or a temporary override.
type Tier string

const (
	// TierNivel1 is the standard retention tier
	TierNivel1 Tier = "nivel_1"
	// TierTelecierre is the close-out tier with a higher base ceiling
	TierTelecierre Tier = "telecierre"
)

// Tiers returns all known tiers in display order
func Tiers() []Tier {
	return []Tier{TierNivel1, TierTelecierre}
}

// Validate checks that the tier is one of the known policy buckets
func (t Tier) Validate() bool {
	switch t {
	case TierNivel1, TierTelecierre:
		return true
	default:
		return false
	}
}

// DisplayName returns the user-facing tier name
func (t Tier) DisplayName() string {
	switch t {
	case TierNivel1:
		return "Nivel 1"
	case TierTelecierre:
		return "Telecierre"
	default:
		return string(t)
	}
}

package indicator

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Rate is the point-in-time value of one UF in CLP, with a provenance label
// for display. It is best-effort data, not guaranteed fresh.
type Rate struct {
	Value      decimal.Decimal `json:"value"`
	Provenance string          `json:"provenance"`
	AsOf       time.Time       `json:"as_of"`
}

// Provider supplies the current UF rate. Implementations must treat failure
// as recoverable: callers fall back to a manually entered rate.
type Provider interface {
	CurrentUFRate(ctx context.Context) (*Rate, error)
}

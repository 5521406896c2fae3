package testutil

import (
	"context"
	"time"

	"github.com/Ceefunky/calculadora-retencion/internal/domain/indicator"
	ierr "github.com/Ceefunky/calculadora-retencion/internal/errors"
	"github.com/shopspring/decimal"
)

// InMemoryRateProvider is an in-memory implementation of indicator.Provider
// for testing
type InMemoryRateProvider struct {
	Rate  *indicator.Rate
	Err   error
	Calls int
}

// NewInMemoryRateProvider returns a provider serving a fixed UF rate
func NewInMemoryRateProvider(value string) *InMemoryRateProvider {
	return &InMemoryRateProvider{
		Rate: &indicator.Rate{
			Value:      decimal.RequireFromString(value),
			Provenance: "test fixture",
			AsOf:       time.Now(),
		},
	}
}

// NewFailingRateProvider returns a provider that always fails, as when the
// indicator API is unreachable
func NewFailingRateProvider() *InMemoryRateProvider {
	return &InMemoryRateProvider{
		Err: ierr.NewError("rate provider down").Mark(ierr.ErrRateUnavailable),
	}
}

func (p *InMemoryRateProvider) CurrentUFRate(ctx context.Context) (*indicator.Rate, error) {
	p.Calls++
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Rate, nil
}

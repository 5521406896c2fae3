package mindicador

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Ceefunky/calculadora-retencion/internal/cache"
	"github.com/Ceefunky/calculadora-retencion/internal/config"
	"github.com/Ceefunky/calculadora-retencion/internal/domain/indicator"
	ierr "github.com/Ceefunky/calculadora-retencion/internal/errors"
	"github.com/Ceefunky/calculadora-retencion/internal/httpclient"
	"github.com/Ceefunky/calculadora-retencion/internal/logger"
	"github.com/shopspring/decimal"
)

// Client fetches the daily UF value from a mindicador.cl-style API. Results
// are cached for the configured TTL to bound external call volume; the value
// is point-in-time, not guaranteed fresh.
type Client struct {
	cfg    config.IndicatorConfig
	http   httpclient.Client
	cache  cache.Cache
	logger *logger.Logger
}

func NewClient(cfg *config.Configuration, http httpclient.Client, cache cache.Cache, logger *logger.Logger) indicator.Provider {
	return &Client{
		cfg:    cfg.Indicator,
		http:   http,
		cache:  cache,
		logger: logger,
	}
}

// ufResponse mirrors the indicator API payload: a series with the most
// recent value first
type ufResponse struct {
	Serie []struct {
		Fecha time.Time       `json:"fecha"`
		Valor decimal.Decimal `json:"valor"`
	} `json:"serie"`
}

// CurrentUFRate returns today's UF value in CLP with a provenance label, or
// ErrRateUnavailable. Failures are recoverable by manual rate entry.
func (c *Client) CurrentUFRate(ctx context.Context) (*indicator.Rate, error) {
	cacheKey := cache.GenerateKey(cache.PrefixUFRate, "current")
	if cached, ok := c.cache.Get(ctx, cacheKey); ok {
		if rate, ok := cached.(*indicator.Rate); ok {
			return rate, nil
		}
	}

	rate, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.cache.Set(ctx, cacheKey, rate, c.cfg.CacheTTL)
	return rate, nil
}

func (c *Client) fetch(ctx context.Context) (*indicator.Rate, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	defer cancel()

	resp, err := c.http.Send(ctx, &httpclient.Request{
		Method: http.MethodGet,
		URL:    c.cfg.BaseURL + "/api/uf",
	})
	if err != nil {
		c.logger.Warnw("uf rate fetch failed", "error", err)
		return nil, ierr.WithError(err).
			WithHint("Could not fetch today's UF value; enter the rate manually").
			Mark(ierr.ErrRateUnavailable)
	}

	var payload ufResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not fetch today's UF value; enter the rate manually").
			Mark(ierr.ErrRateUnavailable)
	}

	if len(payload.Serie) == 0 {
		return nil, ierr.NewError("uf response has no data points").
			WithHint("Could not fetch today's UF value; enter the rate manually").
			Mark(ierr.ErrRateUnavailable)
	}

	// the first element is the most recent
	latest := payload.Serie[0]
	if latest.Valor.IsZero() || latest.Valor.IsNegative() {
		return nil, ierr.NewError("uf response has an invalid value").
			WithHint("Could not fetch today's UF value; enter the rate manually").
			Mark(ierr.ErrRateUnavailable)
	}

	rate := &indicator.Rate{
		Value:      latest.Valor,
		Provenance: "mindicador.cl (UF del " + latest.Fecha.Format("02-01-2006") + ")",
		AsOf:       latest.Fecha,
	}

	c.logger.Infow("fetched uf rate",
		"value", rate.Value.String(),
		"as_of", rate.AsOf.Format(time.RFC3339))

	return rate, nil
}

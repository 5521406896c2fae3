package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Ceefunky/calculadora-retencion/internal/api/dto"
	"github.com/Ceefunky/calculadora-retencion/internal/auth"
	"github.com/Ceefunky/calculadora-retencion/internal/domain/indicator"
	ierr "github.com/Ceefunky/calculadora-retencion/internal/errors"
	"github.com/Ceefunky/calculadora-retencion/internal/types"
	"github.com/shopspring/decimal"
)

var (
	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1000)
)

// QuoteService computes discount authorizations: UF to CLP conversion,
// tiered ceiling enforcement and the resulting total
type QuoteService interface {
	Compute(ctx context.Context, session *auth.Session, req dto.CreateQuoteRequest) (*dto.QuoteResponse, error)
}

type quoteService struct {
	ServiceParams
}

func NewQuoteService(params ServiceParams) QuoteService {
	return &quoteService{
		ServiceParams: params,
	}
}

// Compute is a pure function of the session's active ceilings, the UF rate
// and the submitted inputs. Invalid numeric inputs are coerced to safe
// defaults and the coercion surfaced, never raised.
func (s *quoteService) Compute(ctx context.Context, session *auth.Session, req dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	var warnings []string
	if session.TokenWarning != "" {
		warnings = append(warnings, session.TokenWarning)
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
		warnings = append(warnings, fmt.Sprintf("quantity %d is invalid; using 1", req.Quantity))
	}

	unitPriceUF := req.UnitPriceUF
	if unitPriceUF.IsNegative() {
		unitPriceUF = decimal.Zero
		warnings = append(warnings, "negative unit price; using 0")
	}

	discount := req.Discount
	if discount.IsNegative() {
		discount = decimal.Zero
		warnings = append(warnings, "negative discount; using 0")
	}

	rate, err := s.resolveRate(ctx, req.ManualUFRate)
	if err != nil {
		return nil, err
	}

	unitPriceCLP := unitPriceUF.Mul(rate.Value)
	net := unitPriceCLP.Mul(decimal.NewFromInt(int64(quantity)))

	tax := decimal.Zero
	if s.Config.Pricing.TaxRate.IsPositive() {
		tax = net.Mul(s.Config.Pricing.TaxRate)
	}
	subtotal := net.Add(tax)

	requested := s.requestedDiscount(discount, subtotal)

	ceiling, err := session.Store.GetActiveCeiling(req.Tier, now)
	if err != nil {
		return nil, err
	}
	ceilingCLP := subtotal.Mul(ceiling)

	exceeds := requested.AmountCLP.GreaterThan(ceilingCLP)
	appliedCLP := requested.AmountCLP
	if exceeds {
		appliedCLP = ceilingCLP
		warnings = append(warnings, fmt.Sprintf(
			"requested discount %s exceeds the %s ceiling (%s%% = %s); the ceiling was applied",
			types.FormatCLP(requested.AmountCLP),
			req.Tier.DisplayName(),
			ceiling.Mul(hundred).StringFixed(0),
			types.FormatCLP(ceilingCLP),
		))
	}

	applied := dto.DiscountInfo{
		AmountCLP: appliedCLP,
		Fraction:  fractionOf(appliedCLP, subtotal),
	}

	total := subtotal.Sub(appliedCLP)
	if total.IsNegative() {
		total = decimal.Zero
	}
	if req.RoundToThousand {
		total = total.Div(thousand).Round(0).Mul(thousand)
	}

	resp := &dto.QuoteResponse{
		Tier:           req.Tier,
		TierDisplay:    req.Tier.DisplayName(),
		UFRate:         dto.RateInfo{Value: rate.Value, Provenance: rate.Provenance},
		UnitPriceUF:    unitPriceUF,
		Quantity:       quantity,
		UnitPriceCLP:   unitPriceCLP,
		NetCLP:         net,
		TaxCLP:         tax,
		SubtotalCLP:    subtotal,
		Requested:      requested,
		Applied:        applied,
		Ceiling:        dto.CeilingInfo{Fraction: ceiling, AmountCLP: ceilingCLP},
		ExceedsCeiling: exceeds,
		TotalCLP:       total,
		TotalFormatted: types.FormatCLP(total),
		Warnings:       warnings,
	}
	resp.Summary = s.summary(resp)

	s.Logger.Infow("computed quote",
		"tier", req.Tier,
		"subtotal", subtotal.String(),
		"requested", requested.AmountCLP.String(),
		"applied", appliedCLP.String(),
		"exceeds_ceiling", exceeds,
		"total", total.String())

	return resp, nil
}

// resolveRate prefers a manually entered rate; otherwise the provider's
// cached value. Provider failure is surfaced as rate_unavailable so the
// caller can retry with a manual rate.
func (s *quoteService) resolveRate(ctx context.Context, manual *decimal.Decimal) (*indicator.Rate, error) {
	if manual != nil {
		return &indicator.Rate{
			Value:      *manual,
			Provenance: "UF ingresada manualmente",
		}, nil
	}

	rate, err := s.RateProvider.CurrentUFRate(ctx)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Today's UF value is unavailable; retry with a manually entered rate").
			Mark(ierr.ErrRateUnavailable)
	}
	return rate, nil
}

// requestedDiscount normalizes the submitted discount into an amount plus a
// fraction of the subtotal, per the configured entry mode
func (s *quoteService) requestedDiscount(discount, subtotal decimal.Decimal) dto.DiscountInfo {
	if s.Config.Pricing.DiscountEntry == types.DiscountEntryPercentage {
		fraction := discount.Div(hundred)
		return dto.DiscountInfo{
			AmountCLP: fraction.Mul(subtotal),
			Fraction:  fraction,
		}
	}

	return dto.DiscountInfo{
		AmountCLP: discount,
		Fraction:  fractionOf(discount, subtotal),
	}
}

// fractionOf returns amount/subtotal, or zero for a zero subtotal
func fractionOf(amount, subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsZero() {
		return decimal.Zero
	}
	return amount.Div(subtotal)
}

// summary renders the shareable plain-text breakdown shown in the UI
func (s *quoteService) summary(q *dto.QuoteResponse) string {
	return fmt.Sprintf(
		"Nivel: %s\n"+
			"UF usada: %s (%s)\n"+
			"Precio unitario: %s UF (%s)\n"+
			"Cantidad: %d\n"+
			"Subtotal: %s\n"+
			"Descuento solicitado: %s (%s%% del total)\n"+
			"Descuento aplicado: %s (%s%% del total)\n"+
			"Total: %s\n",
		q.TierDisplay,
		q.UFRate.Value.StringFixed(2), q.UFRate.Provenance,
		q.UnitPriceUF.StringFixed(2), types.FormatCLP(q.UnitPriceCLP),
		q.Quantity,
		types.FormatCLP(q.SubtotalCLP),
		types.FormatCLP(q.Requested.AmountCLP), q.Requested.Fraction.Mul(hundred).StringFixed(1),
		types.FormatCLP(q.Applied.AmountCLP), q.Applied.Fraction.Mul(hundred).StringFixed(1),
		types.FormatCLP(q.TotalCLP),
	)
}

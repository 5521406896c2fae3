package service

import (
	"context"
	"testing"
	"time"

	"github.com/Ceefunky/calculadora-retencion/internal/api/dto"
	"github.com/Ceefunky/calculadora-retencion/internal/auth"
	"github.com/Ceefunky/calculadora-retencion/internal/config"
	ierr "github.com/Ceefunky/calculadora-retencion/internal/errors"
	"github.com/Ceefunky/calculadora-retencion/internal/flash"
	"github.com/Ceefunky/calculadora-retencion/internal/logger"
	"github.com/Ceefunky/calculadora-retencion/internal/testutil"
	"github.com/Ceefunky/calculadora-retencion/internal/types"
	"github.com/Ceefunky/calculadora-retencion/internal/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type FlashServiceSuite struct {
	suite.Suite
	ctx     context.Context
	codec   *flash.Codec
	service FlashService
	manager *auth.Session
	agent   *auth.Session
}

func TestFlashService(t *testing.T) {
	suite.Run(t, new(FlashServiceSuite))
}

func (s *FlashServiceSuite) SetupTest() {
	validator.NewValidator()

	s.ctx = testutil.SetupContext()
	cfg := config.GetDefaultConfig()
	cfg.Auth.Admins = []string{"jefa@acme.cl"}

	log, err := logger.NewLogger(cfg)
	s.Require().NoError(err)

	s.codec, err = flash.NewCodec([]byte(cfg.Secrets.SigningKey))
	s.Require().NoError(err)

	s.service = NewFlashService(NewServiceParams(log, cfg, testutil.NewInMemoryRateProvider("39000"), s.codec))
	s.manager = auth.NewSession("jefa@acme.cl", cfg.Auth.Admins)
	s.agent = auth.NewSession("agente@acme.cl", cfg.Auth.Admins)
}

func (s *FlashServiceSuite) mintRequest() dto.MintFlashTokenRequest {
	return dto.MintFlashTokenRequest{
		DurationHours: 4,
		Overrides: map[types.Tier]decimal.Decimal{
			types.TierNivel1:     decimal.NewFromInt(30),
			types.TierTelecierre: decimal.NewFromInt(50),
		},
	}
}

func (s *FlashServiceSuite) TestMintRequiresManager() {
	_, err := s.service.MintToken(s.ctx, s.agent, s.mintRequest())
	s.True(ierr.IsPermissionDenied(err))
}

func (s *FlashServiceSuite) TestMintedTokenGrantsCeilingsToAgent() {
	resp, err := s.service.MintToken(s.ctx, s.manager, s.mintRequest())
	s.Require().NoError(err)
	s.NotEmpty(resp.Token)

	now := time.Now()
	s.Require().NoError(s.agent.ApplyIncomingToken(s.codec, resp.Token, now))

	ceiling, err := s.agent.Store.GetActiveCeiling(types.TierNivel1, now)
	s.Require().NoError(err)
	s.Equal("0.3", ceiling.String())
}

func (s *FlashServiceSuite) TestMintWithShareableLink() {
	req := s.mintRequest()
	req.BaseLink = "https://calc.acme.cl/retencion"

	resp, err := s.service.MintToken(s.ctx, s.manager, req)
	s.Require().NoError(err)
	s.Contains(resp.Link, "?flash="+resp.Token)
}

func (s *FlashServiceSuite) TestMintValidatesRequest() {
	testCases := []struct {
		name   string
		mutate func(*dto.MintFlashTokenRequest)
	}{
		{"zero duration", func(r *dto.MintFlashTokenRequest) { r.DurationHours = 0 }},
		{"over a week", func(r *dto.MintFlashTokenRequest) { r.DurationHours = 200 }},
		{"no overrides", func(r *dto.MintFlashTokenRequest) { r.Overrides = nil }},
		{"percent out of bounds", func(r *dto.MintFlashTokenRequest) {
			r.Overrides = map[types.Tier]decimal.Decimal{types.TierNivel1: decimal.NewFromInt(90)}
		}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req := s.mintRequest()
			tc.mutate(&req)
			_, err := s.service.MintToken(s.ctx, s.manager, req)
			s.True(ierr.IsValidation(err))
		})
	}
}

func (s *FlashServiceSuite) TestSetCeilingsRequiresManager() {
	_, err := s.service.SetCeilings(s.ctx, s.agent, dto.SetCeilingsRequest{
		Ceilings: map[types.Tier]decimal.Decimal{types.TierNivel1: decimal.NewFromInt(30)},
	})
	s.True(ierr.IsPermissionDenied(err))
}

func (s *FlashServiceSuite) TestSetAndGetCeilings() {
	resp, err := s.service.SetCeilings(s.ctx, s.manager, dto.SetCeilingsRequest{
		Ceilings: map[types.Tier]decimal.Decimal{types.TierNivel1: decimal.NewFromInt(30)},
	})
	s.Require().NoError(err)

	byTier := map[types.Tier]dto.TierCeiling{}
	for _, c := range resp.Ceilings {
		byTier[c.Tier] = c
	}

	s.Equal("0.3", byTier[types.TierNivel1].Active.String())
	s.True(byTier[types.TierNivel1].Overridden)
	s.Equal("0.4", byTier[types.TierTelecierre].Active.String())
	s.False(byTier[types.TierTelecierre].Overridden)
}

func (s *FlashServiceSuite) TestResetCeilings() {
	_, err := s.service.SetCeilings(s.ctx, s.manager, dto.SetCeilingsRequest{
		Ceilings: map[types.Tier]decimal.Decimal{types.TierNivel1: decimal.NewFromInt(60)},
	})
	s.Require().NoError(err)

	resp, err := s.service.ResetCeilings(s.ctx, s.manager)
	s.Require().NoError(err)

	for _, c := range resp.Ceilings {
		s.False(c.Overridden)
	}
}

func (s *FlashServiceSuite) TestGetCeilingsIsReadableByAgents() {
	resp, err := s.service.GetCeilings(s.ctx, s.agent)
	s.Require().NoError(err)
	s.Len(resp.Ceilings, 2)
}

package service

import (
	"context"
	"time"

	"github.com/Ceefunky/calculadora-retencion/internal/api/dto"
	"github.com/Ceefunky/calculadora-retencion/internal/auth"
	"github.com/Ceefunky/calculadora-retencion/internal/domain/policy"
	ierr "github.com/Ceefunky/calculadora-retencion/internal/errors"
	"github.com/Ceefunky/calculadora-retencion/internal/flash"
	"github.com/Ceefunky/calculadora-retencion/internal/types"
)

// FlashService handles ceiling overrides: direct manager edits and minting
// of signed flash tokens that carry relaxed ceilings to other callers
type FlashService interface {
	MintToken(ctx context.Context, session *auth.Session, req dto.MintFlashTokenRequest) (*dto.MintFlashTokenResponse, error)
	SetCeilings(ctx context.Context, session *auth.Session, req dto.SetCeilingsRequest) (*dto.CeilingsResponse, error)
	GetCeilings(ctx context.Context, session *auth.Session) (*dto.CeilingsResponse, error)
	ResetCeilings(ctx context.Context, session *auth.Session) (*dto.CeilingsResponse, error)
}

type flashService struct {
	ServiceParams
}

func NewFlashService(params ServiceParams) FlashService {
	return &flashService{
		ServiceParams: params,
	}
}

// MintToken issues a signed, expiring grant of relaxed ceilings. Manager
// only: the token is what extends the grant to everyone else.
func (s *flashService) MintToken(ctx context.Context, session *auth.Session, req dto.MintFlashTokenRequest) (*dto.MintFlashTokenResponse, error) {
	if !session.CanEditPolicyDirectly() {
		return nil, ierr.NewError("caller is not a manager").
			WithHint("Only managers may mint flash tokens").
			Mark(ierr.ErrPermissionDenied)
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	token, err := s.Codec.Mint(now, req.DurationHours, req.Overrides)
	if err != nil {
		return nil, err
	}

	resp := &dto.MintFlashTokenResponse{
		Token:     token,
		ExpiresAt: now.Add(time.Duration(req.DurationHours) * time.Hour),
	}
	if req.BaseLink != "" {
		resp.Link = flash.AppendToLink(req.BaseLink, token)
	}

	s.Logger.Infow("minted flash token",
		"minted_by", session.Identity,
		"duration_hours", req.DurationHours,
		"tiers", len(req.Overrides),
		"expires_at", resp.ExpiresAt.Format(time.RFC3339))

	return resp, nil
}

// SetCeilings applies a manager's direct ceiling edits to the session
func (s *flashService) SetCeilings(ctx context.Context, session *auth.Session, req dto.SetCeilingsRequest) (*dto.CeilingsResponse, error) {
	if !session.CanEditPolicyDirectly() {
		return nil, ierr.NewError("caller is not a manager").
			WithHint("Only managers may edit ceilings").
			Mark(ierr.ErrPermissionDenied)
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	for tier, percent := range req.Ceilings {
		if err := session.Store.SetManagerOverride(tier, percent.Div(hundred)); err != nil {
			return nil, err
		}
	}

	s.Logger.Infow("ceilings edited",
		"edited_by", session.Identity,
		"tiers", len(req.Ceilings))

	return s.GetCeilings(ctx, session)
}

// GetCeilings reports base and active ceilings for every tier. Readable by
// any role; only editing is gated.
func (s *flashService) GetCeilings(ctx context.Context, session *auth.Session) (*dto.CeilingsResponse, error) {
	now := time.Now()

	resp := &dto.CeilingsResponse{}
	for _, tier := range types.Tiers() {
		base, err := policy.BaseCeiling(tier)
		if err != nil {
			return nil, err
		}
		active, err := session.Store.GetActiveCeiling(tier, now)
		if err != nil {
			return nil, err
		}

		resp.Ceilings = append(resp.Ceilings, dto.TierCeiling{
			Tier:        tier,
			TierDisplay: tier.DisplayName(),
			Base:        base,
			Active:      active,
			Overridden:  !active.Equal(base),
		})
	}

	return resp, nil
}

// ResetCeilings drops all overrides for the session
func (s *flashService) ResetCeilings(ctx context.Context, session *auth.Session) (*dto.CeilingsResponse, error) {
	if !session.CanEditPolicyDirectly() {
		return nil, ierr.NewError("caller is not a manager").
			WithHint("Only managers may reset ceilings").
			Mark(ierr.ErrPermissionDenied)
	}

	session.Store.ResetToBase()
	return s.GetCeilings(ctx, session)
}

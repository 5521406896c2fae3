package auth

import (
	"context"
	"time"

	"github.com/Ceefunky/calculadora-retencion/internal/domain/policy"
	"github.com/Ceefunky/calculadora-retencion/internal/flash"
	"github.com/Ceefunky/calculadora-retencion/internal/types"
	"github.com/samber/lo"
)

// ResolveRole derives the caller's role from an identity claim matched
// against the manager allow-list. An absent identity is an ordinary agent.
func ResolveRole(identity string, allowlist []string) types.Role {
	if identity != "" && lo.Contains(allowlist, identity) {
		return types.RoleManager
	}
	return types.RoleAgent
}

// UnlockWithPasscode reports whether the candidate passcode grants manager
// role. An empty configured passcode disables the unlock entirely. This is a
// plain comparison: the passcode is a low-sensitivity local unlock, unlike
// the token signature which is compared in constant time.
func UnlockWithPasscode(candidate, configured string) bool {
	return configured != "" && candidate == configured
}

// Session is the per-request caller state: the resolved role and the ceiling
// override slots. It is built once by the session middleware and passed
// explicitly; components never read ambient globals.
type Session struct {
	Identity string
	Role     types.Role
	Store    *policy.Store

	// TokenWarning carries the rejection reason of an incoming flash token.
	// A bad token never fails the request; quotes proceed on base ceilings
	// with the warning echoed in the response.
	TokenWarning string
}

// NewSession resolves the caller's role and starts from base ceilings
func NewSession(identity string, allowlist []string) *Session {
	return &Session{
		Identity: identity,
		Role:     ResolveRole(identity, allowlist),
		Store:    policy.NewStore(),
	}
}

// CanEditPolicyDirectly reports whether the caller may edit ceilings without
// a token. Managers only.
func (s *Session) CanEditPolicyDirectly() bool {
	return s.Role.IsManager()
}

// Unlock upgrades the session to manager role after a successful passcode
// check. There is no downgrade path within a session.
func (s *Session) Unlock() {
	s.Role = types.RoleManager
}

// ApplyIncomingToken verifies a flash token and, on success, installs its
// ceiling grants into the session's token override slot. The slot is distinct
// from the manager's direct-edit slot and loses to it. Verification failures
// are returned for the caller to surface as a warning; they never abort the
// session.
func (s *Session) ApplyIncomingToken(codec *flash.Codec, token string, now time.Time) error {
	payload, err := codec.Verify(token, now)
	if err != nil {
		return err
	}
	return s.Store.SetTokenOverrides(payload.Overrides, payload.ExpiresAt())
}

// WithSession stores the session in the request context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, types.CtxSession, s)
}

// SessionFromContext returns the session installed by the middleware. A
// missing session degrades to an anonymous agent rather than panicking.
func SessionFromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(types.CtxSession).(*Session); ok {
		return s
	}
	return NewSession("", nil)
}

package types

import (
	"context"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID ContextKey = "ctx_request_id"
	CtxIdentity  ContextKey = "ctx_identity"
	CtxSession   ContextKey = "ctx_session"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderIdentity  = "X-User-Email"
	HeaderPasscode  = "X-Admin-Passcode"
)

// QueryFlashToken is the link parameter carrying a flash token.
const QueryFlashToken = "flash"

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

// GetIdentity returns the caller identity (email) resolved by the session
// middleware, or empty for anonymous callers.
func GetIdentity(ctx context.Context) string {
	if identity, ok := ctx.Value(CtxIdentity).(string); ok {
		return identity
	}
	return ""
}

// SetIdentity sets the caller identity in the context
func SetIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, CtxIdentity, identity)
}

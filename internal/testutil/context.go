package testutil

import (
	"context"

	"github.com/Ceefunky/calculadora-retencion/internal/types"
	"github.com/google/uuid"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxRequestID, uuid.New().String())
	return ctx
}

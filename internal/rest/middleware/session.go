package middleware

import (
	"time"

	"github.com/Ceefunky/calculadora-retencion/internal/auth"
	"github.com/Ceefunky/calculadora-retencion/internal/config"
	ierr "github.com/Ceefunky/calculadora-retencion/internal/errors"
	"github.com/Ceefunky/calculadora-retencion/internal/flash"
	"github.com/Ceefunky/calculadora-retencion/internal/logger"
	"github.com/Ceefunky/calculadora-retencion/internal/types"
	"github.com/gin-gonic/gin"
)

// SessionMiddleware builds the caller session for every request: role from
// the identity header matched against the manager allow-list (or a passcode
// header), plus any ceiling grants carried by the ?flash= link parameter.
// A rejected token or passcode never aborts the request; quotes simply run
// on base ceilings with the rejection surfaced as a warning.
func SessionMiddleware(cfg *config.Configuration, codec *flash.Codec, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := c.GetHeader(types.HeaderIdentity)
		session := auth.NewSession(identity, cfg.Auth.Admins)

		if passcode := c.GetHeader(types.HeaderPasscode); passcode != "" && !session.Role.IsManager() {
			if auth.UnlockWithPasscode(passcode, cfg.Auth.AdminPasscode) {
				session.Unlock()
			} else {
				log.Warnw("rejected admin passcode", "identity", identity)
			}
		}

		if token := c.Query(types.QueryFlashToken); token != "" {
			if err := session.ApplyIncomingToken(codec, token, time.Now()); err != nil {
				log.Warnw("rejected flash token", "identity", identity, "error", err)
				session.TokenWarning = tokenWarning(err)
			}
		}

		ctx := auth.WithSession(c.Request.Context(), session)
		ctx = types.SetIdentity(ctx, identity)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func tokenWarning(err error) string {
	switch {
	case ierr.Is(err, ierr.ErrTokenExpired):
		return "flash link expired; using base ceilings"
	case ierr.Is(err, ierr.ErrTokenBadSignature):
		return "flash link signature is invalid; using base ceilings"
	default:
		return "flash link is malformed; using base ceilings"
	}
}

package v1

import (
	"net/http"

	"github.com/Ceefunky/calculadora-retencion/internal/api/dto"
	"github.com/Ceefunky/calculadora-retencion/internal/auth"
	"github.com/Ceefunky/calculadora-retencion/internal/config"
	ierr "github.com/Ceefunky/calculadora-retencion/internal/errors"
	"github.com/Ceefunky/calculadora-retencion/internal/logger"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	cfg    *config.Configuration
	logger *logger.Logger
}

func NewSessionHandler(cfg *config.Configuration, logger *logger.Logger) *SessionHandler {
	return &SessionHandler{
		cfg:    cfg,
		logger: logger,
	}
}

// @Summary Unlock manager role
// @Description Validate the admin passcode; subsequent requests carry it in the X-Admin-Passcode header
// @Tags Session
// @Accept json
// @Produce json
// @Param unlock body dto.UnlockRequest true "Passcode"
// @Success 200 {object} dto.SessionResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /session/unlock [post]
func (h *SessionHandler) Unlock(c *gin.Context) {
	var req dto.UnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	session := auth.SessionFromContext(c.Request.Context())

	if !auth.UnlockWithPasscode(req.Passcode, h.cfg.Auth.AdminPasscode) {
		h.logger.Warnw("rejected unlock attempt", "identity", session.Identity)
		c.Error(ierr.NewError("invalid passcode").
			WithHint("The passcode did not match").
			Mark(ierr.ErrPermissionDenied))
		return
	}

	session.Unlock()

	c.JSON(http.StatusOK, &dto.SessionResponse{
		Identity: session.Identity,
		Role:     session.Role,
	})
}

// @Summary Current session
// @Description Identity and role resolved for this request
// @Tags Session
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Router /session [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	session := auth.SessionFromContext(c.Request.Context())

	c.JSON(http.StatusOK, &dto.SessionResponse{
		Identity: session.Identity,
		Role:     session.Role,
	})
}

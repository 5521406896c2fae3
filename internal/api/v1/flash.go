package v1

import (
	"net/http"

	"github.com/Ceefunky/calculadora-retencion/internal/api/dto"
	"github.com/Ceefunky/calculadora-retencion/internal/auth"
	ierr "github.com/Ceefunky/calculadora-retencion/internal/errors"
	"github.com/Ceefunky/calculadora-retencion/internal/logger"
	"github.com/Ceefunky/calculadora-retencion/internal/service"
	"github.com/gin-gonic/gin"
)

type FlashHandler struct {
	service service.FlashService
	logger  *logger.Logger
}

func NewFlashHandler(service service.FlashService, logger *logger.Logger) *FlashHandler {
	return &FlashHandler{
		service: service,
		logger:  logger,
	}
}

// @Summary Mint a flash token
// @Description Issue a signed, expiring capability granting relaxed discount ceilings
// @Tags Flash
// @Accept json
// @Produce json
// @Param token body dto.MintFlashTokenRequest true "Grant to mint"
// @Success 201 {object} dto.MintFlashTokenResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /flash/tokens [post]
func (h *FlashHandler) MintToken(c *gin.Context) {
	var req dto.MintFlashTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	session := auth.SessionFromContext(c.Request.Context())

	resp, err := h.service.MintToken(c.Request.Context(), session, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Set discount ceilings
// @Description Directly override ceilings for the caller's session (manager only)
// @Tags Policy
// @Accept json
// @Produce json
// @Param ceilings body dto.SetCeilingsRequest true "Ceilings to set, in percent"
// @Success 200 {object} dto.CeilingsResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /policy/ceilings [put]
func (h *FlashHandler) SetCeilings(c *gin.Context) {
	var req dto.SetCeilingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	session := auth.SessionFromContext(c.Request.Context())

	resp, err := h.service.SetCeilings(c.Request.Context(), session, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get discount ceilings
// @Description List base and active ceilings for the caller's session
// @Tags Policy
// @Produce json
// @Success 200 {object} dto.CeilingsResponse
// @Router /policy/ceilings [get]
func (h *FlashHandler) GetCeilings(c *gin.Context) {
	session := auth.SessionFromContext(c.Request.Context())

	resp, err := h.service.GetCeilings(c.Request.Context(), session)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Reset discount ceilings
// @Description Drop all overrides and return to base ceilings (manager only)
// @Tags Policy
// @Produce json
// @Success 200 {object} dto.CeilingsResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /policy/ceilings [delete]
func (h *FlashHandler) ResetCeilings(c *gin.Context) {
	session := auth.SessionFromContext(c.Request.Context())

	resp, err := h.service.ResetCeilings(c.Request.Context(), session)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

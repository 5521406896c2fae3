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

type QuoteHandler struct {
	service service.QuoteService
	logger  *logger.Logger
}

func NewQuoteHandler(service service.QuoteService, logger *logger.Logger) *QuoteHandler {
	return &QuoteHandler{
		service: service,
		logger:  logger,
	}
}

// @Summary Compute a quote
// @Description Compute a discounted CLP quote from UF inputs under the caller's active ceilings
// @Tags Quotes
// @Accept json
// @Produce json
// @Param quote body dto.CreateQuoteRequest true "Quote inputs"
// @Param flash query string false "Flash token granting relaxed ceilings"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /quotes [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req dto.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	session := auth.SessionFromContext(c.Request.Context())

	resp, err := h.service.Compute(c.Request.Context(), session, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

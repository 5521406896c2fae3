package v1

import (
	"net/http"

	"github.com/Ceefunky/calculadora-retencion/internal/api/dto"
	"github.com/Ceefunky/calculadora-retencion/internal/domain/indicator"
	"github.com/Ceefunky/calculadora-retencion/internal/logger"
	"github.com/Ceefunky/calculadora-retencion/internal/types"
	"github.com/gin-gonic/gin"
)

type RateHandler struct {
	provider indicator.Provider
	logger   *logger.Logger
}

func NewRateHandler(provider indicator.Provider, logger *logger.Logger) *RateHandler {
	return &RateHandler{
		provider: provider,
		logger:   logger,
	}
}

// @Summary Current UF rate
// @Description UF value in CLP with provenance, cached for the configured TTL
// @Tags Rates
// @Produce json
// @Success 200 {object} dto.RateResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /rates/uf [get]
func (h *RateHandler) GetUFRate(c *gin.Context) {
	rate, err := h.provider.CurrentUFRate(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.RateResponse{
		Value:      rate.Value,
		Formatted:  types.FormatCLP(rate.Value),
		Provenance: rate.Provenance,
		AsOf:       rate.AsOf,
	})
}

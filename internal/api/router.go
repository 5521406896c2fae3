package api

import (
	v1 "github.com/Ceefunky/calculadora-retencion/internal/api/v1"
	"github.com/Ceefunky/calculadora-retencion/internal/config"
	"github.com/Ceefunky/calculadora-retencion/internal/flash"
	"github.com/Ceefunky/calculadora-retencion/internal/logger"
	"github.com/Ceefunky/calculadora-retencion/internal/rest/middleware"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health  *v1.HealthHandler
	Quote   *v1.QuoteHandler
	Flash   *v1.FlashHandler
	Session *v1.SessionHandler
	Rate    *v1.RateHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, codec *flash.Codec, logger *logger.Logger) *gin.Engine {
	router := gin.Default()

	router.Use(
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.ErrorHandler(),
		middleware.SessionMiddleware(cfg, codec, logger),
	)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	router.GET("/health", handlers.Health.Health)

	// Quote routes
	quotes := router.Group("/quotes")
	{
		quotes.POST("", handlers.Quote.CreateQuote)
	}

	// Flash token routes
	flashGroup := router.Group("/flash")
	{
		flashGroup.POST("/tokens", handlers.Flash.MintToken)
	}

	// Policy routes
	policy := router.Group("/policy")
	{
		policy.GET("/ceilings", handlers.Flash.GetCeilings)
		policy.PUT("/ceilings", handlers.Flash.SetCeilings)
		policy.DELETE("/ceilings", handlers.Flash.ResetCeilings)
	}

	// Session routes
	session := router.Group("/session")
	{
		session.GET("", handlers.Session.GetSession)
		session.POST("/unlock", handlers.Session.Unlock)
	}

	// Rate routes
	rates := router.Group("/rates")
	{
		rates.GET("/uf", handlers.Rate.GetUFRate)
	}
}

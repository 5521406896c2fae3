package service

import (
	"github.com/Ceefunky/calculadora-retencion/internal/config"
	"github.com/Ceefunky/calculadora-retencion/internal/domain/indicator"
	"github.com/Ceefunky/calculadora-retencion/internal/flash"
	"github.com/Ceefunky/calculadora-retencion/internal/logger"
)

// ServiceParams bundles common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	// Providers
	RateProvider indicator.Provider

	// Token codec
	Codec *flash.Codec
}

// NewServiceParams creates a new ServiceParams instance with all dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	rateProvider indicator.Provider,
	codec *flash.Codec,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		RateProvider: rateProvider,
		Codec:        codec,
	}
}

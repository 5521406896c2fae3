package main

import (
	"context"
	"time"

	"github.com/Ceefunky/calculadora-retencion/internal/api"
	v1 "github.com/Ceefunky/calculadora-retencion/internal/api/v1"
	"github.com/Ceefunky/calculadora-retencion/internal/cache"
	"github.com/Ceefunky/calculadora-retencion/internal/config"
	"github.com/Ceefunky/calculadora-retencion/internal/domain/indicator"
	"github.com/Ceefunky/calculadora-retencion/internal/flash"
	"github.com/Ceefunky/calculadora-retencion/internal/httpclient"
	"github.com/Ceefunky/calculadora-retencion/internal/logger"
	"github.com/Ceefunky/calculadora-retencion/internal/repository/mindicador"
	"github.com/Ceefunky/calculadora-retencion/internal/service"
	"github.com/Ceefunky/calculadora-retencion/internal/validator"
	"github.com/gin-gonic/gin"
	playvalidator "github.com/go-playground/validator/v10"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(appOptions()...)
	app.Run()
}

func appOptions() []fx.Option {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// HTTP Client
			httpclient.NewDefaultClient,

			// Token codec
			provideCodec,

			// Rate provider
			provideRateProvider,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewQuoteService,
			service.NewFlashService,
		),
	)

	// API layer
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		// dto validation goes through the package-level validator, which only
		// exists once its constructor has run; force it eagerly
		fx.Invoke(initValidator),
		fx.Invoke(startServer),
	)

	return opts
}

func initValidator(_ *playvalidator.Validate) {}

func provideCodec(cfg *config.Configuration) (*flash.Codec, error) {
	return flash.NewCodec([]byte(cfg.Secrets.SigningKey))
}

func provideRateProvider(
	cfg *config.Configuration,
	client httpclient.Client,
	cache cache.Cache,
	log *logger.Logger,
) indicator.Provider {
	return mindicador.NewClient(cfg, client, cache, log)
}

func provideHandlers(
	cfg *config.Configuration,
	log *logger.Logger,
	quoteService service.QuoteService,
	flashService service.FlashService,
	rateProvider indicator.Provider,
) api.Handlers {
	return api.Handlers{
		Health:  v1.NewHealthHandler(log),
		Quote:   v1.NewQuoteHandler(quoteService, log),
		Flash:   v1.NewFlashHandler(flashService, log),
		Session: v1.NewSessionHandler(cfg, log),
		Rate:    v1.NewRateHandler(rateProvider, log),
	}
}

func provideRouter(
	handlers api.Handlers,
	cfg *config.Configuration,
	codec *flash.Codec,
	log *logger.Logger,
) *gin.Engine {
	return api.NewRouter(handlers, cfg, codec, log)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infof("Starting API server at %s", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}

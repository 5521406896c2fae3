package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ceefunky/calculadora-retencion/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// DefaultSigningKey is the compiled-in development signing key. Starting in
// prod mode with this key still configured is a configuration error.
const DefaultSigningKey = "dev-only-flash-signing-key-do-not-ship"

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Auth       AuthConfig
	Secrets    SecretsConfig `validate:"required"`
	Indicator  IndicatorConfig
	Pricing    PricingConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

// AuthConfig holds the manager allow-list and the optional unlock passcode.
// Both are read once at startup and never mutated at runtime.
type AuthConfig struct {
	// Admins is the list of identities (emails) granted manager role
	Admins []string
	// AdminPasscode optionally unlocks manager role for the session when
	// matched exactly. Empty disables passcode unlock.
	AdminPasscode string
}

type SecretsConfig struct {
	// SigningKey signs flash capability tokens. It is the sole security
	// boundary of the token scheme.
	SigningKey string `validate:"required"`
}

// IndicatorConfig configures the external UF rate provider
type IndicatorConfig struct {
	BaseURL      string
	FetchTimeout time.Duration
	CacheTTL     time.Duration
}

// PricingConfig parameterizes the discount engine across the app variants:
// tax-inclusive vs tax-exclusive subtotals and amount vs percentage discount
// entry.
type PricingConfig struct {
	// TaxRate is the IVA fraction applied on top of the net amount.
	// Zero means the subtotal is tax-exclusive.
	TaxRate decimal.Decimal
	// DiscountEntry selects how discounts are entered: amount | percentage
	DiscountEntry types.DiscountEntryMode
}

func NewConfig() (*Configuration, error) {
	// Local development keys live in a .env file; absence is fine
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/calculadora-retencion")

	v.SetEnvPrefix("RETENCION")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	// decimal.Decimal and time.Duration fields arrive as strings
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := v.Unmarshal(&config, decodeHook); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.ModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("secrets.signingkey", DefaultSigningKey)
	v.SetDefault("indicator.baseurl", "https://mindicador.cl")
	v.SetDefault("indicator.fetchtimeout", "10s")
	v.SetDefault("indicator.cachettl", "1h")
	v.SetDefault("pricing.discountentry", string(types.DiscountEntryAmount))
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	if !c.Pricing.DiscountEntry.Validate() {
		return fmt.Errorf("invalid discount entry mode: %s", c.Pricing.DiscountEntry)
	}

	// The default key is fine for local development but never in prod:
	// token forgery resistance rests entirely on key secrecy.
	if c.Deployment.Mode == types.ModeProd && c.Secrets.SigningKey == DefaultSigningKey {
		return fmt.Errorf("secrets.signingkey must be set in prod mode; refusing to run with the default key")
	}

	if c.Pricing.TaxRate.IsNegative() || c.Pricing.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("pricing.taxrate must be a fraction in [0, 1)")
	}

	return nil
}

// GetDefaultConfig returns a default configuration for local development and
// tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelInfo},
		Secrets:    SecretsConfig{SigningKey: DefaultSigningKey},
		Indicator: IndicatorConfig{
			BaseURL:      "https://mindicador.cl",
			FetchTimeout: 10 * time.Second,
			CacheTTL:     time.Hour,
		},
		Pricing: PricingConfig{
			DiscountEntry: types.DiscountEntryAmount,
		},
	}
}

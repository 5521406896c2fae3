package types

type RunMode string

const (
	// ModeLocal is the mode for running the API server locally
	ModeLocal RunMode = "local"
	// ModeProd is the mode for production deployments. Production mode
	// refuses to start with the compiled-in default signing secret.
	ModeProd RunMode = "prod"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	Email     EmailConfig     `mapstructure:"email"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// MaintenanceMode rejects every mutating request with 503 while enabled.
	MaintenanceMode        bool `mapstructure:"maintenance_mode"`
	ShutdownTimeoutSeconds int  `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url"            validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gt=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"           validate:"required,min=32"`
	TokenLifetimeHours int    `mapstructure:"token_lifetime_hours" validate:"gt=0"`
	BcryptCost         int    `mapstructure:"bcrypt_cost"          validate:"gte=4,lte=31"`
}

// EmailConfig contains outbound mail settings. An empty APIKey disables mail.
type EmailConfig struct {
	APIKey   string `mapstructure:"api_key"`
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port" validate:"gte=0,lt=65536"`
	SMTPUser string `mapstructure:"smtp_user"`
	From     string `mapstructure:"from"      validate:"omitempty,email"`
}

// Enabled reports whether outbound mail has credentials to work with.
func (c EmailConfig) Enabled() bool {
	return c.APIKey != "" && c.SMTPHost != "" && c.From != ""
}

// TelemetryConfig controls optional OpenTelemetry trace export.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint" validate:"omitempty,url"`
	ServiceName  string `mapstructure:"service_name"`
}

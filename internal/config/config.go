// Package config loads the service settings from an optional YAML file and
// QIYAS_ environment variables.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig contains the HTTP listener and logging settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat       string        `mapstructure:"log_format" validate:"oneof=json text"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// StorageConfig selects the repository backend. DSN is a file path for
// sqlite and a connection string for postgres.
type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=memory sqlite postgres"`
	DSN    string `mapstructure:"dsn" validate:"required_unless=Driver memory"`
}

// AuthConfig contains session and single sign-on settings.
type AuthConfig struct {
	Disabled      bool          `mapstructure:"disabled"`
	SessionTTL    time.Duration `mapstructure:"session_ttl" validate:"gt=0"`
	PurgeInterval time.Duration `mapstructure:"purge_interval" validate:"gte=0"`
	OIDC          OIDCConfig    `mapstructure:"oidc"`
}

// OIDCConfig is either fully set or empty.
type OIDCConfig struct {
	IssuerURL    string `mapstructure:"issuer_url" validate:"required_with=ClientID ClientSecret RedirectURL,omitempty,url"`
	ClientID     string `mapstructure:"client_id" validate:"required_with=IssuerURL"`
	ClientSecret string `mapstructure:"client_secret" validate:"required_with=IssuerURL"`
	RedirectURL  string `mapstructure:"redirect_url" validate:"required_with=IssuerURL,omitempty,url"`
}

// Enabled reports whether single sign-on is configured.
func (c OIDCConfig) Enabled() bool { return c.IssuerURL != "" }

// MetricsConfig holds the defaults of the derived-metric views.
type MetricsConfig struct {
	BodyFatFormula  string `mapstructure:"body_fat_formula" validate:"oneof=navy-log navy-density"`
	TrendWindowDays int    `mapstructure:"trend_window_days" validate:"gte=1,lte=366"`
	HistoryLimit    int    `mapstructure:"history_limit" validate:"gte=0"`
	// DefaultUnit is stamped on new records that do not name a unit.
	DefaultUnit string `mapstructure:"default_unit" validate:"oneof=cm in"`
}

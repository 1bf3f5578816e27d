package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. QIYAS_SERVER_PORT.
const EnvPrefix = "QIYAS"

var defaults = map[string]any{
	"server.port":             8080,
	"server.log_level":        "info",
	"server.log_format":       "json",
	"server.shutdown_timeout": "10s",

	"storage.driver": "memory",
	"storage.dsn":    "",

	"auth.disabled":           false,
	"auth.session_ttl":        "24h",
	"auth.purge_interval":     "1h",
	"auth.oidc.issuer_url":    "",
	"auth.oidc.client_id":     "",
	"auth.oidc.client_secret": "",
	"auth.oidc.redirect_url":  "",

	"metrics.body_fat_formula":  "navy-log",
	"metrics.trend_window_days": 7,
	"metrics.history_limit":     7,
	"metrics.default_unit":      "cm",
}

// Load reads configuration from file, or from qiyas.yaml in the working
// directory or /etc/qiyas when file is empty, then applies environment
// overrides. A missing default file is not an error; a missing explicit
// file is.
func Load(file string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("qiyas")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/qiyas")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Metrics.BodyFatFormula = strings.ToLower(strings.TrimSpace(cfg.Metrics.BodyFatFormula))
	cfg.Metrics.DefaultUnit = strings.ToLower(strings.TrimSpace(cfg.Metrics.DefaultUnit))
	cfg.Server.LogLevel = strings.ToLower(strings.TrimSpace(cfg.Server.LogLevel))

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Package config loads application settings from config.yaml, FREIGHT_*
// environment variables and built-in defaults.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Engine   EngineConfig   `yaml:"engine" mapstructure:"engine"`
	Forecast ForecastConfig `yaml:"forecast" mapstructure:"forecast"`
	Catalog  CatalogConfig  `yaml:"catalog" mapstructure:"catalog"`
	Import   ImportConfig   `yaml:"import" mapstructure:"import"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the JSON feed.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
	CORSOrigins    []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// EngineConfig configures reconciliation.
type EngineConfig struct {
	DispatchPrefix      string   `yaml:"dispatch_prefix" mapstructure:"dispatch_prefix"`
	CancelStatus        int      `yaml:"cancel_status" mapstructure:"cancel_status"`
	PlaceholderPrefixes []string `yaml:"placeholder_prefixes" mapstructure:"placeholder_prefixes"`
	FleetModes          []string `yaml:"fleet_modes" mapstructure:"fleet_modes"`
	Services            []string `yaml:"services" mapstructure:"services"`
	LateThresholdHours  float64  `yaml:"late_threshold_hours" mapstructure:"late_threshold_hours"`
	Timezone            string   `yaml:"timezone" mapstructure:"timezone"`
	Workers             int      `yaml:"workers" mapstructure:"workers"`
}

// LateThreshold returns the late cutoff as a duration.
func (e EngineConfig) LateThreshold() time.Duration {
	return time.Duration(e.LateThresholdHours * float64(time.Hour))
}

// ForecastConfig selects and tunes the forecaster.
type ForecastConfig struct {
	Algorithm string  `yaml:"algorithm" mapstructure:"algorithm"`
	Months    int     `yaml:"months" mapstructure:"months"`
	MinBase   float64 `yaml:"min_base" mapstructure:"min_base"`
}

// CatalogConfig locates the region catalog. An empty path uses the
// built-in catalog.
type CatalogConfig struct {
	Path  string `yaml:"path" mapstructure:"path"`
	Watch bool   `yaml:"watch" mapstructure:"watch"`
}

// ImportConfig configures tabular input.
type ImportConfig struct {
	Encoding string `yaml:"encoding" mapstructure:"encoding"`
	Sheet    string `yaml:"sheet" mapstructure:"sheet"`
	// FTPRetries is the attempt count for ftp:// inputs.
	FTPRetries int `yaml:"ftp_retries" mapstructure:"ftp_retries"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FREIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "freight.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit_rps", 20)
	v.SetDefault("server.rate_limit_burst", 40)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("engine.dispatch_prefix", "SFR")
	v.SetDefault("engine.cancel_status", 9)
	v.SetDefault("engine.placeholder_prefixes", []string{"-", "YOK"})
	v.SetDefault("engine.fleet_modes", []string{"ÖZMAL", "FİLO", "KİRALIK FİLO"})
	v.SetDefault("engine.services", []string{})
	v.SetDefault("engine.late_threshold_hours", 30)
	v.SetDefault("engine.timezone", "Europe/Istanbul")
	v.SetDefault("engine.workers", 4)
	v.SetDefault("forecast.algorithm", "blended")
	v.SetDefault("forecast.months", 6)
	v.SetDefault("forecast.min_base", 5)
	v.SetDefault("import.encoding", "utf-8")
	v.SetDefault("import.ftp_retries", 3)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. Modes: "engine" for batch
// commands, "store" for commands touching the timestamp book, "serve" for
// the JSON feed.
func (c *Config) Validate(mode string) error {
	var missing []string

	switch mode {
	case "engine":
		missing = c.validateEngine(missing)
	case "store":
		missing = c.validateStore(missing)
	case "serve":
		missing = c.validateEngine(missing)
		missing = c.validateStore(missing)
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			missing = append(missing, "server.port (must be 1-65535)")
		}
		if c.Server.RateLimitRPS < 0 {
			missing = append(missing, "server.rate_limit_rps (must be >= 0)")
		}
	default:
		return eris.Errorf("config: unknown validation mode %q", mode)
	}

	if len(missing) > 0 {
		return eris.Errorf("config: invalid settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) validateEngine(missing []string) []string {
	if strings.TrimSpace(c.Engine.DispatchPrefix) == "" {
		missing = append(missing, "engine.dispatch_prefix")
	}
	if c.Engine.LateThresholdHours <= 0 {
		missing = append(missing, "engine.late_threshold_hours (must be > 0)")
	}
	if c.Engine.Workers < 1 {
		missing = append(missing, "engine.workers (must be >= 1)")
	}
	switch c.Forecast.Algorithm {
	case "blended", "window":
	default:
		missing = append(missing, "forecast.algorithm (blended or window)")
	}
	if c.Forecast.Months < 1 {
		missing = append(missing, "forecast.months (must be >= 1)")
	}
	return missing
}

func (c *Config) validateStore(missing []string) []string {
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		missing = append(missing, "store.driver (sqlite or postgres)")
	}
	if c.Store.DatabaseURL == "" {
		missing = append(missing, "store.database_url")
	}
	return missing
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

// Package config loads gateway configuration from YAML, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	ERP      ERPConfig      `mapstructure:"erp"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Mode            string        `mapstructure:"mode"`
	APITokens       []string      `mapstructure:"api_tokens"`
}

// ERPConfig holds the ERP server connection settings
type ERPConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	APISecret      string        `mapstructure:"api_secret"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	PageLength     int           `mapstructure:"page_length"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// MigrationsDir overrides the embedded migrations when set
	MigrationsDir string `mapstructure:"migrations_dir"`
}

// StorageConfig holds local file storage configuration
type StorageConfig struct {
	ExportDir string `mapstructure:"export_dir"`
}

// AuditConfig controls the request audit trail
type AuditConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Retention       time.Duration `mapstructure:"retention"`
	ExportRetention time.Duration `mapstructure:"export_retention"`
	PruneInterval   time.Duration `mapstructure:"prune_interval"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Address returns the host:port the HTTP server listens on
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load loads configuration from an optional YAML file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvVars(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Server.APITokens = splitTokens(cfg.Server.APITokens)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.api_tokens", []string{})

	// ERP defaults
	v.SetDefault("erp.base_url", "")
	v.SetDefault("erp.api_key", "")
	v.SetDefault("erp.api_secret", "")
	v.SetDefault("erp.timeout", 30*time.Second)
	v.SetDefault("erp.max_concurrency", 8)
	v.SetDefault("erp.page_length", 20)

	// Database defaults
	v.SetDefault("database.path", "data/gateway.db")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", 0)
	v.SetDefault("database.migrations_dir", "")

	// Storage defaults
	v.SetDefault("storage.export_dir", "exports")

	// Audit defaults
	v.SetDefault("audit.enabled", true)
	v.SetDefault("audit.retention", 30*24*time.Hour)
	v.SetDefault("audit.export_retention", 7*24*time.Hour)
	v.SetDefault("audit.prune_interval", time.Hour)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds the credential environment variables
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("erp.base_url", "ERP_BASE_URL")
	_ = v.BindEnv("erp.api_key", "ERP_API_KEY")
	_ = v.BindEnv("erp.api_secret", "ERP_API_SECRET")
	_ = v.BindEnv("server.api_tokens", "GATEWAY_API_TOKENS")
}

// splitTokens flattens comma separated tokens and drops blanks
func splitTokens(raw []string) []string {
	tokens := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, token := range strings.Split(entry, ",") {
			if token = strings.TrimSpace(token); token != "" {
				tokens = append(tokens, token)
			}
		}
	}
	return tokens
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.ERP.BaseURL == "" {
		return fmt.Errorf("erp.base_url is required")
	}
	if c.ERP.MaxConcurrency <= 0 {
		return fmt.Errorf("erp.max_concurrency must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Audit.Enabled && c.Audit.PruneInterval <= 0 {
		return fmt.Errorf("audit.prune_interval must be positive")
	}
	return nil
}

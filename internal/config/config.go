package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Environment string           `mapstructure:"environment"`
	Server      ServerConfig     `mapstructure:"server"`
	Validation  ValidationConfig `mapstructure:"validation"`
	Quality     QualityConfig    `mapstructure:"quality"`
	Redis       RedisConfig      `mapstructure:"redis"`
	Database    DatabaseConfig   `mapstructure:"database"`
	Auth        AuthConfig       `mapstructure:"auth"`
	Monitoring  MonitoringConfig `mapstructure:"monitoring"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	HTTPPort     int `mapstructure:"http_port"`
	GRPCPort     int `mapstructure:"grpc_port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
	IdleTimeout  int `mapstructure:"idle_timeout"`
}

// ValidationConfig represents validation behavior configuration
type ValidationConfig struct {
	StrictMode     bool `mapstructure:"strict_mode"`
	MaxBatchSize   int  `mapstructure:"max_batch_size"`
	IncludeQuality bool `mapstructure:"include_quality"`
}

// QualityConfig represents quality scoring configuration
type QualityConfig struct {
	ReportCacheTTL     time.Duration `mapstructure:"report_cache_ttl"`
	HistoryEnabled     bool          `mapstructure:"history_enabled"`
	HistoryRetention   time.Duration `mapstructure:"history_retention"`
	AnomalyDetection   bool          `mapstructure:"anomaly_detection"`
	MinAcceptableGrade string        `mapstructure:"min_acceptable_grade"`
}

// RedisConfig represents the report cache configuration
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	URL             string `mapstructure:"url"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	Enabled         bool   `mapstructure:"enabled"`
}

// AuthConfig represents API authentication configuration
type AuthConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenDuration time.Duration `mapstructure:"token_duration"`
}

// MonitoringConfig represents monitoring configuration
type MonitoringConfig struct {
	MetricsEnabled  bool   `mapstructure:"metrics_enabled"`
	MetricsPort     int    `mapstructure:"metrics_port"`
	HealthCheckPath string `mapstructure:"health_check_path"`
	LogLevel        string `mapstructure:"log_level"`
}

// Load loads configuration from various sources
func Load() (Config, error) {
	var config Config

	// Set default values
	viper.SetDefault("environment", "development")
	viper.SetDefault("server.http_port", 8080)
	viper.SetDefault("server.grpc_port", 9090)
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)
	viper.SetDefault("server.idle_timeout", 30)

	viper.SetDefault("validation.strict_mode", false)
	viper.SetDefault("validation.max_batch_size", 100)
	viper.SetDefault("validation.include_quality", true)

	viper.SetDefault("quality.report_cache_ttl", "1h")
	viper.SetDefault("quality.history_enabled", false)
	viper.SetDefault("quality.history_retention", "720h") // 30 days
	viper.SetDefault("quality.anomaly_detection", true)
	viper.SetDefault("quality.min_acceptable_grade", "C")

	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.enabled", false)

	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.conn_max_lifetime", 300)
	viper.SetDefault("database.enabled", false)

	viper.SetDefault("auth.enabled", false)
	viper.SetDefault("auth.token_duration", "24h")

	viper.SetDefault("monitoring.metrics_enabled", true)
	viper.SetDefault("monitoring.metrics_port", 9091)
	viper.SetDefault("monitoring.health_check_path", "/health")
	viper.SetDefault("monitoring.log_level", "info")

	// Set configuration sources
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/data-validation")

	// Enable environment variable binding
	viper.AutomaticEnv()
	viper.SetEnvPrefix("DATA_VALIDATION")

	// Read configuration file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return config, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal configuration
	if err := viper.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return config, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validateConfig validates the loaded configuration
func validateConfig(config Config) error {
	if config.Server.HTTPPort <= 0 || config.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", config.Server.HTTPPort)
	}

	if config.Server.GRPCPort <= 0 || config.Server.GRPCPort > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", config.Server.GRPCPort)
	}

	if config.Validation.MaxBatchSize <= 0 {
		return fmt.Errorf("max batch size must be positive")
	}

	if config.Database.Enabled && config.Database.URL == "" {
		return fmt.Errorf("database URL is required when history persistence is enabled")
	}

	if config.Auth.Enabled && config.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required when auth is enabled")
	}

	switch config.Quality.MinAcceptableGrade {
	case "A", "B", "C", "D", "F":
	default:
		return fmt.Errorf("invalid minimum acceptable grade: %s", config.Quality.MinAcceptableGrade)
	}

	return nil
}

// GetDatabaseURL returns the database connection URL with environment variable substitution
func (c *Config) GetDatabaseURL() string {
	return os.ExpandEnv(c.Database.URL)
}

// GetJWTSecret returns the JWT secret with environment variable substitution
func (c *Config) GetJWTSecret() string {
	return os.ExpandEnv(c.Auth.JWTSecret)
}

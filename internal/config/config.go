package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string           `mapstructure:"environment"`
	LogLevel    string           `mapstructure:"log_level"`
	Fetch       FetchConfig      `mapstructure:"fetch"`
	Classifier  ClassifierConfig `mapstructure:"classifier"`
	Dashboard   DashboardConfig  `mapstructure:"dashboard"`
	Analytics   AnalyticsConfig  `mapstructure:"analytics"`
	Pipeline    PipelineConfig   `mapstructure:"pipeline"`
	Telemetry   TelemetryConfig  `mapstructure:"telemetry"`
}

type FetchConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRedirects   int    `mapstructure:"max_redirects"`
	UserAgent      string `mapstructure:"user_agent"`
}

type ClassifierConfig struct {
	SampleSize   int     `mapstructure:"sample_size"`
	NumericRatio float64 `mapstructure:"numeric_ratio"`
}

type DashboardConfig struct {
	MaxKPIColumns int `mapstructure:"max_kpi_columns"`
	TopRowsLimit  int `mapstructure:"top_rows_limit"`
}

type AnalyticsConfig struct {
	AnomalyZThreshold        float64 `mapstructure:"anomaly_z_threshold"`
	CorrelationThreshold     float64 `mapstructure:"correlation_threshold"`
	MinRSquared              float64 `mapstructure:"min_r_squared"`
	AutocorrelationThreshold float64 `mapstructure:"autocorrelation_threshold"`
	MaxForecastColumns       int     `mapstructure:"max_forecast_columns"`
	MaxCorrelationColumns    int     `mapstructure:"max_correlation_columns"`
}

type PipelineConfig struct {
	WorkerPoolSize int `mapstructure:"worker_pool_size"`
}

type TelemetryConfig struct {
	OTLPEnabled    bool   `mapstructure:"otlp_enabled"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	ServiceName    string `mapstructure:"service_name"`
	ServiceVersion string `mapstructure:"service_version"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Normalize environment to lowercase for consistent comparison
	config.Environment = strings.ToLower(config.Environment)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validate(config *Config) error {
	if config.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %d", config.Fetch.TimeoutSeconds)
	}
	if config.Classifier.SampleSize <= 0 {
		return fmt.Errorf("classifier sample size must be positive, got %d", config.Classifier.SampleSize)
	}
	if config.Classifier.NumericRatio <= 0 || config.Classifier.NumericRatio > 1 {
		return fmt.Errorf("classifier numeric ratio must be in (0, 1], got %f", config.Classifier.NumericRatio)
	}
	if config.Analytics.AnomalyZThreshold <= 0 {
		return fmt.Errorf("anomaly z threshold must be positive, got %f", config.Analytics.AnomalyZThreshold)
	}
	if config.Analytics.CorrelationThreshold <= 0 || config.Analytics.CorrelationThreshold > 1 {
		return fmt.Errorf("correlation threshold must be in (0, 1], got %f", config.Analytics.CorrelationThreshold)
	}
	if config.Pipeline.WorkerPoolSize <= 0 {
		return fmt.Errorf("worker pool size must be positive, got %d", config.Pipeline.WorkerPoolSize)
	}
	return nil
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Fetch
	viper.SetDefault("fetch.timeout_seconds", 20)
	viper.SetDefault("fetch.max_redirects", 5)
	viper.SetDefault("fetch.user_agent", "sheetsage-ai/1.0")

	// Classifier
	viper.SetDefault("classifier.sample_size", 20)
	viper.SetDefault("classifier.numeric_ratio", 0.7)

	// Dashboard
	viper.SetDefault("dashboard.max_kpi_columns", 8)
	viper.SetDefault("dashboard.top_rows_limit", 8)

	// Analytics
	viper.SetDefault("analytics.anomaly_z_threshold", 2.0)
	viper.SetDefault("analytics.correlation_threshold", 0.6)
	viper.SetDefault("analytics.min_r_squared", 0.1)
	viper.SetDefault("analytics.autocorrelation_threshold", 0.3)
	viper.SetDefault("analytics.max_forecast_columns", 6)
	viper.SetDefault("analytics.max_correlation_columns", 8)

	// Pipeline
	viper.SetDefault("pipeline.worker_pool_size", 4)

	// Telemetry
	viper.SetDefault("telemetry.otlp_enabled", false)
	viper.SetDefault("telemetry.otlp_endpoint", "http://localhost:4318")
	viper.SetDefault("telemetry.service_name", "sheetsage-ai")
	viper.SetDefault("telemetry.service_version", "1.0.0")
}

// cmd/natiq/config.go
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"

	"github.com/Parhamfakhar1/natiq/internal/evaluation"
	"github.com/Parhamfakhar1/natiq/internal/memory"
	"github.com/Parhamfakhar1/natiq/internal/model"
	"github.com/Parhamfakhar1/natiq/internal/monitoring"
	"github.com/Parhamfakhar1/natiq/pkg/api"
)

type Config struct {
	System  SystemConfig      `yaml:"system"`
	Memory  memory.Config     `yaml:"memory"`
	Scoring evaluation.Config `yaml:"scoring"`
	API     api.Config        `yaml:"api"`
	Metrics monitoring.Config `yaml:"metrics"`
	Logging LoggingConfig     `yaml:"logging"`
}

type SystemConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Mode    string `yaml:"mode" env:"NATIQ_MODE"`
	Debug   bool   `yaml:"debug" env:"NATIQ_DEBUG"`
	// formal یا friendly
	DefaultStyle string `yaml:"default_style" env:"NATIQ_DEFAULT_STYLE"`
}

type LoggingConfig struct {
	Level       string `yaml:"level" env:"NATIQ_LOG_LEVEL"`
	Format      string `yaml:"format" env:"NATIQ_LOG_FORMAT"`
	OutputPath  string `yaml:"output_path" env:"NATIQ_LOG_OUTPUT_PATH"`
	MaxSizeMB   int    `yaml:"max_size_mb" env:"NATIQ_LOG_MAX_SIZE_MB"`
	MaxAgeDays  int    `yaml:"max_age_days" env:"NATIQ_LOG_MAX_AGE_DAYS"`
	Compression bool   `yaml:"compression" env:"NATIQ_LOG_COMPRESSION"`
}

func defaultConfig() Config {
	return Config{
		System: SystemConfig{
			Name:         "Natiq",
			Version:      "1.0.0",
			Mode:         "production",
			DefaultStyle: string(model.StyleFormal),
		},
		Memory:  memory.DefaultConfig(),
		Scoring: evaluation.DefaultConfig(),
		API:     api.DefaultConfig(),
		Metrics: monitoring.DefaultConfig(),
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  100,
			MaxAgeDays: 30,
		},
	}
}

// loadConfig layers the YAML file, then .env, then NATIQ_* environment
// variables over the defaults. A missing file is not an error.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn().Str("path", path).Msg("Configuration file not found, using defaults")
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// نبودن .env طبیعی است
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}
	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	// اعتبارسنجی تنظیمات
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	if config.Logging.Level != "" {
		if _, err := zerolog.ParseLevel(config.Logging.Level); err != nil {
			return fmt.Errorf("invalid logging.level %q", config.Logging.Level)
		}
	}

	switch config.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", config.Logging.Format)
	}

	switch model.Style(config.System.DefaultStyle) {
	case "", model.StyleFormal, model.StyleFriendly:
	default:
		return fmt.Errorf("system.default_style must be formal or friendly, got %q", config.System.DefaultStyle)
	}

	if config.Memory.CompressionLevel < 0 || config.Memory.CompressionLevel > 22 {
		return fmt.Errorf("compression_level must be between 0 and 22")
	}

	if config.Memory.CacheSize < 0 {
		return fmt.Errorf("cache_size cannot be negative")
	}

	if config.Memory.WatchDossier && config.Memory.DossierPath == "" {
		return fmt.Errorf("watch_dossier requires dossier_path")
	}

	if config.Scoring.Jitter < 0 || config.Scoring.Jitter > 0.5 {
		return fmt.Errorf("scoring.jitter must be between 0 and 0.5")
	}

	if config.API.RateLimit < 0 || config.API.RateBurst < 0 {
		return fmt.Errorf("rate_limit and rate_burst cannot be negative")
	}

	if config.API.WebSocketPort < 0 || config.API.WebSocketPort > 65535 {
		return fmt.Errorf("websocket_port out of range")
	}

	return nil
}

func setupLogger() {
	zerolog.TimeFieldFormat = time.RFC3339

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// استفاده از console writer برای توسعه
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	log.Logger = log.Output(output)
}

// configureLogging applies the loaded logging section. The returned closer
// is the rotating log file, nil when logging only to stderr.
func configureLogging(config LoggingConfig, debug bool) io.Closer {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(config.Level); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	var console io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if config.Format == "json" {
		console = os.Stderr
	}

	if config.OutputPath == "" {
		log.Logger = zerolog.New(console).With().Timestamp().Logger()
		return nil
	}

	// فایل لاگ همیشه JSON است
	file := &lumberjack.Logger{
		Filename: config.OutputPath,
		MaxSize:  config.MaxSizeMB,
		MaxAge:   config.MaxAgeDays,
		Compress: config.Compression,
	}
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(console, file)).With().Timestamp().Logger()
	return file
}

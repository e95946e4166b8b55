// Package config provides configuration management for the knowledge engine.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the knowledge engine.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `mapstructure:"server"`
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Metrics contains Prometheus metrics exposure settings.
	Metrics MetricsConfig `mapstructure:"metrics"`
	// PubMed contains NCBI E-utilities client settings.
	PubMed PubMedConfig `mapstructure:"pubmed"`
	// Reputation contains scoring pipeline settings.
	Reputation ReputationConfig `mapstructure:"reputation"`
	// Summarizer contains summarization service settings.
	Summarizer SummarizerConfig `mapstructure:"summarizer"`
	// Translator contains translation service settings.
	Translator TranslatorConfig `mapstructure:"translator"`
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	// Host is the address to bind the server to (default: 0.0.0.0).
	Host string `mapstructure:"host"`
	// HTTPPort is the HTTP server port (default: 8080).
	HTTPPort int `mapstructure:"http_port"`
	// MetricsPort is the metrics server port (default: 9091).
	MetricsPort int `mapstructure:"metrics_port"`
	// ReadTimeout is the maximum duration for reading the request body.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the maximum duration for writing the response.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// IdleTimeout is the maximum duration to keep idle connections open.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// StaticDir is the directory served under /static (default: static).
	StaticDir string `mapstructure:"static_dir"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log format (json, console).
	Format string `mapstructure:"format"`
	// Output is the log output destination (stdout, stderr).
	Output string `mapstructure:"output"`
	// AddSource adds source file and line to log output.
	AddSource bool `mapstructure:"add_source"`
	// TimeFormat is the timestamp format.
	TimeFormat string `mapstructure:"time_format"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	// Enabled enables metrics collection and exposure.
	Enabled bool `mapstructure:"enabled"`
	// Path is the HTTP path for the metrics endpoint.
	Path string `mapstructure:"path"`
}

// PubMedConfig holds NCBI E-utilities client configuration.
type PubMedConfig struct {
	// BaseURL is the E-utilities API base URL.
	BaseURL string `mapstructure:"base_url"`
	// WebBaseURL is the PubMed website base URL, used for the HTML
	// abstract-scrape fallback.
	WebBaseURL string `mapstructure:"web_base_url"`
	// Tool identifies this application to NCBI on every request.
	Tool string `mapstructure:"tool"`
	// Email is the contact address sent alongside Tool. Optional.
	Email string `mapstructure:"email"`
	// APIKey is the NCBI API key for higher rate limits
	// (loaded from SPACEBIO_PUBMED_API_KEY).
	APIKey string `mapstructure:"-"`
	// Timeout bounds every upstream call.
	Timeout time.Duration `mapstructure:"timeout"`
	// RateLimit is the maximum requests per second.
	RateLimit float64 `mapstructure:"rate_limit"`
	// BurstSize is the maximum burst of requests allowed.
	BurstSize int `mapstructure:"burst_size"`
	// MaxResults is the maximum search results returned per query.
	MaxResults int `mapstructure:"max_results"`
}

// ReputationConfig holds scoring pipeline configuration.
type ReputationConfig struct {
	// ReferenceYear is the "current year" used by recency scoring.
	// It is explicit configuration so scoring is deterministic and testable.
	ReferenceYear int `mapstructure:"reference_year"`
	// CitationCap saturates the citation score (values at or above score 100).
	CitationCap int `mapstructure:"citation_cap"`
	// JournalActivityCap saturates the journal-activity score.
	JournalActivityCap int `mapstructure:"journal_activity_cap"`
	// AuthorActivityCap saturates the author-activity score.
	AuthorActivityCap int `mapstructure:"author_activity_cap"`
	// Confidence is the static heuristic-confidence marker returned to callers.
	Confidence int `mapstructure:"confidence"`
}

// SummarizerConfig holds summarization service configuration.
type SummarizerConfig struct {
	// EngineURL is the remote summarization endpoint. Empty disables the
	// remote engine and the extractive fallback answers every request.
	EngineURL string `mapstructure:"engine_url"`
	// Timeout bounds every engine call.
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxChunkChars caps how many characters a single engine chunk may hold.
	MaxChunkChars int `mapstructure:"max_chunk_chars"`
	// FallbackSentences is how many leading sentences the fallback returns.
	FallbackSentences int `mapstructure:"fallback_sentences"`
}

// TranslatorConfig holds translation service configuration.
type TranslatorConfig struct {
	// BaseURL is the translation API endpoint. Empty disables translation;
	// every item then falls back to its original text.
	BaseURL string `mapstructure:"base_url"`
	// Timeout bounds every translation call.
	Timeout time.Duration `mapstructure:"timeout"`
}

// HTTPAddress returns the HTTP server address.
func (c *ServerConfig) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}

// MetricsAddress returns the metrics server address.
func (c *ServerConfig) MetricsAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.MetricsPort)
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("SPACEBIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if present
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/spacebio-knowledge-engine")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use env vars and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Secrets load exclusively from environment variables; the fields use
	// mapstructure:"-" to prevent loading from config files.
	cfg.PubMed.APIKey = os.Getenv("SPACEBIO_PUBMED_API_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.metrics_port", 9091)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.static_dir", "static")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// PubMed defaults
	v.SetDefault("pubmed.base_url", "https://eutils.ncbi.nlm.nih.gov/entrez/eutils")
	v.SetDefault("pubmed.web_base_url", "https://pubmed.ncbi.nlm.nih.gov")
	v.SetDefault("pubmed.tool", "spacebio-ke")
	v.SetDefault("pubmed.email", "")
	v.SetDefault("pubmed.timeout", "12s")
	v.SetDefault("pubmed.rate_limit", 3.0) // NCBI recommends max 3 req/sec without API key
	v.SetDefault("pubmed.burst_size", 3)
	v.SetDefault("pubmed.max_results", 25)

	// Reputation defaults
	v.SetDefault("reputation.reference_year", 2025)
	v.SetDefault("reputation.citation_cap", 200)
	v.SetDefault("reputation.journal_activity_cap", 2000)
	v.SetDefault("reputation.author_activity_cap", 200)
	v.SetDefault("reputation.confidence", 70)

	// Summarizer defaults
	v.SetDefault("summarizer.engine_url", "")
	v.SetDefault("summarizer.timeout", "30s")
	v.SetDefault("summarizer.max_chunk_chars", 1800)
	v.SetDefault("summarizer.fallback_sentences", 3)

	// Translator defaults
	v.SetDefault("translator.base_url", "")
	v.SetDefault("translator.timeout", "12s")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.HTTPPort)
	}
	if c.Server.MetricsPort <= 0 || c.Server.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", c.Server.MetricsPort)
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.PubMed.BaseURL == "" {
		return fmt.Errorf("pubmed base URL is required")
	}
	if c.PubMed.Timeout <= 0 {
		return fmt.Errorf("pubmed timeout must be positive")
	}
	if c.PubMed.RateLimit <= 0 {
		return fmt.Errorf("pubmed rate limit must be positive")
	}

	if c.Reputation.ReferenceYear < 1900 || c.Reputation.ReferenceYear > 2200 {
		return fmt.Errorf("invalid reference year: %d", c.Reputation.ReferenceYear)
	}
	if c.Reputation.CitationCap <= 0 {
		return fmt.Errorf("citation cap must be positive")
	}
	if c.Reputation.JournalActivityCap <= 0 {
		return fmt.Errorf("journal activity cap must be positive")
	}
	if c.Reputation.AuthorActivityCap <= 0 {
		return fmt.Errorf("author activity cap must be positive")
	}

	if c.Summarizer.MaxChunkChars <= 0 {
		return fmt.Errorf("summarizer max chunk chars must be positive")
	}
	if c.Summarizer.FallbackSentences <= 0 {
		return fmt.Errorf("summarizer fallback sentences must be positive")
	}

	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// MatchConfig holds the similarity thresholds and strategy toggles for the
// matching core.
type MatchConfig struct {
	// TitleSimilarityThreshold is the minimum title similarity a
	// candidate must reach, in [0,1] (default 0.85).
	TitleSimilarityThreshold float64 `json:"title_similarity_threshold" yaml:"title_similarity_threshold" mapstructure:"title_similarity_threshold"`

	// AuthorSimilarityThreshold is the minimum author similarity a
	// candidate must reach, in [0,1] (default 0.90).
	AuthorSimilarityThreshold float64 `json:"author_similarity_threshold" yaml:"author_similarity_threshold" mapstructure:"author_similarity_threshold"`

	// TitleOnlySimilarityThreshold overrides the title threshold for the
	// title-only fallback. Zero means derive it: base + 0.10, capped at 1.0.
	TitleOnlySimilarityThreshold float64 `json:"title_only_similarity_threshold,omitempty" yaml:"title_only_similarity_threshold,omitempty" mapstructure:"title_only_similarity_threshold"`

	// DisableStrategies lists strategy names to leave out of the cascade.
	DisableStrategies []string `json:"disable_strategies,omitempty" yaml:"disable_strategies,omitempty" mapstructure:"disable_strategies"`

	// AllowMissingYear lets title-based searches proceed for references
	// without a publication year.
	AllowMissingYear bool `json:"allow_missing_year" yaml:"allow_missing_year" mapstructure:"allow_missing_year"`
}

// DefaultMatchConfig returns the thresholds the matcher ships with.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		TitleSimilarityThreshold:  0.85,
		AuthorSimilarityThreshold: 0.90,
	}
}

// Validate checks threshold bounds.
func (c MatchConfig) Validate() error {
	if v := c.TitleSimilarityThreshold; v < 0.0 || v > 1.0 {
		return fmt.Errorf("title_similarity_threshold must be between 0.0 and 1.0, got %v", v)
	}
	if v := c.AuthorSimilarityThreshold; v < 0.0 || v > 1.0 {
		return fmt.Errorf("author_similarity_threshold must be between 0.0 and 1.0, got %v", v)
	}
	if t := c.TitleOnlySimilarityThreshold; t != 0 && (t < 0.0 || t > 1.0) {
		return fmt.Errorf("title_only_similarity_threshold must be between 0.0 and 1.0, got %v", t)
	}
	return nil
}

// EffectiveTitleOnlyThreshold returns the threshold the title-only
// fallback uses: the explicit override when set, otherwise the base title
// threshold raised by 0.10 and capped at 1.0.
func (c MatchConfig) EffectiveTitleOnlyThreshold() float64 {
	if c.TitleOnlySimilarityThreshold > 0 {
		return c.TitleOnlySimilarityThreshold
	}
	t := c.TitleSimilarityThreshold + 0.10
	if t > 1.0 {
		t = 1.0
	}
	return t
}

// OpenAlexConfig holds connection, retry and politeness settings for the
// OpenAlex adapter.
type OpenAlexConfig struct {
	// Email is sent as the mailto parameter for polite pool access.
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`

	// UserAgent is the User-Agent header sent with requests
	// (e.g. "refmatch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// MaxRetries is the number of retry attempts on retryable HTTP
	// statuses (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// RetryBackoff is the base delay for exponential backoff between
	// retries (default 500ms).
	RetryBackoff time.Duration `json:"retry_backoff" yaml:"retry_backoff" mapstructure:"retry_backoff"`

	// RetryStatusCodes lists HTTP statuses that trigger a retry
	// (default 429, 500, 503).
	RetryStatusCodes []int `json:"retry_status_codes,omitempty" yaml:"retry_status_codes,omitempty" mapstructure:"retry_status_codes"`

	// RateLimit is the maximum request rate in requests per second
	// (default 10).
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`

	// CachePath is the path of a SQLite file used to cache lookups
	// between runs. Empty disables caching.
	CachePath string `json:"cache_path,omitempty" yaml:"cache_path,omitempty" mapstructure:"cache_path"`

	// CacheTTL expires cached lookups older than this age. Zero keeps
	// entries forever.
	CacheTTL time.Duration `json:"cache_ttl,omitempty" yaml:"cache_ttl,omitempty" mapstructure:"cache_ttl"`
}

// DefaultOpenAlexConfig returns the adapter defaults.
func DefaultOpenAlexConfig() OpenAlexConfig {
	return OpenAlexConfig{
		UserAgent:        "refmatch/0.1",
		Timeout:          30 * time.Second,
		MaxRetries:       3,
		RetryBackoff:     500 * time.Millisecond,
		RetryStatusCodes: []int{429, 500, 503},
		RateLimit:        10,
	}
}

// LoggingConfig holds structured-logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is the output format: "json" or "console".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all settings for the refmatch CLI.
type Config struct {
	Match    MatchConfig    `json:"match" yaml:"match" mapstructure:"match"`
	OpenAlex OpenAlexConfig `json:"openalex" yaml:"openalex" mapstructure:"openalex"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// DefaultConfig returns the full default configuration.
func DefaultConfig() Config {
	return Config{
		Match:    DefaultMatchConfig(),
		OpenAlex: DefaultOpenAlexConfig(),
		Logging:  LoggingConfig{Level: "info", Format: "console"},
	}
}

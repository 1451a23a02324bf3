// Package config loads VacAI configuration: TOML files merged in
// precedence order (system, then user, then project), overridden by
// VACAI_* environment variables.
package config

import "fmt"

// Config is the root configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
	Sources  []SourceConfig `mapstructure:"sources"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Profile  ProfileConfig  `mapstructure:"profile"`
	Report   ReportConfig   `mapstructure:"report"`
	Cleanup  CleanupConfig  `mapstructure:"cleanup"`
}

// DatabaseConfig configures the SQLite record store
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// OpenAIConfig configures the scoring model client
type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// ScoringConfig configures the scoring orchestrator
type ScoringConfig struct {
	Workers        int     `mapstructure:"workers"`
	MaxJobsPerRun  int     `mapstructure:"max_jobs_per_run"`
	CallsPerMinute int     `mapstructure:"calls_per_minute"`
	DailyBudgetUSD float64 `mapstructure:"daily_budget_usd"`
	MaxRetries     int     `mapstructure:"max_retries"`
}

// SourceConfig configures one job feed
type SourceConfig struct {
	Name              string  `mapstructure:"name"`
	Endpoint          string  `mapstructure:"endpoint"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	MaxPages          int     `mapstructure:"max_pages"`
}

// TelegramConfig configures report delivery
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// ProfileConfig configures the candidate profile location
type ProfileConfig struct {
	Path       string `mapstructure:"path"`
	ResumePath string `mapstructure:"resume_path"`
}

// ReportConfig configures report defaults
type ReportConfig struct {
	MinScore    int `mapstructure:"min_score"`
	WindowHours int `mapstructure:"window_hours"`
	Limit       int `mapstructure:"limit"`
}

// CleanupConfig configures retention defaults
type CleanupConfig struct {
	OlderThanDays    int `mapstructure:"older_than_days"`
	MinScore         int `mapstructure:"min_score"`
	StalePendingDays int `mapstructure:"stale_pending_days"` // 0 = stale-pending cleanup disabled
}

// String returns a short representation, omitting secrets
func (c *Config) String() string {
	return fmt.Sprintf("Config{Database: %s, Model: %s, Sources: %d, Telegram: %t}",
		c.Database.Path, c.OpenAI.Model, len(c.Sources), c.Telegram.Enabled)
}

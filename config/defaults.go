package config

import (
	"os"

	"github.com/spf13/viper"
)

// DefaultDirPermissions for the ~/.vacai directory
const DefaultDirPermissions = os.FileMode(0o755)

// SetDefaults configures default values for all options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "vacai.db")

	v.SetDefault("openai.model", "gpt-4o-mini") // Cost-effective default
	v.SetDefault("openai.temperature", 0.2)     // Deterministic
	v.SetDefault("openai.max_tokens", 1000)

	v.SetDefault("scoring.workers", 2)
	v.SetDefault("scoring.max_jobs_per_run", 50)
	v.SetDefault("scoring.calls_per_minute", 20)
	v.SetDefault("scoring.daily_budget_usd", 3.0)
	v.SetDefault("scoring.max_retries", 3)

	v.SetDefault("telegram.enabled", false)

	v.SetDefault("profile.path", "") // empty = ~/.vacai/profile.json
	v.SetDefault("profile.resume_path", "")

	v.SetDefault("report.min_score", 60)
	v.SetDefault("report.window_hours", 24)
	v.SetDefault("report.limit", 10)

	v.SetDefault("cleanup.older_than_days", 30)
	v.SetDefault("cleanup.min_score", 60)
	v.SetDefault("cleanup.stale_pending_days", 0) // disabled unless opted in
}

// BindSensitiveEnvVars explicitly binds secrets to environment variables.
// The bare names (OPENAI_API_KEY etc.) are what a .env file typically
// carries; the VACAI_-prefixed ones win when both are set.
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("openai.api_key", "VACAI_OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("telegram.bot_token", "VACAI_TELEGRAM_BOT_TOKEN", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", "VACAI_TELEGRAM_CHAT_ID", "TELEGRAM_CHAT_ID")
	v.BindEnv("database.path", "VACAI_DATABASE_PATH")
}

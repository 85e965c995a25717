package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the configuration for the application. Both binaries (API
// server and Telegram bot) share it.
type Config struct {
	Port         int
	DatabasePath string
	LogLevel     string

	// RedisAddr selects the Redis check-state store when set; the
	// SQLite store is used otherwise.
	RedisAddr     string
	RedisPassword string

	JWTSecret string
	JWTTTL    time.Duration

	AllowedOrigins []string

	// GeminiAPIKey enables the recipe importer; GroqAPIKey is the
	// fallback provider. Importing is disabled when neither is set.
	GeminiAPIKey string
	GeminiModel  string
	GroqAPIKey   string
	GroqModel    string

	// Telegram bot settings (required only by the bot binary).
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
}

// Load reads configuration from the environment with sane defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", 8080)
	v.SetDefault("database_path", "data/plateplanner.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("jwt_ttl", "72h")
	v.SetDefault("gemini_model", "gemini-1.5-flash")
	v.SetDefault("groq_model", "llama-3.3-70b-versatile")
	v.SetDefault("allowed_origins", "http://localhost:5173")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("port", "PORT")
	v.BindEnv("database_path", "DATABASE_PATH")
	v.BindEnv("log_level", "LOG_LEVEL")
	v.BindEnv("redis_addr", "REDIS_ADDR")
	v.BindEnv("redis_password", "REDIS_PASSWORD")
	v.BindEnv("jwt_secret", "JWT_SECRET")
	v.BindEnv("jwt_ttl", "JWT_TTL")
	v.BindEnv("allowed_origins", "ALLOWED_ORIGINS")
	v.BindEnv("gemini_api_key", "GEMINI_API_KEY")
	v.BindEnv("gemini_model", "GEMINI_MODEL")
	v.BindEnv("groq_api_key", "GROQ_API_KEY")
	v.BindEnv("groq_model", "GROQ_MODEL")
	v.BindEnv("telegram_bot_token", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram_webhook_url", "TELEGRAM_WEBHOOK_URL")
	v.BindEnv("telegram_allowed_user_ids", "TELEGRAM_ALLOWED_USER_IDS")

	cfg := &Config{
		Port:               v.GetInt("port"),
		DatabasePath:       v.GetString("database_path"),
		LogLevel:           v.GetString("log_level"),
		RedisAddr:          v.GetString("redis_addr"),
		RedisPassword:      v.GetString("redis_password"),
		JWTSecret:          v.GetString("jwt_secret"),
		JWTTTL:             v.GetDuration("jwt_ttl"),
		AllowedOrigins:     splitList(v.GetString("allowed_origins")),
		GeminiAPIKey:       v.GetString("gemini_api_key"),
		GeminiModel:        v.GetString("gemini_model"),
		GroqAPIKey:         v.GetString("groq_api_key"),
		GroqModel:          v.GetString("groq_model"),
		TelegramBotToken:   v.GetString("telegram_bot_token"),
		TelegramWebhookURL: v.GetString("telegram_webhook_url"),
	}

	for _, raw := range splitList(v.GetString("telegram_allowed_user_ids")) {
		var id int64
		if _, err := fmt.Sscanf(raw, "%d", &id); err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS entry %q", raw)
		}
		cfg.TelegramAllowedUserIDs = append(cfg.TelegramAllowedUserIDs, id)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}
	if cfg.JWTTTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be a positive duration")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

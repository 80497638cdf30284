package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT sessions
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// LLM providers
	LLMProvider     string
	AnthropicAPIKey string
	AnthropicAPIURL string
	AnthropicModel  string
	GroqAPIKey      string
	GroqAPIURL      string
	GroqModel       string
	AITimeout       time.Duration

	// Lemon Squeezy
	LemonSqueezyAPIKey        string
	LemonSqueezyAPIURL        string
	LemonSqueezyStoreID       string
	LemonSqueezyVariantID     string
	LemonSqueezyWebhookSecret string
	LemonSqueezySuccessURL    string
	LemonSqueezyTestMode      bool

	// Paddle Billing
	PaddleWebhookSecret string

	// Server
	AppEnv      string
	Port        string
	CORSOrigins string

	// DevPremiumBypass skips the premium access gate. Only honored
	// outside a production posture; see PremiumBypassEnabled.
	DevPremiumBypass bool
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "jobsafe_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m")),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "720h")),

		LLMProvider:     getEnv("LLM_PROVIDER", "anthropic"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicAPIURL: getEnv("ANTHROPIC_API_URL", "https://api.anthropic.com/v1/messages"),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5"),
		GroqAPIKey:      getEnv("GROQ_API_KEY", ""),
		GroqAPIURL:      getEnv("GROQ_API_URL", "https://api.groq.com/openai/v1/chat/completions"),
		GroqModel:       getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		AITimeout:       parseDuration(getEnv("AI_TIMEOUT", "60s")),

		LemonSqueezyAPIKey:        getEnv("LEMON_SQUEEZY_API_KEY", ""),
		LemonSqueezyAPIURL:        getEnv("LEMON_SQUEEZY_API_URL", "https://api.lemonsqueezy.com"),
		LemonSqueezyStoreID:       getEnv("LEMON_SQUEEZY_STORE_ID", ""),
		LemonSqueezyVariantID:     getEnv("LEMON_SQUEEZY_VARIANT_ID", ""),
		LemonSqueezyWebhookSecret: getEnv("LEMON_SQUEEZY_WEBHOOK_SECRET", ""),
		LemonSqueezySuccessURL:    getEnv("LEMON_SQUEEZY_SUCCESS_URL", ""),
		LemonSqueezyTestMode:      parseBool(getEnv("LEMON_SQUEEZY_TEST_MODE", "false")),

		PaddleWebhookSecret: getEnv("PADDLE_WEBHOOK_SECRET", ""),

		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		DevPremiumBypass: parseBool(getEnv("DEV_PREMIUM_BYPASS", "false")),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// PremiumBypassEnabled reports whether the dev-only access bypass is in
// effect. It is inert in production regardless of the env flag.
func (c *Config) PremiumBypassEnabled() bool {
	return c.DevPremiumBypass && !c.IsProduction()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}

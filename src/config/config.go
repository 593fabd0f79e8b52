// Package config loads service configuration from the settings table with
// environment fallbacks.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/trustlens/trustlens/src/data"
)

// AI selects a provider/model pair for one cascade tier.
type AI struct {
	Provider string
	Model    string
}

// Config holds everything the verification service needs at startup.
type Config struct {
	Port      int
	JWTSecret string

	MySQLDSN string
	RedisURL string

	OpenAIKey string
	ClaudeKey string
	Primary   AI
	Secondary AI

	BraveAPIKey   string
	BraveEndpoint string
	NewsAPIKey    string

	QueueWorkers       int
	QueuePending       int
	DailyCallsPerRoute int

	CORSOrigins []string
}

// Load merges DB settings over environment variables. db may be nil, in
// which case only the environment is consulted.
func Load(db *gorm.DB) Config {
	if db != nil {
		if err := data.LoadSettings(db); err != nil {
			// Env fallbacks still work.
			log.Printf("config: settings unavailable: %v", err)
		}
	}

	return Config{
		Port:      getInt("port", "PORT", 8080),
		JWTSecret: get("jwt_secret", "JWT_SECRET", ""),

		MySQLDSN: os.Getenv("MYSQL_DSN"),
		RedisURL: get("redis_url", "REDIS_URL", "redis://127.0.0.1:6379/0"),

		OpenAIKey: get("openai_api_key", "OPENAI_API_KEY", ""),
		ClaudeKey: get("claude_api_key", "CLAUDE_API_KEY", ""),
		Primary: AI{
			Provider: get("ai_primary_provider", "AI_PRIMARY_PROVIDER", "openai"),
			Model:    get("ai_primary_model", "AI_PRIMARY_MODEL", ""),
		},
		Secondary: AI{
			Provider: get("ai_secondary_provider", "AI_SECONDARY_PROVIDER", "claude"),
			Model:    get("ai_secondary_model", "AI_SECONDARY_MODEL", ""),
		},

		BraveAPIKey:   get("brave_api_key", "BRAVE_API_KEY", ""),
		BraveEndpoint: get("brave_endpoint", "BRAVE_ENDPOINT", ""),
		NewsAPIKey:    get("news_api_key", "NEWS_API_KEY", ""),

		QueueWorkers:       getInt("queue_workers", "QUEUE_WORKERS", 2),
		QueuePending:       getInt("queue_pending", "QUEUE_PENDING", 32),
		DailyCallsPerRoute: getInt("daily_calls_per_route", "DAILY_CALLS_PER_ROUTE", 2000),

		CORSOrigins: splitList(get("cors_origins", "CORS_ORIGINS", "*")),
	}
}

// get retrieves a setting with env fallback, then default.
func get(name, envKey, def string) string {
	val := data.GetSetting(name)
	if val == "" {
		val = os.Getenv(envKey)
	}
	if val == "" {
		val = def
	}
	return val
}

func getInt(name, envKey string, def int) int {
	if v, err := strconv.Atoi(get(name, envKey, "")); err == nil {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

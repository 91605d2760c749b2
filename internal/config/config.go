package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultSystemPrompt is prepended by the relay when a conversation
// carries no system message of its own. Deployments may override it via
// SYSTEM_PROMPT; the text itself is configuration, not contract.
const DefaultSystemPrompt = "You are a helpful assistant. You must always respond using Markdown formatting. Use bolding for emphasis, bullet points for lists, and code blocks for any code snippets to ensure high readability."

type Config struct {
	// Server
	Port string
	Env  string

	// Groq completion service
	GroqAPIKey   string
	GroqBaseURL  string
	GroqModel    string
	SystemPrompt string

	// Redis (optional; empty disables the session mirror)
	RedisURL string

	// Frontend
	FrontendURL string

	// Rate limiting
	ChatRateLimitPerMin int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:         getEnvOrDefault("PORT", "8080"),
		Env:          getEnvOrDefault("ENV", "development"),
		GroqAPIKey:   os.Getenv("GROQ_API_KEY"),
		GroqBaseURL:  getEnvOrDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:    getEnvOrDefault("GROQ_MODEL", "llama-3.3-70b-versatile"),
		SystemPrompt: getEnvOrDefault("SYSTEM_PROMPT", DefaultSystemPrompt),
		RedisURL:     getEnvOrDefault("REDIS_URL", ""),
		FrontendURL:  getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),

		ChatRateLimitPerMin: getEnvAsIntOrDefault("CHAT_RATE_LIMIT_PER_MINUTE", 20),
	}

	return cfg
}

// GROQ_API_KEY is deliberately not required at load time: the relay
// checks it per request and answers 500 until it is configured, so the
// server can boot and serve health checks without a key.

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

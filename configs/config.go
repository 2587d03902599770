package configs

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DBSource  string
	JWTSecret string

	LogLevel  string
	LogFormat string

	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
	LLMTimeout time.Duration

	ChatWorkers    int
	ChatRatePerSec float64
	ChatRateBurst  int

	SeedDemoMenu  bool
	TaskSweepSpec string
	CORSOrigins   []string
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:      getEnv("PORT", "8000"),
		DBSource:  getEnv("DB_SOURCE", "restaurant.db?_busy_timeout=5000&_journal_mode=WAL"),
		JWTSecret: getEnv("JWT_SECRET", "changeme"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		LLMBaseURL: strings.TrimRight(getEnv("LLM_BASE_URL", "https://api.openai.com/v1"), "/"),
		LLMAPIKey:  os.Getenv("LLM_API_KEY"),
		LLMModel:   getEnv("LLM_MODEL", "gpt-4.1-nano"),
		LLMTimeout: getDuration("LLM_TIMEOUT", 60*time.Second),

		ChatWorkers:    getInt("CHAT_WORKERS", 4),
		ChatRatePerSec: getFloat("CHAT_RATE_PER_SEC", 1),
		ChatRateBurst:  getInt("CHAT_RATE_BURST", 5),

		SeedDemoMenu:  getBool("SEED_DEMO_MENU", false),
		TaskSweepSpec: getEnv("TASK_SWEEP_SPEC", "@every 30s"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "*")),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

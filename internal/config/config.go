package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// OpenAI
	OpenAIAPIKey         string
	OpenAIChatModel      string
	OpenAIEmbeddingModel string
	OpenAITranscribeModel string

	// Conversation behavior
	RetrievalTopK int
	HistoryLimit  int
	HistoryTTL    time.Duration

	// Stores
	RedisAddr     string
	RedisPassword string
	DatabaseURL   string

	// WAHA messaging gateway
	WAHABaseURL    string
	WAHAAPIKey     string
	WAHASession    string
	WAHATimeout    time.Duration

	// SendGrid advisor notifications
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	// Media pipeline
	MediaWorkDir string
	NotesDir     string
	YTDLPPath    string
	FFmpegPath   string

	// Extraction catalogs (comma-separated overrides; defaults apply when empty)
	ProgramCatalog  []string
	FarewellCatalog []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "5005"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIChatModel:       getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
		OpenAIEmbeddingModel:  getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-ada-002"),
		OpenAITranscribeModel: getEnv("OPENAI_TRANSCRIBE_MODEL", "whisper-1"),

		RetrievalTopK: getEnvAsInt("RETRIEVAL_TOP_K", 15),
		HistoryLimit:  getEnvAsInt("HISTORY_LIMIT", 10),
		HistoryTTL:    getEnvAsDuration("HISTORY_TTL", 30*24*time.Hour),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		WAHABaseURL: getEnv("WAHA_BASE_URL", "http://waha:3000"),
		WAHAAPIKey:  getEnv("WAHA_API_KEY", ""),
		WAHASession: getEnv("WAHA_SESSION", "default"),
		WAHATimeout: getEnvAsDuration("WAHA_TIMEOUT", 30*time.Second),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "DataPath"),

		MediaWorkDir: getEnv("MEDIA_WORK_DIR", "_media"),
		NotesDir:     getEnv("NOTES_DIR", "_notas"),
		YTDLPPath:    getEnv("YTDLP_PATH", "yt-dlp"),
		FFmpegPath:   getEnv("FFMPEG_PATH", "ffmpeg"),

		ProgramCatalog:  getEnvAsList("PROGRAM_CATALOG", nil),
		FarewellCatalog: getEnvAsList("FAREWELL_CATALOG", nil),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable, trimming blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort          = "3000"
	defaultModel         = "gemini-2.0-flash"
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultTimeout       = 60 * time.Second
	defaultMaxQueryLen   = 500
	defaultLocale        = "Slovak"
)

// Config holds application configuration. It is loaded once at startup and
// treated as read-only afterwards.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	GeminiTimeout time.Duration
	Locale        string

	DataStoreType   string
	DataDir         string
	TransactionsKey string
	ServicesKey     string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string

	DatabaseURL    string
	MaxQueryLength int
}

// HasCredential reports whether a generative service credential is configured.
func (c Config) HasCredential() bool {
	return strings.TrimSpace(c.GeminiAPIKey) != ""
}

// Load reads configuration from an optional YAML file and environment
// variables. Environment values take precedence over the file.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	file, err := loadFile(getEnv("CONFIG_FILE", "config.yaml"))
	if err != nil {
		log.Printf("config file ignored: %v", err)
	}

	return Config{
		Port:            getEnv("PORT", firstNonEmpty(file.Server.Port, defaultPort)),
		Env:             normalizeEnv(getEnv("ENV", firstNonEmpty(file.Server.Env, "dev"))),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", strings.Join(file.Server.CORSAllowOrigins, ","))),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", file.Gemini.APIKey),
		GeminiModel:   getEnv("GEMINI_MODEL_NAME", firstNonEmpty(file.Gemini.Model, defaultModel)),
		GeminiBaseURL: strings.TrimRight(getEnv("GEMINI_BASE_URL", firstNonEmpty(file.Gemini.BaseURL, defaultGeminiBaseURL)), "/"),
		GeminiTimeout: getSeconds("GEMINI_TIMEOUT_SECONDS", file.Gemini.TimeoutSeconds, defaultTimeout),
		Locale:        getEnv("RESPONSE_LOCALE", firstNonEmpty(file.Gemini.Locale, defaultLocale)),

		DataStoreType:   normalizeStoreType(getEnv("DATA_STORE", file.Data.Store)),
		DataDir:         getEnv("DATA_DIR", firstNonEmpty(file.Data.Dir, "./data")),
		TransactionsKey: getEnv("TRANSACTIONS_KEY", firstNonEmpty(file.Data.TransactionsKey, "transactions.json")),
		ServicesKey:     getEnv("SERVICES_KEY", firstNonEmpty(file.Data.ServicesKey, "services.json")),
		AWSRegion:       getEnv("AWS_REGION", file.Data.AWSRegion),
		S3Bucket:        getEnv("S3_BUCKET", file.Data.S3Bucket),
		S3Prefix:        getEnv("S3_PREFIX", file.Data.S3Prefix),

		DatabaseURL:    getEnv("DATABASE_URL", file.Audit.DatabaseURL),
		MaxQueryLength: getInt("MAX_QUERY_LENGTH", file.Server.MaxQueryLength, defaultMaxQueryLen),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, fileVal, def int) int {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
		log.Printf("config %s invalid int %q, using default", key, raw)
	}
	if fileVal > 0 {
		return fileVal
	}
	return def
}

func getSeconds(key string, fileVal int, def time.Duration) time.Duration {
	return time.Duration(getInt(key, fileVal, int(def/time.Second))) * time.Second
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

package config

import (
	"log"
	"os"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	AppEnv       string
	IsStaging    bool
	IsProduction bool
	// IsAIEnabled is a flag to enable/disable the AI answer service (enum: "1" or "0")
	IsAIEnabled bool

	JWTSecret string
	Port      string

	DatabaseDSN string

	// attachment storage
	UploadDir string
	BaseURL   string

	// runtime tunables
	AITimeoutSeconds       int
	RateLimitWindowSeconds int
	RateLimitCapacity      int
	UserConcurrencyLimit   int
	DuplicateWindowSeconds int
	AnswerCacheTTLSeconds  int
	AnswerCacheMaxItems    int
)

// loadAppEnv loads .env only outside production; host env always wins.
func loadAppEnv() {
	AppEnv = os.Getenv("APP_ENV")

	// do not load .env file in production
	if AppEnv == "production" {
		return
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file loaded: %v", err)
	}
}

func init() {
	loadAppEnv()

	OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	OpenAIModel = os.Getenv("OPENAI_MODEL")
	OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")

	AppEnv = os.Getenv("APP_ENV")
	if !slices.Contains([]string{"staging", "production"}, AppEnv) {
		AppEnv = "staging"
	}

	IsStaging = AppEnv == "staging"
	IsProduction = AppEnv == "production"

	// IS_AI_ENABLED: "1" for enabled, anything else false
	IsAIEnabled = os.Getenv("IS_AI_ENABLED") == "1"

	if OpenAIModel == "" {
		OpenAIModel = "gpt-3.5-turbo"
	}
	if OpenAIBaseURL == "" {
		OpenAIBaseURL = "https://api.openai.com/v1"
	}

	JWTSecret = os.Getenv("JWT_SECRET_KEY")
	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "5000"
	}

	DatabaseDSN = os.Getenv("DATABASE_DSN")

	UploadDir = os.Getenv("UPLOAD_DIR")
	if UploadDir == "" {
		UploadDir = "./uploads"
	}
	BaseURL = os.Getenv("BASE_URL")
	if BaseURL == "" {
		BaseURL = "http://127.0.0.1:" + Port
	}

	// Tunables with defaults
	AITimeoutSeconds = atoiOr(os.Getenv("AI_TIMEOUT_SECONDS"), 30)
	RateLimitWindowSeconds = atoiOr(os.Getenv("RATE_LIMIT_WINDOW_SECONDS"), 10)
	RateLimitCapacity = atoiOr(os.Getenv("RATE_LIMIT_CAPACITY"), 5)
	UserConcurrencyLimit = atoiOr(os.Getenv("USER_CONCURRENCY_LIMIT"), 2)
	DuplicateWindowSeconds = atoiOr(os.Getenv("DUPLICATE_WINDOW_SECONDS"), 45)
	AnswerCacheTTLSeconds = atoiOr(os.Getenv("ANSWER_CACHE_TTL_SECONDS"), 600)
	AnswerCacheMaxItems = atoiOr(os.Getenv("ANSWER_CACHE_MAX_ITEMS"), 500)

	if IsProduction && JWTSecret == "" {
		log.Fatal("JWT_SECRET_KEY must be set in production")
	}

	log.Printf("[config] AppEnv=%s IsStaging=%v IsProduction=%v", AppEnv, IsStaging, IsProduction)
	log.Printf("[config] IsAIEnabled=%v OpenAIAPIKeyPresent=%v model=%s", IsAIEnabled, OpenAIAPIKey != "", OpenAIModel)
	log.Printf("[config] RateLimit window=%ds capacity=%d userConc=%d dupWindow=%ds cacheTTL=%ds cacheMax=%d",
		RateLimitWindowSeconds, RateLimitCapacity, UserConcurrencyLimit, DuplicateWindowSeconds, AnswerCacheTTLSeconds, AnswerCacheMaxItems)
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

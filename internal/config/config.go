package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Store backends
const (
	StoreNotion   = "notion"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Port            string
	Environment     string
	CORSOrigins     string
	TablePrefix     string
	LogDir          string
	ExposeErrorInfo bool // Include error detail in 500 responses

	// Auth
	JWTSecret     string
	TokenTTL      time.Duration
	AuthJWKSURL   string // Optional external issuer
	AuthRateLimit int    // Requests per minute per IP on register/login

	// Workspace store
	StoreBackend          string
	NotionAPIKey          string
	NotionBaseURL         string
	NotionVersion         string
	NotionTimeout         time.Duration
	NotionRateLimit       float64
	UsersDatabaseID       string
	CaseStudiesDatabaseID string
	DatabaseURL           string
	SchemaFile            string

	// Block tree traversal
	BlockPageSize         int
	BlockMaxDepth         int
	BlockMaxNodes         int
	BlockFetchConcurrency int
}

// Load reads configuration from the environment. Malformed numbers fall
// back to their defaults; call Validate before use.
func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:            getEnv("PORT", "3000"),
		Environment:     env,
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:     getTablePrefix(env),
		LogDir:          getEnv("LOG_DIR", ""),
		ExposeErrorInfo: getBool("EXPOSE_ERROR_DETAILS", env != "prod"),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenTTL:      getDuration("TOKEN_TTL", 24*time.Hour),
		AuthJWKSURL:   getEnv("AUTH_JWKS_URL", ""),
		AuthRateLimit: getInt("AUTH_RATE_LIMIT", 20),

		StoreBackend:          getEnv("STORE_BACKEND", StoreNotion),
		NotionAPIKey:          getEnv("NOTION_API_KEY", ""),
		NotionBaseURL:         getEnv("NOTION_BASE_URL", "https://api.notion.com/v1"),
		NotionVersion:         getEnv("NOTION_VERSION", "2022-06-28"),
		NotionTimeout:         getDuration("NOTION_TIMEOUT", 30*time.Second),
		NotionRateLimit:       getFloat("NOTION_RATE_LIMIT", 3),
		UsersDatabaseID:       getEnv("NOTION_DATABASE_ID", ""),
		CaseStudiesDatabaseID: getEnv("NOTION_CASE_STUDIES_DATABASE_ID", ""),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		SchemaFile:            getEnv("WORKSPACE_SCHEMA_FILE", ""),

		BlockPageSize:         getInt("BLOCK_PAGE_SIZE", 100),
		BlockMaxDepth:         getInt("BLOCK_MAX_DEPTH", 16),
		BlockMaxNodes:         getInt("BLOCK_MAX_NODES", 5000),
		BlockFetchConcurrency: getInt("BLOCK_FETCH_CONCURRENCY", 4),
	}
}

// Validate checks that the settings required by the chosen backend are set.
func (c *Config) Validate() error {
	notion := c.StoreBackend == StoreNotion
	pg := c.StoreBackend == StorePostgres
	workspaceIDs := notion || pg

	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.Environment, validation.In("dev", "test", "prod")),
		validation.Field(&c.JWTSecret, validation.Required),
		validation.Field(&c.TokenTTL, validation.Min(time.Minute)),
		validation.Field(&c.AuthRateLimit, validation.Min(1)),
		validation.Field(&c.StoreBackend, validation.Required, validation.In(StoreNotion, StorePostgres, StoreMemory)),
		validation.Field(&c.NotionAPIKey, validation.When(notion, validation.Required)),
		validation.Field(&c.UsersDatabaseID, validation.When(workspaceIDs, validation.Required)),
		validation.Field(&c.CaseStudiesDatabaseID, validation.When(workspaceIDs, validation.Required)),
		validation.Field(&c.DatabaseURL, validation.When(pg, validation.Required)),
		validation.Field(&c.BlockPageSize, validation.Min(1), validation.Max(100)),
		validation.Field(&c.BlockMaxDepth, validation.Min(1)),
		validation.Field(&c.BlockMaxNodes, validation.Min(1)),
		validation.Field(&c.BlockFetchConcurrency, validation.Min(1)),
	)
}

// AllowedOrigins splits CORSOrigins on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if f, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return f
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return b
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return d
	}
	return defaultValue
}

// String describes the config without secrets, for startup logs.
func (c *Config) String() string {
	return fmt.Sprintf("env=%s port=%s store=%s prefix=%s jwks=%t",
		c.Environment, c.Port, c.StoreBackend, c.TablePrefix, c.AuthJWKSURL != "")
}

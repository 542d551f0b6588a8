package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. Environment variables win;
// an optional YAML file (CONFIG_FILE) supplies defaults below them.
type Config struct {
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`
	LogLevel      string `yaml:"log_level"`
	EnableCORS    bool   `yaml:"enable_cors"`

	Supabase   SupabaseConfig   `yaml:"supabase"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Narrative  NarrativeConfig  `yaml:"narrative"`
	Auth       AuthConfig       `yaml:"auth"`
	Insights   InsightsConfig   `yaml:"insights"`
	Worker     WorkerConfig     `yaml:"worker"`

	// TunablesFile points at the hot-reloadable ranking weights file.
	// Empty disables the watcher and uses built-in defaults.
	TunablesFile string `yaml:"tunables_file"`
}

// SupabaseConfig locates the managed Postgres behind PostgREST.
type SupabaseConfig struct {
	URL        string `yaml:"url"`
	ServiceKey string `yaml:"service_key"`

	ItemsTable   string `yaml:"items_table"`
	ReviewsTable string `yaml:"reviews_table"`
	CacheTable   string `yaml:"cache_table"`
}

// EmbeddingsConfig configures the embedding HTTP endpoint.
type EmbeddingsConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// NarrativeConfig configures the text-generation endpoint used to phrase
// insight summaries.
type NarrativeConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// AuthConfig configures bearer-token verification.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	JWTIssuer string `yaml:"jwt_issuer"`
}

// InsightsConfig tunes the derived-insight layer.
type InsightsConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// WorkerConfig tunes the warm-up/enrichment worker.
type WorkerConfig struct {
	Interval        time.Duration `yaml:"interval"`
	EnrichBatchSize int           `yaml:"enrich_batch_size"`
	EnrichWorkers   int           `yaml:"enrich_workers"`
}

// LoadConfig loads configuration from the optional YAML file, then
// overrides from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: ":8080",
		Environment:   "development",
		LogLevel:      "info",
		EnableCORS:    true,
		Supabase: SupabaseConfig{
			ItemsTable:   "items",
			ReviewsTable: "review_states",
			CacheTable:   "insight_cache",
		},
		Embeddings: EmbeddingsConfig{
			BaseURL:    "https://api.openai.com/v1/embeddings",
			Model:      "text-embedding-3-small",
			Dimensions: 1536,
		},
		Narrative: NarrativeConfig{
			BaseURL: "https://generativelanguage.googleapis.com",
			Model:   "gemini-2.0-flash",
		},
		Auth: AuthConfig{
			JWTIssuer: "polymath",
		},
		Insights: InsightsConfig{
			CacheTTL: 24 * time.Hour,
		},
		Worker: WorkerConfig{
			Interval:        time.Hour,
			EnrichBatchSize: 32,
			EnrichWorkers:   4,
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnv(cfg *Config) {
	cfg.ServerAddress = getEnv("SERVER_ADDRESS", cfg.ServerAddress)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.EnableCORS = getEnvBool("ENABLE_CORS", cfg.EnableCORS)

	cfg.Supabase.URL = getEnv("SUPABASE_URL", cfg.Supabase.URL)
	cfg.Supabase.ServiceKey = getEnv("SUPABASE_SERVICE_ROLE_KEY", cfg.Supabase.ServiceKey)
	cfg.Supabase.ItemsTable = getEnv("SUPABASE_ITEMS_TABLE", cfg.Supabase.ItemsTable)
	cfg.Supabase.ReviewsTable = getEnv("SUPABASE_REVIEWS_TABLE", cfg.Supabase.ReviewsTable)
	cfg.Supabase.CacheTable = getEnv("SUPABASE_CACHE_TABLE", cfg.Supabase.CacheTable)

	cfg.Embeddings.BaseURL = getEnv("EMBEDDINGS_BASE_URL", cfg.Embeddings.BaseURL)
	cfg.Embeddings.APIKey = getEnv("EMBEDDINGS_API_KEY", cfg.Embeddings.APIKey)
	cfg.Embeddings.Model = getEnv("EMBEDDINGS_MODEL", cfg.Embeddings.Model)
	cfg.Embeddings.Dimensions = getEnvInt("EMBEDDINGS_DIMENSIONS", cfg.Embeddings.Dimensions)

	cfg.Narrative.BaseURL = getEnv("NARRATIVE_BASE_URL", cfg.Narrative.BaseURL)
	cfg.Narrative.APIKey = getEnv("NARRATIVE_API_KEY", cfg.Narrative.APIKey)
	cfg.Narrative.Model = getEnv("NARRATIVE_MODEL", cfg.Narrative.Model)

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.JWTIssuer = getEnv("JWT_ISSUER", cfg.Auth.JWTIssuer)

	cfg.TunablesFile = getEnv("TUNABLES_FILE", cfg.TunablesFile)

	if d := getEnvDuration("INSIGHT_CACHE_TTL", 0); d > 0 {
		cfg.Insights.CacheTTL = d
	}
	if d := getEnvDuration("WORKER_INTERVAL", 0); d > 0 {
		cfg.Worker.Interval = d
	}
	cfg.Worker.EnrichBatchSize = getEnvInt("ENRICH_BATCH_SIZE", cfg.Worker.EnrichBatchSize)
	cfg.Worker.EnrichWorkers = getEnvInt("ENRICH_WORKERS", cfg.Worker.EnrichWorkers)
}

// Validate checks if all required configuration is present.
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.Supabase.URL == "" || c.Supabase.ServiceKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY are required in production")
		}
	}
	return nil
}

// IsDevelopment checks if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UseMemoryStores reports whether the in-memory fakes should back the ports
// instead of Supabase, which happens in development without credentials.
func (c *Config) UseMemoryStores() bool {
	return c.Supabase.URL == "" || c.Supabase.ServiceKey == ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Global singleton for packages that cannot take injected config.
var globalConfig *Config

// Config holds all environment backed configuration for the ADOGENT backend.
type Config struct {
	// HTTP Server
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"9091"`
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`

	// PostgreSQL read replica (optional)
	DBPostgresqlRead1DSN string `env:"DB_POSTGRESQL_READ1_DSN"`

	// Auth
	JWTSecret            []byte        `env:"JWT_SECRET,notEmpty"`
	JWTIssuer            string        `env:"JWT_ISSUER" envDefault:"adogent"`
	AccessTokenLifetime  time.Duration `env:"ACCESS_TOKEN_LIFETIME" envDefault:"30m"`
	RefreshTokenLifetime time.Duration `env:"REFRESH_TOKEN_LIFETIME" envDefault:"168h"`

	// Fast text model provider
	GroqAPIKey      string  `env:"GROQ_API_KEY"`
	GroqBaseURL     string  `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	GroqModel       string  `env:"GROQ_MODEL" envDefault:"llama3-70b-8192"`
	GroqMaxTokens   int     `env:"GROQ_MAX_TOKENS" envDefault:"1024"`
	GroqTemperature float32 `env:"GROQ_TEMPERATURE" envDefault:"0.7"`

	// Local multimodal model runtime
	OllamaBaseURL     string  `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434/v1"`
	OllamaModel       string  `env:"OLLAMA_MODEL" envDefault:"llava:7b"`
	OllamaMaxTokens   int     `env:"OLLAMA_MAX_TOKENS" envDefault:"1024"`
	OllamaTemperature float32 `env:"OLLAMA_TEMPERATURE" envDefault:"0.7"`

	// Conversation handling
	EnableConversationContext  bool `env:"ENABLE_CONVERSATION_CONTEXT" envDefault:"true"`
	MaxConversationHistory     int  `env:"MAX_CONVERSATION_HISTORY" envDefault:"10"`
	MaxMessageLength           int  `env:"MAX_MESSAGE_LENGTH" envDefault:"4000"`
	ProductRecommendationLimit int  `env:"PRODUCT_RECOMMENDATION_LIMIT" envDefault:"5"`

	// Persona overrides
	PersonaConfigEnabled bool           `env:"PERSONA_CONFIGS" envDefault:"false"`
	PersonaConfigFile    string         `env:"PERSONA_CONFIGS_FILE"`
	Personas             *PersonaConfig `env:"-"`

	// Cloudinary media storage
	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `env:"CLOUDINARY_FOLDER" envDefault:"adogent/products"`

	// AI summary backfill
	SummaryBackfillEnabled         bool `env:"SUMMARY_BACKFILL_ENABLED" envDefault:"true"`
	SummaryBackfillIntervalMinutes int  `env:"SUMMARY_BACKFILL_INTERVAL_MINUTES" envDefault:"60"`
	SummaryBackfillBatchSize       int  `env:"SUMMARY_BACKFILL_BATCH_SIZE" envDefault:"20"`

	// Observability / Logging
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	OTLPEndpoint     string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPHeaders      string        `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName      string        `env:"SERVICE_NAME" envDefault:"adogent-api"`
	ServiceNamespace string        `env:"SERVICE_NAMESPACE" envDefault:"adogent"`
	Environment      string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string        `env:"LOG_FORMAT" envDefault:"console"`

	// Features
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"true"`

	// CORS
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Internal
	EnvReloadedAt time.Time
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if _, err := url.ParseRequestURI(cfg.GroqBaseURL); err != nil {
		return nil, fmt.Errorf("invalid GROQ_BASE_URL: %w", err)
	}
	if _, err := url.ParseRequestURI(cfg.OllamaBaseURL); err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_BASE_URL: %w", err)
	}

	if cfg.MaxConversationHistory < 1 {
		return nil, fmt.Errorf("MAX_CONVERSATION_HISTORY must be positive, got %d", cfg.MaxConversationHistory)
	}
	if cfg.ProductRecommendationLimit < 1 {
		return nil, fmt.Errorf("PRODUCT_RECOMMENDATION_LIMIT must be positive, got %d", cfg.ProductRecommendationLimit)
	}

	personas := DefaultPersonaConfig()
	if cfg.PersonaConfigEnabled {
		configFile := strings.TrimSpace(cfg.PersonaConfigFile)
		if configFile == "" {
			configFile = DefaultPersonaConfigFile
		}
		loaded, err := LoadPersonaConfig(configFile)
		if err != nil {
			return nil, fmt.Errorf("load persona configs: %w", err)
		}
		personas = loaded
	}
	cfg.Personas = personas

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.EnvReloadedAt = time.Now()

	globalConfig = cfg

	return cfg, nil
}

// GetGlobal returns the global config instance for backwards compatibility.
// Deprecated: Use dependency injection with Load() instead.
func GetGlobal() *Config {
	return globalConfig
}

var Version = "dev"

func IsDev() bool {
	return strings.HasPrefix(Version, "dev")
}

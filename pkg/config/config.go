package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Storage       StorageConfig
	Transcription TranscriptionConfig
	Summarizer    SummarizerConfig
	Dispatch      DispatchConfig
	Automation    AutomationConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string `envconfig:"PORT" default:"8080"`
	Host            string `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"scribeflow"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"25"`
	// AutoMigrate applies migrations/ on boot. Development convenience;
	// production schema is managed with sql-migrate directly.
	AutoMigrate bool `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// StorageConfig holds transcript archive storage configuration
type StorageConfig struct {
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"scribeflow-transcripts"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// TranscriptionConfig holds AssemblyAI configuration
type TranscriptionConfig struct {
	APIKey        string `envconfig:"ASSEMBLYAI_API_KEY" default:""`
	WebhookSecret string `envconfig:"ASSEMBLYAI_WEBHOOK_SECRET" default:""`
	WebhookURL    string `envconfig:"ASSEMBLYAI_WEBHOOK_URL" default:""`
}

// SummarizerConfig holds LLM summarization configuration
type SummarizerConfig struct {
	APIKey  string `envconfig:"GROQ_API_KEY" default:""`
	Model   string `envconfig:"GROQ_MODEL" default:"llama-3.3-70b-versatile"`
	BaseURL string `envconfig:"GROQ_BASE_URL" default:"https://api.groq.com/openai/v1"`
}

// DispatchConfig holds outbound automation executor configuration
type DispatchConfig struct {
	WebhookURL    string        `envconfig:"DISPATCH_WEBHOOK_URL" default:""`
	SigningSecret string        `envconfig:"DISPATCH_SIGNING_SECRET" default:""`
	Timeout       time.Duration `envconfig:"DISPATCH_TIMEOUT" default:"30s"`
}

// AutomationConfig holds lifecycle tuning
type AutomationConfig struct {
	PendingMaxAge   time.Duration `envconfig:"AUTOMATION_PENDING_MAX_AGE" default:"24h"`
	JanitorInterval time.Duration `envconfig:"AUTOMATION_JANITOR_INTERVAL" default:"1h"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Environment == "production" && c.Dispatch.WebhookURL == "" {
		return fmt.Errorf("DISPATCH_WEBHOOK_URL is required in production")
	}
	if c.Dispatch.WebhookURL != "" && c.Dispatch.SigningSecret == "" {
		return fmt.Errorf("DISPATCH_SIGNING_SECRET is required when DISPATCH_WEBHOOK_URL is set")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

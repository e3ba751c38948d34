package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendModeRemote = "remote"
	BackendModeDirect = "direct"

	SessionBackendMemory   = "memory"
	SessionBackendSQLite   = "sqlite"
	SessionBackendPostgres = "postgres"
	SessionBackendRedis    = "redis"

	StorageBackendLocal = "local"
	StorageBackendR2    = "r2"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	SQLite   SQLiteConfig
	Redis    RedisConfig
	Qdrant   QdrantConfig
	Gemini   GeminiConfig
	Storage  StorageConfig
	Backend  BackendConfig
	Wizard   WizardConfig
	Events   EventsConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	URL string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey     string
	ChatModel  string
	EmbedModel string
}

type StorageConfig struct {
	Backend     string
	UploadPath  string
	MaxFileSize int64
	R2          R2Config
}

type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
}

// BackendConfig selects how the wizard reaches its collaborators.
type BackendConfig struct {
	Mode        string
	BaseURL     string
	Timeout     time.Duration
	CoursesFile string
}

type WizardConfig struct {
	AutoAdvanceOnSelect bool
	AutoAdvanceDelay    time.Duration
	TopK                int
	CourseLimit         int
	SessionBackend      string
	SessionTTL          time.Duration
}

type EventsConfig struct {
	RabbitMQURL string
	Exchange    string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "career_wizard"),
		},
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "./data/wizard.db"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", "http://localhost:6334"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "occupations"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			ChatModel:  getEnv("GEMINI_CHAT_MODEL", "gemini-2.5-flash"),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		Storage: StorageConfig{
			Backend:     strings.ToLower(getEnv("STORAGE_BACKEND", StorageBackendLocal)),
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 2097152),
			R2: R2Config{
				AccountID: getEnv("R2_ACCOUNT_ID", ""),
				Bucket:    getEnv("R2_BUCKET", ""),
				AccessKey: getEnv("R2_ACCESS_KEY", ""),
				SecretKey: getEnv("R2_SECRET_KEY", ""),
			},
		},
		Backend: BackendConfig{
			Mode:        strings.ToLower(getEnv("BACKEND_MODE", BackendModeRemote)),
			BaseURL:     strings.TrimRight(getEnv("BACKEND_URL", "http://127.0.0.1:8000"), "/"),
			Timeout:     getEnvAsDuration("BACKEND_TIMEOUT", "30s"),
			CoursesFile: getEnv("COURSES_FILE", "./data/courses.json"),
		},
		Wizard: WizardConfig{
			AutoAdvanceOnSelect: getEnvAsBool("AUTO_ADVANCE_ON_SELECT", false),
			AutoAdvanceDelay:    getEnvAsDuration("AUTO_ADVANCE_DELAY", "500ms"),
			TopK:                getEnvAsInt("MATCH_TOP_K", 3),
			CourseLimit:         getEnvAsInt("COURSE_DISPLAY_LIMIT", 4),
			SessionBackend:      strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendMemory)),
			SessionTTL:          getEnvAsDuration("SESSION_TTL", "24h"),
		},
		Events: EventsConfig{
			RabbitMQURL: getEnv("RABBITMQ_URL", ""),
			Exchange:    getEnv("RABBITMQ_EXCHANGE", "session_updates"),
		},
	}
}

// Validate checks the settings each selected backend depends on.
func (c *Config) Validate() error {
	switch c.Backend.Mode {
	case BackendModeRemote:
		if c.Backend.BaseURL == "" {
			return &ConfigError{Field: "BACKEND_URL", Message: "BACKEND_URL is required in remote mode"}
		}
	case BackendModeDirect:
		if c.Gemini.APIKey == "" {
			return &ConfigError{Field: "GEMINI_API_KEY", Message: "GEMINI_API_KEY is required in direct mode"}
		}
	default:
		return &ConfigError{Field: "BACKEND_MODE", Message: fmt.Sprintf("unknown backend mode: %s", c.Backend.Mode)}
	}

	switch c.Wizard.SessionBackend {
	case SessionBackendMemory, SessionBackendSQLite, SessionBackendPostgres:
	case SessionBackendRedis:
		if c.Redis.URL == "" {
			return &ConfigError{Field: "REDIS_URL", Message: "REDIS_URL is required for the redis session backend"}
		}
	default:
		return &ConfigError{Field: "SESSION_BACKEND", Message: fmt.Sprintf("unknown session backend: %s", c.Wizard.SessionBackend)}
	}

	if c.Storage.Backend == StorageBackendR2 {
		r2 := c.Storage.R2
		if r2.AccountID == "" || r2.Bucket == "" || r2.AccessKey == "" || r2.SecretKey == "" {
			return &ConfigError{Field: "R2_*", Message: "R2_ACCOUNT_ID, R2_BUCKET, R2_ACCESS_KEY and R2_SECRET_KEY are required for r2 storage"}
		}
	}

	if c.Wizard.TopK <= 0 {
		return &ConfigError{Field: "MATCH_TOP_K", Message: "MATCH_TOP_K must be positive"}
	}

	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

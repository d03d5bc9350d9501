package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	TransportSMTP    = "smtp"
	TransportWebhook = "webhook"
	TransportLog     = "log"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DBDriver    string `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"accident_system.db"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr        string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass        string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	IncidentCacheTTL time.Duration `env:"INCIDENT_CACHE_TTL" envDefault:"5m"`

	// Dispatch Config
	PublicBaseURL        string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	LinkSecret           string `env:"LINK_SECRET"`
	OversightEmail       string `env:"OVERSIGHT_EMAIL"`
	DispatchNearestLimit int    `env:"DISPATCH_NEAREST_LIMIT" envDefault:"3"`

	// Notify Config
	NotifyTransport  string        `env:"NOTIFY_TRANSPORT" envDefault:"log"`
	NotifyTimeout    time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"5s"`
	NotifyMaxRetries int           `env:"NOTIFY_MAX_RETRIES" envDefault:"3"`
	NotifyBaseDelay  time.Duration `env:"NOTIFY_BASE_DELAY" envDefault:"1s"`

	// SMTP Config
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"465"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`

	// Webhook Config
	WebhookURL    string `env:"WEBHOOK_URL"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`

	// Reminder Config
	ReminderSchedule string        `env:"REMINDER_SCHEDULE" envDefault:"@every 5m"`
	ReminderAfter    time.Duration `env:"REMINDER_AFTER" envDefault:"10m"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DBDriver:             strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		SQLitePath:           getEnv("SQLITE_PATH", "accident_system.db"),
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:            os.Getenv("REDIS_PASSWORD"),
		RedisDB:              getEnvAsInt("REDIS_DB", 0),
		IncidentCacheTTL:     getEnvAsDuration("INCIDENT_CACHE_TTL", 5*time.Minute),
		PublicBaseURL:        strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		LinkSecret:           os.Getenv("LINK_SECRET"),
		OversightEmail:       os.Getenv("OVERSIGHT_EMAIL"),
		DispatchNearestLimit: getEnvAsInt("DISPATCH_NEAREST_LIMIT", 3),
		NotifyTransport:      strings.ToLower(getEnv("NOTIFY_TRANSPORT", TransportLog)),
		NotifyTimeout:        getEnvAsDuration("NOTIFY_TIMEOUT", 5*time.Second),
		NotifyMaxRetries:     getEnvAsInt("NOTIFY_MAX_RETRIES", 3),
		NotifyBaseDelay:      getEnvAsDuration("NOTIFY_BASE_DELAY", time.Second),
		SMTPHost:             os.Getenv("SMTP_HOST"),
		SMTPPort:             getEnvAsInt("SMTP_PORT", 465),
		SMTPUsername:         os.Getenv("SMTP_USERNAME"),
		SMTPPassword:         os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:             os.Getenv("SMTP_FROM"),
		WebhookURL:           os.Getenv("WEBHOOK_URL"),
		WebhookSecret:        os.Getenv("WEBHOOK_SECRET"),
		ReminderSchedule:     getEnv("REMINDER_SCHEDULE", "@every 5m"),
		ReminderAfter:        getEnvAsDuration("REMINDER_AFTER", 10*time.Minute),
	}

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH environment variable is required")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.NotifyTransport {
	case TransportSMTP:
		if c.SMTPHost == "" || c.SMTPFrom == "" {
			return fmt.Errorf("SMTP_HOST and SMTP_FROM are required for smtp transport")
		}
	case TransportWebhook:
		if c.WebhookURL == "" {
			return fmt.Errorf("WEBHOOK_URL is required for webhook transport")
		}
	case TransportLog:
	default:
		return fmt.Errorf("unsupported NOTIFY_TRANSPORT %q", c.NotifyTransport)
	}

	if c.DispatchNearestLimit < 1 {
		return fmt.Errorf("DISPATCH_NEAREST_LIMIT must be positive")
	}
	return nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}

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
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	QueueLocal = "local"
	QueueRedis = "redis"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL    string `env:"DATABASE_URL"`
	HTTPPort       string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"file://migrations"`

	// Redis Config
	QueueBackend     string        `env:"QUEUE_BACKEND" envDefault:"local"`
	RedisAddr        string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass        string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	IncidentCache    bool          `env:"INCIDENT_CACHE" envDefault:"false"`
	IncidentCacheTTL time.Duration `env:"INCIDENT_CACHE_TTL" envDefault:"5m"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`

	Provider ProviderConfig
	Dispatch DispatchConfig
}

// ProviderConfig - выбор провайдера и блоки учетных данных каждого вендора
type ProviderConfig struct {
	Name            string        `env:"ALERT_PROVIDER" envDefault:"msg91"`
	Timeout         time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"10s"`
	CallRingTimeout time.Duration `env:"CALL_RING_TIMEOUT" envDefault:"30s"`
	CallTimeLimit   time.Duration `env:"CALL_TIME_LIMIT" envDefault:"60s"`

	MSG91   MSG91Config
	Exotel  ExotelConfig
	Gupshup GupshupConfig
}

type ExotelConfig struct {
	APIKey     string `env:"EXOTEL_API_KEY"`
	APIToken   string `env:"EXOTEL_API_TOKEN"`
	AccountSID string `env:"EXOTEL_ACCOUNT_SID"`
	CallerID   string `env:"EXOTEL_CALLER_ID"`
	AppID      string `env:"EXOTEL_APP_ID"`
	BaseURL    string `env:"EXOTEL_BASE_URL" envDefault:"https://api.exotel.com"`
}

type MSG91Config struct {
	AuthKey    string `env:"MSG91_AUTH_KEY"`
	SenderID   string `env:"MSG91_SENDER_ID"`
	TemplateID string `env:"MSG91_TEMPLATE_ID"`
	BaseURL    string `env:"MSG91_BASE_URL" envDefault:"https://control.msg91.com"`
}

type GupshupConfig struct {
	UserID   string `env:"GUPSHUP_USER_ID"`
	Password string `env:"GUPSHUP_PASSWORD"`
	Source   string `env:"GUPSHUP_SOURCE" envDefault:"GSDSMS"`
	BaseURL  string `env:"GUPSHUP_BASE_URL" envDefault:"https://enterprise.smsgupshup.com/GatewayAPI/rest"`
}

// DispatchConfig - параметры рассылки оповещений
type DispatchConfig struct {
	MaxRetries  int           `env:"ALERT_MAX_RETRIES" envDefault:"2"`
	RetryDelay  time.Duration `env:"ALERT_RETRY_DELAY" envDefault:"1000"` // миллисекунды
	Timezone    string        `env:"ALERT_TIMEZONE" envDefault:"Asia/Kolkata"`
	CallingCode string        `env:"HOME_CALLING_CODE" envDefault:"91"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		StorageBackend:    strings.ToLower(getEnv("STORAGE_BACKEND", StorageMemory)),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", "file://migrations"),
		QueueBackend:      strings.ToLower(getEnv("QUEUE_BACKEND", QueueLocal)),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		IncidentCache:     getEnvAsBool("INCIDENT_CACHE", false),
		IncidentCacheTTL:  getEnvAsDuration("INCIDENT_CACHE_TTL", 5*time.Minute),
		WebhookURL:        os.Getenv("WEBHOOK_URL"),
		WebhookSecret:     os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:    getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries: getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:  getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
		Provider: ProviderConfig{
			Name:            getEnv("ALERT_PROVIDER", "msg91"),
			Timeout:         getEnvAsDuration("PROVIDER_TIMEOUT", 10*time.Second),
			CallRingTimeout: getEnvAsDuration("CALL_RING_TIMEOUT", 30*time.Second),
			CallTimeLimit:   getEnvAsDuration("CALL_TIME_LIMIT", 60*time.Second),
			Gupshup: GupshupConfig{
				UserID:   os.Getenv("GUPSHUP_USER_ID"),
				Password: os.Getenv("GUPSHUP_PASSWORD"),
				Source:   getEnv("GUPSHUP_SOURCE", "GSDSMS"),
				BaseURL:  getEnv("GUPSHUP_BASE_URL", "https://enterprise.smsgupshup.com/GatewayAPI/rest"),
			},
			Exotel: ExotelConfig{
				APIKey:     os.Getenv("EXOTEL_API_KEY"),
				APIToken:   os.Getenv("EXOTEL_API_TOKEN"),
				AccountSID: os.Getenv("EXOTEL_ACCOUNT_SID"),
				CallerID:   os.Getenv("EXOTEL_CALLER_ID"),
				AppID:      os.Getenv("EXOTEL_APP_ID"),
				BaseURL:    getEnv("EXOTEL_BASE_URL", "https://api.exotel.com"),
			},
			MSG91: MSG91Config{
				AuthKey:    os.Getenv("MSG91_AUTH_KEY"),
				SenderID:   os.Getenv("MSG91_SENDER_ID"),
				TemplateID: os.Getenv("MSG91_TEMPLATE_ID"),
				BaseURL:    getEnv("MSG91_BASE_URL", "https://control.msg91.com"),
			},
		},
		Dispatch: DispatchConfig{
			MaxRetries:  getEnvAsInt("ALERT_MAX_RETRIES", 2),
			RetryDelay:  time.Duration(getEnvAsInt("ALERT_RETRY_DELAY", 1000)) * time.Millisecond,
			Timezone:    getEnv("ALERT_TIMEZONE", "Asia/Kolkata"),
			CallingCode: getEnv("HOME_CALLING_CODE", "91"),
		},
	}

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность выбранных бэкендов
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required for %s storage", StoragePostgres)
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	switch c.QueueBackend {
	case QueueLocal, QueueRedis:
	default:
		return fmt.Errorf("unknown QUEUE_BACKEND %q", c.QueueBackend)
	}

	if c.Dispatch.MaxRetries < 0 {
		return fmt.Errorf("ALERT_MAX_RETRIES must not be negative")
	}
	return nil
}

// NeedsRedis сообщает, требуется ли подключение к Redis
func (c *Config) NeedsRedis() bool {
	return c.QueueBackend == QueueRedis || (c.IncidentCache && c.StorageBackend == StoragePostgres)
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

// getEnvAsBool возвращает значение переменной окружения как bool или значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
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

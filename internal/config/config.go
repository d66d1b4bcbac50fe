package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gym-app-go/pkg/logger"
)

type Config struct {
	HTTPPort       string
	Env            string
	SeedDemoData   bool
	AllowedOrigins []string
	DB             DBConfig
	Session        SessionConfig
	CSRF           CSRFConfig
	Redis          RedisConfig
	Reports        ReportsConfig
	Pricing        PricingConfig
	Kafka          KafkaConfig
	Mail           MailConfig
	Search         SearchConfig
	Sentry         SentryConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieSecure bool
}

type CSRFConfig struct {
	Enabled        bool
	Key            string
	TrustedOrigins []string
}

// RedisConfig selects the session backend. An empty Addr keeps sessions in memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ReportsConfig struct {
	ServerURL string
	Folder    string
}

// PricingConfig holds membership prices in the smallest currency unit.
type PricingConfig struct {
	MonthlyCents int64
	YearlyCents  int64
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type MailConfig struct {
	ResendAPIKey string
	From         string
}

type SearchConfig struct {
	ElasticsearchURL string
	Index            string
}

type SentryConfig struct {
	DSN     string
	Release string
}

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	monthly, err := getEnvMoney("PRICE_MONTHLY", 15000)
	if err != nil {
		return Config{}, err
	}
	yearly, err := getEnvMoney("PRICE_YEARLY", 150000)
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		SeedDemoData:   getEnvBool("SEED_DEMO_DATA", false),
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", nil),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "gym"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Session: SessionConfig{
			Secret:       getEnv("SESSION_SECRET", ""),
			TTL:          getEnvDuration("SESSION_TTL", 24*time.Hour),
			CookieSecure: getEnvBool("SESSION_COOKIE_SECURE", false),
		},
		CSRF: CSRFConfig{
			Enabled:        getEnvBool("CSRF_ENABLED", true),
			Key:            getEnv("CSRF_KEY", ""),
			TrustedOrigins: getEnvList("CSRF_TRUSTED_ORIGINS", []string{"localhost:8080", "127.0.0.1:8080"}),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Reports: ReportsConfig{
			ServerURL: getEnv("REPORT_SERVER_URL", "http://localhost/ReportServer/Pages/ReportViewer.aspx"),
			Folder:    getEnv("REPORT_FOLDER", "/GymReports"),
		},
		Pricing: PricingConfig{
			MonthlyCents: monthly,
			YearlyCents:  yearly,
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC", "gym-events"),
		},
		Mail: MailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("MAIL_FROM", "Gym <noreply@gym.local>"),
		},
		Search: SearchConfig{
			ElasticsearchURL: getEnv("ELASTICSEARCH_URL", ""),
			Index:            getEnv("ELASTICSEARCH_INDEX", "gym-classes"),
		},
		Sentry: SentryConfig{
			DSN:     getEnv("SENTRY_DSN", ""),
			Release: getEnv("APP_VERSION", "dev"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			result = append(result, item)
		}
	}
	return result
}

// getEnvMoney reads a decimal amount such as "149.99" and returns it in cents.
func getEnvMoney(key string, fallback int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	cents, err := ParseMoney(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return cents, nil
}

// ParseMoney converts "150", "150.5" or "150.50" into cents.
func ParseMoney(value string) (int64, error) {
	whole, frac, hasFrac := strings.Cut(strings.TrimSpace(value), ".")
	if whole == "" {
		return 0, fmt.Errorf("invalid amount %q", value)
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 {
		return 0, fmt.Errorf("invalid amount %q", value)
	}
	var cents int64
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("invalid amount %q", value)
		}
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || cents < 0 {
			return 0, fmt.Errorf("invalid amount %q", value)
		}
	}
	return units*100 + cents, nil
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

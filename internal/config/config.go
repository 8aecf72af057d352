package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"courtbook/internal/domain"
)

const (
	defaultHTTPAddr          = ":8080"
	defaultDatabaseURL       = "file:courtbook.db?cache=shared"
	defaultTimezone          = "America/New_York"
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultJWTAccessTTL      = "24h"
	defaultSlotLockTTL       = "10s"
	defaultSweepInterval     = "15m"
	defaultNotifyWorkers     = 2
	defaultNotifyQueueSize   = 256
	defaultMaxRecurringWeeks = 12
	defaultGroupCapacity     = 5
	defaultExclusionPolicy   = "exclusive"
	defaultPricePrivate      = 5000
	defaultPriceGroup        = 2000
	defaultCurrency          = "USD"
)

type Pricing struct {
	PrivateCents int64  `json:"private_cents"`
	GroupCents   int64  `json:"group_cents"`
	Currency     string `json:"currency"`
}

// For returns the price of one occurrence of lesson type t.
func (p Pricing) For(t domain.LessonType) int64 {
	if t == domain.LessonPrivate {
		return p.PrivateCents
	}
	return p.GroupCents
}

type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string
	AutoMigrate bool
	Location    *time.Location
	CORSOrigins []string

	JWTSecret    string
	JWTAccessTTL time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SlotLockTTL   time.Duration

	TelegramToken       string
	TelegramAdminChatID int64
	NotifyWorkers       int
	NotifyQueue         int

	SweepInterval time.Duration

	MaxRecurringWeeks int
	GroupCapacity     int
	Exclusion         domain.ExclusionPolicy
	Pricing           Pricing
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = getEnv("HTTP_ADDR", defaultHTTPAddr)
	cfg.DatabaseURL = getEnv("DATABASE_URL", defaultDatabaseURL)
	cfg.AutoMigrate = parseBoolEnv("DB_AUTO_MIGRATE", "true")
	cfg.CORSOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	tz := strings.TrimSpace(getEnv("APP_TIMEZONE", defaultTimezone))
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE value %q: %w", tz, err)
	}
	cfg.Location = loc

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	if cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL); err != nil {
		return nil, err
	}

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.SlotLockTTL, err = parseDurationEnv("SLOT_LOCK_TTL", defaultSlotLockTTL); err != nil {
		return nil, err
	}

	cfg.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	adminChat, err := parseIntEnv("TELEGRAM_ADMIN_CHAT_ID", 0)
	if err != nil {
		return nil, err
	}
	cfg.TelegramAdminChatID = int64(adminChat)
	if cfg.NotifyWorkers, err = parseIntEnv("NOTIFY_WORKERS", defaultNotifyWorkers); err != nil {
		return nil, err
	}
	if cfg.NotifyQueue, err = parseIntEnv("NOTIFY_QUEUE_SIZE", defaultNotifyQueueSize); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = parseDurationEnv("SWEEP_INTERVAL", defaultSweepInterval); err != nil {
		return nil, err
	}

	if cfg.MaxRecurringWeeks, err = parseIntEnv("MAX_RECURRING_WEEKS", defaultMaxRecurringWeeks); err != nil {
		return nil, err
	}
	if cfg.GroupCapacity, err = parseIntEnv("GROUP_CAPACITY", defaultGroupCapacity); err != nil {
		return nil, err
	}
	if cfg.Exclusion, err = domain.ParseExclusionPolicy(getEnv("SLOT_EXCLUSION", defaultExclusionPolicy)); err != nil {
		return nil, fmt.Errorf("SLOT_EXCLUSION: %w", err)
	}

	priv, err := parseIntEnv("PRICE_PRIVATE_CENTS", defaultPricePrivate)
	if err != nil {
		return nil, err
	}
	group, err := parseIntEnv("PRICE_GROUP_CENTS", defaultPriceGroup)
	if err != nil {
		return nil, err
	}
	cfg.Pricing = Pricing{
		PrivateCents: int64(priv),
		GroupCents:   int64(group),
		Currency:     strings.ToUpper(strings.TrimSpace(getEnv("PRICE_CURRENCY", defaultCurrency))),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.SlotLockTTL <= 0 {
		return fmt.Errorf("SLOT_LOCK_TTL must be > 0")
	}
	if cfg.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be > 0")
	}
	if cfg.NotifyWorkers < 1 {
		return fmt.Errorf("NOTIFY_WORKERS must be >= 1")
	}
	if cfg.NotifyQueue < 1 {
		return fmt.Errorf("NOTIFY_QUEUE_SIZE must be >= 1")
	}
	if cfg.MaxRecurringWeeks < 1 {
		return fmt.Errorf("MAX_RECURRING_WEEKS must be >= 1")
	}
	if cfg.GroupCapacity < 1 {
		return fmt.Errorf("GROUP_CAPACITY must be >= 1")
	}
	if cfg.Pricing.PrivateCents < 0 || cfg.Pricing.GroupCents < 0 {
		return fmt.Errorf("prices must not be negative")
	}
	if len(cfg.Pricing.Currency) != 3 {
		return fmt.Errorf("PRICE_CURRENCY must be a 3-letter code")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

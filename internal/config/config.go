// Package config loads process settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/engine"
)

var (
	ErrMissingJWTSecret  = errors.New("JWT_SECRET is required")
	ErrInvalidValue      = errors.New("invalid configuration value")
	ErrLookbackOverLimit = errors.New("LOOKBACK_DAYS exceeds MAX_LOOKBACK_DAYS")
)

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// RedisConfig is optional: with an empty Host the server runs without cache
// and rate limiting.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (c RedisConfig) Enabled() bool { return c.Host != "" }

func (c RedisConfig) Addr() string { return c.Host + ":" + c.Port }

type JWTConfig struct {
	Secret   string
	Issuer   string
	Duration time.Duration
}

type Config struct {
	Port  string
	DB    DatabaseConfig
	Redis RedisConfig
	JWT   JWTConfig

	RateLimit         int
	RateLimitWindow   time.Duration
	AnalyticsCacheTTL time.Duration
	MaxLookbackDays   int
	MaxLevelXP        int

	Analytics engine.Options
	Curve     engine.LevelCurve
	XP        engine.XPRules
	Badges    []engine.BadgeTier
}

// Load reads an optional .env file, then the environment. Invalid engine
// constants are reported here instead of at request time.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[CONFIG] Could not read .env: %v", err)
	}

	p := &parser{}
	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "kanso_user"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "kanso_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       p.getInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:   os.Getenv("JWT_SECRET"),
			Issuer:   getEnv("JWT_ISSUER", "kanso"),
			Duration: p.getDuration("JWT_DURATION", 24*time.Hour),
		},
		RateLimit:         p.getInt("RATE_LIMIT", 100),
		RateLimitWindow:   p.getDuration("RATE_LIMIT_WINDOW", time.Minute),
		AnalyticsCacheTTL: p.getDuration("ANALYTICS_CACHE_TTL", 10*time.Minute),
		MaxLookbackDays:   p.getInt("MAX_LOOKBACK_DAYS", 365),
		MaxLevelXP:        p.getInt("MAX_LEVEL_XP", 1_000_000_000),
		Analytics: engine.Options{
			LookbackDays:    p.getInt("LOOKBACK_DAYS", engine.DefaultLookbackDays),
			StreakThreshold: p.getFloat("STREAK_THRESHOLD", engine.StreakThreshold),
			MissingDays:     p.missingDays("MISSING_DAYS"),
		},
		XP: engine.XPRules{
			PerTodo:           p.getInt("XP_PER_TODO", engine.XPPerTodo),
			PerHabitDay:       p.getInt("XP_PER_HABIT_DAY", engine.XPPerHabitDay),
			StreakBonusPerDay: p.getInt("XP_STREAK_BONUS_PER_DAY", engine.StreakBonusPerDay),
			MaxStreakBonus:    p.getInt("XP_MAX_STREAK_BONUS", engine.MaxStreakBonus),
		},
		Badges: engine.DefaultBadgeTiers,
	}
	if p.err != nil {
		return nil, p.err
	}

	curve, err := engine.NewLevelCurve(
		p.getInt("XP_BASE", engine.BaseXPPerLevel),
		p.getInt("XP_INCREMENT", engine.LevelXPIncrement),
	)
	if p.err != nil {
		return nil, p.err
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Curve = curve

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return ErrMissingJWTSecret
	}
	if c.RateLimit < 1 {
		return fmt.Errorf("%w: RATE_LIMIT must be positive", ErrInvalidValue)
	}
	if c.MaxLookbackDays < 1 {
		return fmt.Errorf("%w: MAX_LOOKBACK_DAYS must be positive", ErrInvalidValue)
	}
	if c.MaxLevelXP < 1 {
		return fmt.Errorf("%w: MAX_LEVEL_XP must be positive", ErrInvalidValue)
	}
	if c.Analytics.LookbackDays < 1 {
		return fmt.Errorf("%w: LOOKBACK_DAYS must be positive", ErrInvalidValue)
	}
	if c.Analytics.LookbackDays > c.MaxLookbackDays {
		return ErrLookbackOverLimit
	}
	if c.Analytics.StreakThreshold <= 0 || c.Analytics.StreakThreshold > 1 {
		return fmt.Errorf("%w: STREAK_THRESHOLD must be in (0, 1]", ErrInvalidValue)
	}
	if err := c.Curve.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := engine.ValidateTiers(c.Badges); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parser keeps the first conversion error so Load can report it once.
type parser struct {
	err error
}

func (p *parser) fail(key, raw string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s=%q: %v", ErrInvalidValue, key, raw, err)
	}
}

func (p *parser) getInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}

func (p *parser) getFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}

func (p *parser) getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}

func (p *parser) missingDays(key string) engine.MissingDayPolicy {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch raw {
	case "", engine.MissingExcluded.String():
		return engine.MissingExcluded
	case engine.MissingAsZero.String():
		return engine.MissingAsZero
	}
	p.fail(key, raw, errors.New("expected excluded or zero"))
	return engine.MissingExcluded
}

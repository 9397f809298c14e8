package config

import (
	"fmt"
	"time"

	"github.com/gdugdh24/dejavu-backend/internal/compatibility"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Logging  LoggingConfig
	Matching MatchingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	SSLMode           string
	MigrationsEnabled bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	AccessSecret    string
	AccessExpiryMin int
}

type LoggingConfig struct {
	Level string
}

// MatchingConfig carries the scoring policy and the match workflow knobs.
type MatchingConfig struct {
	TemplateWeight      float64
	TitleWeight         float64
	AgeWeight           float64
	AgeDecayYears       float64
	SimilarityThreshold float64
	ActionMaxRetries    int
	LockTTL             time.Duration
	FeedDefaultLimit    int
	StarterStrategy     string
	StarterSeed         string
}

const (
	StarterStrategyRandom = "random"
	StarterStrategyHash   = "hash"

	MaxFeedLimit = 50
)

func setDefaults(v *viper.Viper) {
	policy := compatibility.DefaultPolicy()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ENV", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15*time.Second)

	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MIGRATIONS_ENABLED", true)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)

	v.SetDefault("JWT_ACCESS_EXPIRY_MIN", 24*60)

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("MATCH_TEMPLATE_WEIGHT", policy.TemplateWeight)
	v.SetDefault("MATCH_TITLE_WEIGHT", policy.TitleWeight)
	v.SetDefault("MATCH_AGE_WEIGHT", policy.AgeWeight)
	v.SetDefault("MATCH_AGE_DECAY_YEARS", policy.AgeDecayYears)
	v.SetDefault("MATCH_SIMILARITY_THRESHOLD", policy.QualifyThreshold)
	v.SetDefault("MATCH_ACTION_MAX_RETRIES", 3)
	v.SetDefault("LOCK_TTL", 5*time.Second)
	v.SetDefault("FEED_DEFAULT_LIMIT", 10)
	v.SetDefault("STARTER_STRATEGY", StarterStrategyRandom)
	v.SetDefault("STARTER_SEED", "")
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()
	setDefaults(v)

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         v.GetInt("SERVER_PORT"),
			Env:          v.GetString("ENV"),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:              v.GetString("DB_HOST"),
			Port:              v.GetInt("DB_PORT"),
			User:              v.GetString("DB_USER"),
			Password:          v.GetString("DB_PASSWORD"),
			DBName:            v.GetString("DB_NAME"),
			SSLMode:           v.GetString("DB_SSL_MODE"),
			MigrationsEnabled: v.GetBool("DB_MIGRATIONS_ENABLED"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			AccessSecret:    v.GetString("JWT_ACCESS_SECRET"),
			AccessExpiryMin: v.GetInt("JWT_ACCESS_EXPIRY_MIN"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Matching: MatchingConfig{
			TemplateWeight:      v.GetFloat64("MATCH_TEMPLATE_WEIGHT"),
			TitleWeight:         v.GetFloat64("MATCH_TITLE_WEIGHT"),
			AgeWeight:           v.GetFloat64("MATCH_AGE_WEIGHT"),
			AgeDecayYears:       v.GetFloat64("MATCH_AGE_DECAY_YEARS"),
			SimilarityThreshold: v.GetFloat64("MATCH_SIMILARITY_THRESHOLD"),
			ActionMaxRetries:    v.GetInt("MATCH_ACTION_MAX_RETRIES"),
			LockTTL:             v.GetDuration("LOCK_TTL"),
			FeedDefaultLimit:    v.GetInt("FEED_DEFAULT_LIMIT"),
			StarterStrategy:     v.GetString("STARTER_STRATEGY"),
			StarterSeed:         v.GetString("STARTER_SEED"),
		},
	}

	// Validate critical configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("JWT access secret is required")
	}
	if len(c.JWT.AccessSecret) < 32 {
		return fmt.Errorf("JWT access secret must be at least 32 characters")
	}
	return c.Matching.Validate()
}

func (m *MatchingConfig) Validate() error {
	if err := m.Policy().Validate(); err != nil {
		return fmt.Errorf("invalid matching policy: %w", err)
	}
	if m.ActionMaxRetries < 0 {
		return fmt.Errorf("MATCH_ACTION_MAX_RETRIES must not be negative")
	}
	if m.LockTTL <= 0 {
		return fmt.Errorf("LOCK_TTL must be positive")
	}
	if m.FeedDefaultLimit < 1 || m.FeedDefaultLimit > MaxFeedLimit {
		return fmt.Errorf("FEED_DEFAULT_LIMIT must be between 1 and %d", MaxFeedLimit)
	}
	switch m.StarterStrategy {
	case StarterStrategyRandom, StarterStrategyHash:
	default:
		return fmt.Errorf("STARTER_STRATEGY must be %q or %q", StarterStrategyRandom, StarterStrategyHash)
	}
	return nil
}

// Policy builds the scoring policy from the configured weights.
func (m *MatchingConfig) Policy() compatibility.Policy {
	p := compatibility.DefaultPolicy()
	p.TemplateWeight = m.TemplateWeight
	p.TitleWeight = m.TitleWeight
	p.AgeWeight = m.AgeWeight
	p.AgeDecayYears = m.AgeDecayYears
	p.QualifyThreshold = m.SimilarityThreshold
	return p
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

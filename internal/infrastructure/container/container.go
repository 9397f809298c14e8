package container

import (
	"fmt"
	"time"

	"github.com/gdugdh24/dejavu-backend/internal/compatibility"
	"github.com/gdugdh24/dejavu-backend/internal/config"
	"github.com/gdugdh24/dejavu-backend/internal/delivery/http"
	"github.com/gdugdh24/dejavu-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/dejavu-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/dejavu-backend/internal/infrastructure/database"
	"github.com/gdugdh24/dejavu-backend/internal/infrastructure/lock"
	"github.com/gdugdh24/dejavu-backend/internal/infrastructure/server"
	"github.com/gdugdh24/dejavu-backend/internal/pkg/retry"
	"github.com/gdugdh24/dejavu-backend/internal/repository/postgres"
	"github.com/gdugdh24/dejavu-backend/internal/usecase/auth"
	"github.com/gdugdh24/dejavu-backend/internal/usecase/chapter"
	"github.com/gdugdh24/dejavu-backend/internal/usecase/feed"
	"github.com/gdugdh24/dejavu-backend/internal/usecase/match"
	"github.com/gdugdh24/dejavu-backend/internal/usecase/profile"
	"github.com/gdugdh24/dejavu-backend/internal/usecase/timeline"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sqlx.DB
	Redis  *redis.Client
	Tokens *auth.TokenService
	Server *server.Server
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg.Database.MigrationsEnabled {
		if err := database.RunMigrations(cfg.Database.GetDSN(), logger); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	c := &Container{Config: cfg, Logger: logger, DB: db}

	// Pair locks span instances only when Redis is configured.
	var locker lock.Locker
	if cfg.Redis.Enabled {
		redisClient, err := database.NewRedisClient(&cfg.Redis)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		c.Redis = redisClient
		locker = lock.NewRedis(redisClient, cfg.Matching.LockTTL)
	} else {
		logger.Info("Redis disabled, using in-process pair locks")
		locker = lock.NewLocal()
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewLifeEventRepository(db)
	matchRepo := postgres.NewMatchRepository(db)
	chapterRepo := postgres.NewSharedChapterRepository(db)

	engine := compatibility.NewEngine(cfg.Matching.Policy())

	retryConfig := retry.DefaultConfig()
	retryConfig.MaxRetries = cfg.Matching.ActionMaxRetries

	// Initialize use cases
	generator := chapter.NewGenerator(
		matchRepo,
		chapterRepo,
		engine,
		newPicker(&cfg.Matching),
		logger,
	)

	matchUseCase := match.NewMatchUseCase(
		matchRepo,
		userRepo,
		eventRepo,
		chapterRepo,
		engine,
		generator,
		locker,
		retryConfig,
		logger,
	)

	feedUseCase := feed.NewFeedUseCase(
		userRepo,
		eventRepo,
		engine,
		cfg.Matching.FeedDefaultLimit,
		config.MaxFeedLimit,
		logger,
	)

	profileUseCase := profile.NewProfileUseCase(userRepo, logger)
	timelineUseCase := timeline.NewTimelineUseCase(eventRepo, logger)

	c.Tokens = auth.NewTokenService(
		cfg.JWT.AccessSecret,
		time.Duration(cfg.JWT.AccessExpiryMin)*time.Minute,
	)

	// Initialize router
	router := http.NewRouter(
		handler.NewProfileHandler(profileUseCase),
		handler.NewTimelineHandler(timelineUseCase),
		handler.NewFeedHandler(feedUseCase),
		handler.NewMatchHandler(matchUseCase, generator),
		middleware.NewAuthMiddleware(c.Tokens),
		logger,
	)

	c.Server = server.NewServer(&cfg.Server, router.Setup(), logger)
	return c, nil
}

func newPicker(cfg *config.MatchingConfig) chapter.TemplatePicker {
	if cfg.StarterStrategy == config.StarterStrategyHash {
		return chapter.HashPicker{Seed: cfg.StarterSeed}
	}
	return chapter.RandomPicker{}
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("Error closing Redis", zap.Error(err))
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}

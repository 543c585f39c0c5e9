package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/loreline/identity-service/internal/config"
	"github.com/loreline/identity-service/internal/domain/interfaces"
	"github.com/loreline/identity-service/internal/events/kafka"
	httpHandler "github.com/loreline/identity-service/internal/handler/http"
	"github.com/loreline/identity-service/internal/infrastructure/database"
	"github.com/loreline/identity-service/internal/infrastructure/database/postgres"
	"github.com/loreline/identity-service/internal/infrastructure/notification"
	"github.com/loreline/identity-service/internal/infrastructure/oauth"
	"github.com/loreline/identity-service/internal/infrastructure/ratelimit"
	"github.com/loreline/identity-service/internal/infrastructure/security"
	"github.com/loreline/identity-service/internal/service"
	"github.com/loreline/identity-service/internal/utils/logger"
)

func main() {
	// Missing .env is fine; real deployments configure via environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("service terminated", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(cfg.Database, zapLogger); err != nil {
			return err
		}
	}

	pool, err := postgres.NewDBPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	db := database.NewDB(pool)
	userRepo := database.NewPgxUserRepository(db)
	refreshRepo := database.NewPgxRefreshTokenRepository(db)
	resetRepo := database.NewPgxPasswordResetRepository(db)
	roleRepo := database.NewPgxRoleRepository(db)
	permRepo := database.NewPgxPermissionRepository(db)

	var limiter *ratelimit.Limiter
	if cfg.Security.RateLimiting.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() { _ = redisClient.Close() }()
		limiter = ratelimit.NewLimiter(redisClient, cfg.Security.RateLimiting, zapLogger)
	}

	var publisher service.EventPublisher
	var sender interfaces.EmailSender = notification.NewLogEmailSender(zapLogger)
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, zapLogger)
		if err != nil {
			return fmt.Errorf("failed to create kafka producer: %w", err)
		}
		defer func() { _ = producer.Close() }()
		publisher = producer
		sender = notification.NewKafkaEmailSender(producer)
	}

	jwtService := security.NewJWTService(cfg.JWT)
	hasher := security.NewPasswordHasher(cfg.Security.BcryptCost)

	var providers []interfaces.ExternalIdentityProvider
	for name, providerCfg := range cfg.OAuthProviders {
		switch name {
		case "google":
			providers = append(providers, oauth.NewGoogleProvider(providerCfg))
		case "github":
			providers = append(providers, oauth.NewGitHubProvider(providerCfg))
		default:
			zapLogger.Warn("unknown oauth provider in configuration", zap.String("provider", name))
		}
	}

	tokenService := service.NewTokenService(jwtService, refreshRepo, zapLogger)
	authService := service.NewAuthService(userRepo, roleRepo, tokenService, hasher, publisher, zapLogger)
	resetService := service.NewPasswordResetService(
		userRepo, resetRepo, refreshRepo, db, hasher, sender, publisher,
		cfg.PasswordReset.TokenTTL, cfg.PasswordReset.TokenByteLength, zapLogger,
	)
	roleService := service.NewRoleService(roleRepo, permRepo, userRepo, zapLogger)
	rbacService := service.NewRBACService(roleRepo, zapLogger)
	oauthService := service.NewOAuthService(providers, userRepo, roleRepo, tokenService, hasher, publisher, zapLogger)

	router := httpHandler.NewRouter(httpHandler.RouterDeps{
		Config:        cfg,
		Logger:        zapLogger,
		JWT:           jwtService,
		RateLimiter:   limiter,
		Auth:          httpHandler.NewAuthHandler(authService, zapLogger),
		PasswordReset: httpHandler.NewPasswordResetHandler(resetService, zapLogger),
		Roles:         httpHandler.NewRoleHandler(roleService, zapLogger),
		OAuth:         httpHandler.NewOAuthHandler(oauthService, zapLogger),
		Access:        httpHandler.NewAccessHandler(rbacService, zapLogger),
		Authorizer:    rbacService,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		zapLogger.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	zapLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

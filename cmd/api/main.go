package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"star-admin-api/internal/cache"
	"star-admin-api/internal/config"
	"star-admin-api/internal/credential"
	"star-admin-api/internal/handler"
	"star-admin-api/internal/logger"
	"star-admin-api/internal/mail"
	"star-admin-api/internal/middleware"
	"star-admin-api/internal/model"
	"star-admin-api/internal/repository"
	"star-admin-api/internal/router"
	"star-admin-api/internal/service"
	"star-admin-api/internal/session"
	"star-admin-api/internal/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.App.Environment, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx := context.Background()

	// Database
	db, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}
	log.Info("database ready", zap.String("dialect", string(db.Dialect())))

	// Revocation store and stats cache share a backend
	var (
		revocations session.RevocationStore
		stats       cache.Cache
		redisClient *redis.Client
	)
	switch cfg.Auth.RevocationStore {
	case "redis":
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("failed to connect to redis", zap.String("addr", cfg.Cache.RedisAddress()), zap.Error(err))
		}
		defer redisClient.Close()

		revocations = session.NewRedisRevocationStore(redisClient, cfg.Cache.KeyPrefix)
		stats = cache.NewRedisCache(redisClient, cache.DefaultKeyPrefix)
		log.Info("using redis revocation store", zap.String("addr", cfg.Cache.RedisAddress()))
	default:
		memStore := session.NewMemoryRevocationStore(logger.WithComponent(log, "revocation"))
		memStore.Start(cfg.Auth.SweepInterval)
		defer memStore.Close()
		revocations = memStore

		memCache := cache.NewMemoryCache()
		defer memCache.Close()
		stats = memCache
		log.Warn("using in-memory revocation store; logouts are forgotten on restart")
	}

	// Credentials
	authority, err := session.NewAuthority(cfg.Auth.JWTSecret, revocations,
		session.WithLogger(logger.WithComponent(log, "session")))
	if err != nil {
		log.Fatal("failed to create token authority", zap.Error(err))
	}

	cipher, err := credential.NewCipher(cfg.Auth.EncryptionKey)
	if err != nil {
		log.Fatal("failed to create credential cipher", zap.Error(err))
	}
	hasher := credential.NewHasher(cfg.Auth.BcryptCost)

	// Outbound mail
	var mailer mail.Sender
	if cfg.Mail.Endpoint != "" {
		mailer = mail.NewHTTPSender(cfg.Mail.Endpoint, cfg.Mail.Timeout)
	} else {
		mailer = mail.NewLogSender(logger.WithComponent(log, "mail"))
		log.Warn("MAIL_ENDPOINT not set, OTP mails are only logged")
	}

	files, err := storage.NewLocal(cfg.Upload.Dir)
	if err != nil {
		log.Fatal("failed to prepare upload directory", zap.Error(err))
	}

	// Repositories
	adminRepo := repository.NewSQLAdminRepository(db)
	supportRepo := repository.NewSQLManagerRepository(db, model.SupportManagers)
	starManagerRepo := repository.NewSQLManagerRepository(db, model.StarManagers)
	userRepo := repository.NewSQLUserRepository(db)
	versionRepo := repository.NewSQLVersionRepository(db)
	policyRepo := repository.NewSQLPolicyRepository(db)

	// Services
	authService := service.NewAuthService(adminRepo, hasher, authority, mailer, logger.WithComponent(log, "auth"))
	userService := service.NewUserService(userRepo, stats, cfg.Cache.StatsTTL, logger.WithComponent(log, "users"))
	supportService := service.NewManagerService(supportRepo, cipher, files, logger.WithComponent(log, "staff"))
	starManagerService := service.NewManagerService(starManagerRepo, cipher, files, logger.WithComponent(log, "staff"))
	versionService := service.NewVersionService(versionRepo)
	policyService := service.NewPolicyService(policyRepo, files)

	otpCleanup := service.NewOTPCleanupScheduler(adminRepo, cfg.Auth.OTPCleanupInterval, log)
	otpCleanup.Start()
	defer otpCleanup.Stop()

	// Handlers
	r := router.New(router.Config{
		Handler:               handler.New(db, cfg.App.Version),
		AuthHandler:           handler.NewAuthHandler(authService, log),
		UserHandler:           handler.NewUserHandler(userService, log),
		SupportManagerHandler: handler.NewManagerHandler(supportService, cfg.Upload.MaxImageBytes, log),
		StarManagerHandler:    handler.NewManagerHandler(starManagerService, cfg.Upload.MaxImageBytes, log),
		VersionHandler:        handler.NewVersionHandler(versionService, log),
		PolicyHandler:         handler.NewPolicyHandler(policyService, cfg.Upload.MaxDocBytes, log),
		AuthMiddleware: middleware.NewAuthMiddleware(middleware.AuthConfig{
			Authority: authority,
			Public:    router.PublicRoutes,
			Logger:    logger.WithComponent(log, "auth_middleware"),
		}),
		UploadDir:      files.Root(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}

	log.Info("server stopped")
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "socialnet/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"socialnet/internal/auth"
	"socialnet/internal/cache"
	"socialnet/internal/config"
	"socialnet/internal/db"
	"socialnet/internal/handler"
	"socialnet/internal/logging"
	"socialnet/internal/mailer"
	"socialnet/internal/repository"
	"socialnet/internal/router"
	"socialnet/internal/service"
	"socialnet/internal/storage"
)

// @title Social Network API
// @version 1.0
// @description Social network backend: registration, sessions, OTP password reset, event membership and uploads.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Debug)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, logger, cfg.Debug)
	if err != nil {
		logger.Error("database init failed", "error", err)
		os.Exit(1)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			logger.Warn("failed to drop tables", "error", err)
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, logger)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, continuing without cache", "error", err)
	}

	fileStore, err := storage.New(ctx, cfg.Uploads)
	if err != nil {
		logger.Error("file store init failed", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	blacklistRepo := repository.NewBlacklistRepository(gormDB)
	sessionRepo := repository.NewSessionRepository(gormDB)
	eventRepo := repository.NewEventRepository(gormDB)
	packageRepo := repository.NewPackageRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	hasher := auth.NewHasher(cfg.BcryptCost)
	smtpMailer := mailer.NewSMTPMailer(cfg.Mail, logger)

	// Initialize services
	identityService := service.NewIdentityService(userRepo, blacklistRepo, logger)
	sessionIssuer := service.NewSessionIssuer(sessionRepo, userRepo, jwtService, cfg.Policy, logger)
	packageService := service.NewPackageService(packageRepo, cacheClient, logger)
	authService := service.NewAuthService(userRepo, identityService, sessionIssuer, packageService, hasher, smtpMailer, cfg.Policy, logger)
	otpService := service.NewOTPService(userRepo, hasher, smtpMailer, cfg.Policy, logger)
	userService := service.NewUserService(userRepo, packageService, smtpMailer, cacheClient, cfg.Policy, logger)
	eventService := service.NewEventService(eventRepo, userRepo, logger)

	e := echo.New()
	e.HideBanner = true

	// Register routes
	router.Register(e, cfg, logger, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Password: handler.NewPasswordHandler(otpService),
		User:     handler.NewUserHandler(userService),
		Event:    handler.NewEventHandler(eventService),
		Upload:   handler.NewUploadHandler(fileStore, logger),
	})

	logger.Info("swagger documentation available", "url", swaggerURL(cfg))

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server starting", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server start failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}

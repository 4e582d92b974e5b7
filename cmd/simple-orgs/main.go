package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tendant/simple-orgs/internal/config"
	httpserver "github.com/tendant/simple-orgs/internal/http"
	"github.com/tendant/simple-orgs/internal/notification"
	"github.com/tendant/simple-orgs/pkg/auth"
	"github.com/tendant/simple-orgs/pkg/orgs"
	"github.com/tendant/simple-orgs/pkg/repository"
	"github.com/tendant/simple-orgs/pkg/repository/memory"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize stores
	var (
		organizations orgs.OrganizationStore
		admins        orgs.AdminStore
		collections   orgs.CollectionStore
	)
	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		organizations = memory.NewOrganizationStore()
		admins = memory.NewAdminStore()
		collections = memory.NewCollectionStore()
		logger.Warn("using in-memory store; data is lost on restart")
	default:
		db, err := repository.NewDB(repository.Config{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
			SSLMode:  cfg.DBSSLMode,
		})
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = repository.EnsureSchema(ctx, db)
		cancel()
		if err != nil {
			logger.Error("failed to create schema", "error", err)
			os.Exit(1)
		}

		logger.Info("connected to database", "host", cfg.DBHost, "database", cfg.DBName)

		organizations = repository.NewOrganizationsRepository(db)
		admins = repository.NewAdminsRepository(db)
		collections = repository.NewCollectionsRepository(db)
	}

	// Initialize services
	tokens := auth.NewTokenService(auth.TokenConfig{
		Secret:         []byte(cfg.JWTSecret),
		Issuer:         cfg.JWTIssuer,
		AccessTokenTTL: cfg.AccessTokenTTL,
	})

	// Initialize email service if configured
	var notifier orgs.Notifier
	if cfg.HasSMTP() {
		notifier = notification.NewEmailService(notification.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
		})
		logger.Info("email notifications enabled")
	}

	passwordPolicy := auth.NewPasswordPolicy(cfg.PasswordPolicy)
	logger.Info("admin password policy", "requirements", passwordPolicy.Requirements())

	service := orgs.NewService(orgs.Config{
		Organizations:         organizations,
		Admins:                admins,
		Collections:           collections,
		Tokens:                tokens,
		PasswordPolicy:        passwordPolicy,
		StrictEmailValidation: cfg.Validation.StrictEmailValidation,
		BlockDisposableEmail:  cfg.Validation.BlockDisposableEmail,
		Notifier:              notifier,
		Logger:                logger,
	})

	// Create router
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:          logger,
		Service:         service,
		Tokens:          tokens,
		SecurityHeaders: cfg.SecurityHeaders,
		Validation:      cfg.Validation,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", addr, "store", cfg.StoreBackend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}

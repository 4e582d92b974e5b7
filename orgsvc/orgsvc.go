// Package orgsvc embeds the organization management service in another
// program.
//
// Basic usage:
//
//	db, _ := sql.Open("postgres", "postgres://localhost/myapp?sslmode=disable")
//
//	svc, err := orgsvc.New(orgsvc.Config{
//	    DB:        db,
//	    JWTSecret: "your-secret-key-at-least-32-chars",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := chi.NewRouter()
//	r.Mount("/", svc.Router())
//	http.ListenAndServe(":8080", r)
//
// Leaving DB nil keeps everything in process memory, which is handy for
// tests and demos.
package orgsvc

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tendant/simple-orgs/internal/config"
	httpserver "github.com/tendant/simple-orgs/internal/http"
	"github.com/tendant/simple-orgs/internal/http/middleware"
	"github.com/tendant/simple-orgs/internal/httputil"
	"github.com/tendant/simple-orgs/pkg/auth"
	"github.com/tendant/simple-orgs/pkg/orgs"
	"github.com/tendant/simple-orgs/pkg/repository"
	"github.com/tendant/simple-orgs/pkg/repository/memory"
)

// MinSecretLength is the shortest JWT secret New accepts.
const MinSecretLength = 32

// Config holds the configuration for an embedded service.
type Config struct {
	// DB is the Postgres connection. Nil selects the in-memory stores.
	DB *sql.DB

	// JWTSecret signs access tokens (required, min 32 chars).
	JWTSecret string

	// JWTIssuer is the issuer claim in access tokens (default: "simple-orgs").
	JWTIssuer string

	// AccessTokenTTL is the lifetime of access tokens (default: 60 minutes).
	AccessTokenTTL time.Duration

	// PasswordPolicy overrides the default minimum of 6 characters.
	PasswordPolicy *config.PasswordPolicyConfig

	// Notifier receives lifecycle notices (optional).
	Notifier orgs.Notifier

	// MaxRequestBodySize caps request bodies in bytes (default: 1 MiB).
	MaxRequestBodySize int64

	// Logger is the structured logger (default: slog.Default()).
	Logger *slog.Logger
}

// Service is an embedded organization management instance.
type Service struct {
	config  Config
	tokens  *auth.TokenService
	service *orgs.Service
	router  http.Handler
}

// New builds a Service. When a DB is given its tables are created if they
// are missing.
func New(cfg Config) (*Service, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	var (
		organizations orgs.OrganizationStore
		admins        orgs.AdminStore
		collections   orgs.CollectionStore
	)
	if cfg.DB != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repository.EnsureSchema(ctx, cfg.DB); err != nil {
			return nil, err
		}
		organizations = repository.NewOrganizationsRepository(cfg.DB)
		admins = repository.NewAdminsRepository(cfg.DB)
		collections = repository.NewCollectionsRepository(cfg.DB)
	} else {
		organizations = memory.NewOrganizationStore()
		admins = memory.NewAdminStore()
		collections = memory.NewCollectionStore()
	}

	tokens := auth.NewTokenService(auth.TokenConfig{
		Secret:         []byte(cfg.JWTSecret),
		Issuer:         cfg.JWTIssuer,
		AccessTokenTTL: cfg.AccessTokenTTL,
	})

	var policy *auth.PasswordPolicy
	if cfg.PasswordPolicy != nil {
		policy = auth.NewPasswordPolicy(*cfg.PasswordPolicy)
	}

	service := orgs.NewService(orgs.Config{
		Organizations:         organizations,
		Admins:                admins,
		Collections:           collections,
		Tokens:                tokens,
		PasswordPolicy:        policy,
		StrictEmailValidation: true,
		Notifier:              cfg.Notifier,
		Logger:                cfg.Logger,
	})

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:          cfg.Logger,
		Service:         service,
		Tokens:          tokens,
		SecurityHeaders: config.DefaultSecurityHeaders(),
		Validation: config.ValidationConfig{
			StrictEmailValidation: true,
			MaxRequestBodySize:    cfg.MaxRequestBodySize,
		},
	})

	return &Service{
		config:  cfg,
		tokens:  tokens,
		service: service,
		router:  router,
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg.JWTSecret == "" {
		return errors.New("orgsvc: JWTSecret is required")
	}
	if len(cfg.JWTSecret) < MinSecretLength {
		return errors.New("orgsvc: JWTSecret must be at least 32 characters")
	}
	if cfg.AccessTokenTTL < 0 {
		return errors.New("orgsvc: AccessTokenTTL must be positive")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "simple-orgs"
	}
	if cfg.AccessTokenTTL == 0 {
		cfg.AccessTokenTTL = auth.DefaultAccessTokenTTL
	}
	if cfg.MaxRequestBodySize == 0 {
		cfg.MaxRequestBodySize = 1 << 20
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
}

// Router returns the handler serving every route:
//
//	GET    /                - Service status
//	GET    /health          - Health check
//	POST   /org/create      - Create an organization and its admin
//	GET    /org/get         - Look up an organization by name
//	PUT    /org/update      - Rename or change credentials (protected)
//	DELETE /org/delete      - Delete the caller's organization (protected)
//	POST   /admin/login     - Exchange admin credentials for a token
func (s *Service) Router() http.Handler {
	return s.router
}

// Handler is an alias for Router for use with http.StripPrefix:
//
//	mux.Handle("/orgs/", http.StripPrefix("/orgs", svc.Handler()))
func (s *Service) Handler() http.Handler {
	return s.router
}

// Orgs returns the underlying service for direct use.
func (s *Service) Orgs() *orgs.Service {
	return s.service
}

// AuthMiddleware returns middleware that accepts only requests carrying a
// valid admin token. Use it to protect your own routes:
//
//	r.Group(func(r chi.Router) {
//	    r.Use(svc.AuthMiddleware())
//	    r.Get("/reports", handler)
//	})
func (s *Service) AuthMiddleware() func(http.Handler) http.Handler {
	return middleware.Auth(s.tokens)
}

// GetIdentity returns the admin identity attached by AuthMiddleware.
func GetIdentity(r *http.Request) (*auth.Identity, bool) {
	return middleware.GetIdentity(r.Context())
}

// HealthHandler returns a simple health check handler.
func (s *Service) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

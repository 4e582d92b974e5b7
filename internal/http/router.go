package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/tendant/simple-orgs/internal/config"
	"github.com/tendant/simple-orgs/internal/http/features/admin"
	"github.com/tendant/simple-orgs/internal/http/features/org"
	"github.com/tendant/simple-orgs/internal/http/middleware"
	"github.com/tendant/simple-orgs/internal/httputil"
	"github.com/tendant/simple-orgs/pkg/auth"
	"github.com/tendant/simple-orgs/pkg/orgs"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger          *slog.Logger
	Service         *orgs.Service
	Tokens          *auth.TokenService
	SecurityHeaders config.SecurityHeadersConfig
	Validation      config.ValidationConfig
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.RequestSizeLimit(cfg.Validation.MaxRequestBodySize))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"message": "Organization Management Service is running"})
	})

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	orgHandler := org.NewHandler(logger, cfg.Service)
	r.Route("/org", func(r chi.Router) {
		r.Post("/create", orgHandler.Create)
		r.Get("/get", orgHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Tokens))
			r.Put("/update", orgHandler.Update)
			r.Delete("/delete", orgHandler.Delete)
		})
	})

	adminHandler := admin.NewHandler(logger, cfg.Service)
	r.Post("/admin/login", adminHandler.Login)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.Error(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

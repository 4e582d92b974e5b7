package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends.
const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	// Server
	ServerAddr string
	ServerPort int

	// Storage
	StoreBackend string

	// Database
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret      string
	JWTIssuer      string
	AccessTokenTTL time.Duration

	// SMTP (optional)
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	PasswordPolicy  PasswordPolicyConfig
	Validation      ValidationConfig
	SecurityHeaders SecurityHeadersConfig
}

// PasswordPolicyConfig holds admin password requirements.
type PasswordPolicyConfig struct {
	MinLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireNumber    bool
	RequireSpecial   bool
}

// ValidationConfig holds request validation settings.
type ValidationConfig struct {
	StrictEmailValidation bool
	BlockDisposableEmail  bool
	MaxRequestBodySize    int64
}

// SecurityHeadersConfig holds the response security headers. Empty values
// are not sent.
type SecurityHeadersConfig struct {
	Enabled            bool
	CSP                string
	HSTSMaxAge         int
	FrameOptions       string
	ContentTypeOptions string
	XSSProtection      string
	ReferrerPolicy     string
	PermissionsPolicy  string
	CacheControl       string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		// Server defaults
		ServerAddr: getEnv("SERVER_ADDR", "0.0.0.0"),
		ServerPort: getEnvInt("SERVER_PORT", 8080),

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", StoreBackendPostgres)),

		// Database defaults
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "simple_orgs"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT defaults
		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTIssuer:      getEnv("JWT_ISSUER", "simple-orgs"),
		AccessTokenTTL: getEnvDuration("ACCESS_TOKEN_TTL", 60*time.Minute),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Organization Management Service"),

		PasswordPolicy: PasswordPolicyConfig{
			MinLength:        getEnvInt("PASSWORD_MIN_LENGTH", 6),
			RequireUppercase: getEnvBool("PASSWORD_REQUIRE_UPPERCASE", false),
			RequireLowercase: getEnvBool("PASSWORD_REQUIRE_LOWERCASE", false),
			RequireNumber:    getEnvBool("PASSWORD_REQUIRE_NUMBER", false),
			RequireSpecial:   getEnvBool("PASSWORD_REQUIRE_SPECIAL", false),
		},

		Validation: ValidationConfig{
			StrictEmailValidation: getEnvBool("STRICT_EMAIL_VALIDATION", true),
			BlockDisposableEmail:  getEnvBool("BLOCK_DISPOSABLE_EMAIL", false),
			MaxRequestBodySize:    getEnvInt64("MAX_REQUEST_BODY_SIZE", 1<<20),
		},

		SecurityHeaders: loadSecurityHeaders(DefaultSecurityHeaders()),
	}

	// Validate required fields
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.StoreBackend != StoreBackendPostgres && cfg.StoreBackend != StoreBackendMemory {
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreBackendPostgres, StoreBackendMemory, cfg.StoreBackend)
	}
	if cfg.AccessTokenTTL <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}

	return cfg, nil
}

// DefaultSecurityHeaders returns the headers sent by an API that serves no
// HTML.
func DefaultSecurityHeaders() SecurityHeadersConfig {
	return SecurityHeadersConfig{
		Enabled:            true,
		CSP:                "default-src 'none'; frame-ancestors 'none'",
		FrameOptions:       "DENY",
		ContentTypeOptions: "nosniff",
		XSSProtection:      "0",
		ReferrerPolicy:     "no-referrer",
		CacheControl:       "no-store",
	}
}

func loadSecurityHeaders(def SecurityHeadersConfig) SecurityHeadersConfig {
	return SecurityHeadersConfig{
		Enabled:            getEnvBool("SECURITY_HEADERS_ENABLED", def.Enabled),
		CSP:                getEnv("SECURITY_HEADERS_CSP", def.CSP),
		HSTSMaxAge:         getEnvInt("SECURITY_HEADERS_HSTS_MAX_AGE", def.HSTSMaxAge),
		FrameOptions:       getEnv("SECURITY_HEADERS_FRAME_OPTIONS", def.FrameOptions),
		ContentTypeOptions: getEnv("SECURITY_HEADERS_CONTENT_TYPE_OPTIONS", def.ContentTypeOptions),
		XSSProtection:      getEnv("SECURITY_HEADERS_XSS_PROTECTION", def.XSSProtection),
		ReferrerPolicy:     getEnv("SECURITY_HEADERS_REFERRER_POLICY", def.ReferrerPolicy),
		PermissionsPolicy:  getEnv("SECURITY_HEADERS_PERMISSIONS_POLICY", def.PermissionsPolicy),
		CacheControl:       getEnv("SECURITY_HEADERS_CACHE_CONTROL", def.CacheControl),
	}
}

// HasSMTP returns true if outgoing email is configured.
func (c *Config) HasSMTP() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

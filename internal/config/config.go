package config

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Receipt width bounds accepted for RECEIPT_LINE_WIDTH.
const (
	MinReceiptWidth = 20
	MaxReceiptWidth = 120
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	RedisURL    string

	JWTSecret        string
	JWTIssuer        string
	JWTAudience      string
	AccessTokenTTL   time.Duration
	AccessCookieName string
	CSRFCookieName   string
	CookieDomain     string
	CookieSecure     bool
	CookieSameSite   http.SameSite

	CORSAllowedOrigins []string
	BodyLimitBytes     int64
	SecurityHeaders    bool
	HSTS               bool

	ReceiptLineWidth int
	ReceiptTimezone  string
	ReceiptLocation  *time.Location

	ChecksDefaultLimit int
	ChecksMaxLimit     int
	IdempotencyTTL     time.Duration
	LoginRateLimit     int
	LoginRateWindow    time.Duration
	MigrateOnStart     bool
	ShutdownTimeout    time.Duration

	Obs Obs
}

// Obs groups logging, metrics and tracing settings.
type Obs struct {
	LogFormat        string
	LogLevel         string
	MetricsEnabled   bool
	MetricsNamespace string
	MetricsBuckets   string
	TracingEnabled   bool
	TracingExporter  string
	OTLPEndpoint     string
	SamplingRatio    float64
	PprofEnabled     bool
	PprofUser        string
	PprofPass        string
}

// reader wraps koanf lookups with defaults and collects parse errors.
type reader struct {
	k    *koanf.Koanf
	errs []error
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (*Config, error) {
	r := &reader{k: k}
	cfg := &Config{
		AppEnv:      r.str("APP_ENV", "development"),
		Port:        r.str("PORT", "8080"),
		DatabaseURL: r.str("DATABASE_URL", ""),
		RedisURL:    r.str("REDIS_URL", ""),

		JWTSecret:        r.str("JWT_SECRET", ""),
		JWTIssuer:        r.str("JWT_ISSUER", "backend-receipt"),
		JWTAudience:      r.str("JWT_AUDIENCE", "receipthub"),
		AccessTokenTTL:   r.duration("ACCESS_TOKEN_TTL", 30*time.Minute),
		AccessCookieName: r.str("ACCESS_COOKIE_NAME", "receipthub_access_token"),
		CSRFCookieName:   r.str("CSRF_COOKIE_NAME", "receipthub_csrf"),
		CookieDomain:     r.str("COOKIE_DOMAIN", ""),
		CookieSecure:     r.boolean("COOKIE_SECURE", false),
		CookieSameSite:   parseSameSite(r.str("COOKIE_SAMESITE", "lax")),

		CORSAllowedOrigins: splitAndTrim(r.str("CORS_ALLOWED_ORIGINS", "")),
		BodyLimitBytes:     int64(r.integer("BODY_LIMIT_BYTES", 1<<20)),
		SecurityHeaders:    r.boolean("SECURITY_HEADERS", true),
		HSTS:               r.boolean("SECURITY_HSTS", false),

		ReceiptLineWidth: r.integer("RECEIPT_LINE_WIDTH", 40),
		ReceiptTimezone:  r.str("RECEIPT_TIMEZONE", "UTC"),

		ChecksDefaultLimit: r.integer("CHECKS_DEFAULT_LIMIT", 10),
		ChecksMaxLimit:     r.integer("CHECKS_MAX_LIMIT", 100),
		IdempotencyTTL:     r.duration("IDEMPOTENCY_TTL", 24*time.Hour),
		LoginRateLimit:     r.integer("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow:    r.duration("LOGIN_RATE_WINDOW", time.Minute),
		MigrateOnStart:     r.boolean("MIGRATE_ON_START", true),
		ShutdownTimeout:    r.duration("SHUTDOWN_TIMEOUT", 10*time.Second),

		Obs: Obs{
			LogFormat:        r.str("OBS_LOG_FORMAT", "json"),
			LogLevel:         r.str("OBS_LOG_LEVEL", "info"),
			MetricsEnabled:   r.boolean("OBS_ENABLE_PROMETHEUS", true),
			MetricsNamespace: r.str("OBS_METRICS_NAMESPACE", "receipthub"),
			MetricsBuckets:   r.str("OBS_METRICS_BUCKETS_MS", ""),
			TracingEnabled:   r.boolean("OBS_ENABLE_TRACING", false),
			TracingExporter:  r.str("OBS_TRACING_EXPORTER", "otlp"),
			OTLPEndpoint:     r.str("OBS_OTLP_ENDPOINT", ""),
			SamplingRatio:    r.float("OBS_TRACING_SAMPLING_RATIO", 1),
			PprofEnabled:     r.boolean("OBS_ENABLE_PPROF", false),
			PprofUser:        r.str("SECURE_PPROF_BASIC_AUTH_USER", ""),
			PprofPass:        r.str("SECURE_PPROF_BASIC_AUTH_PASS", ""),
		},
	}
	if err := cfg.validate(); err != nil {
		r.errs = append(r.errs, err)
	}
	if len(r.errs) > 0 {
		return nil, errors.Join(r.errs...)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if c.IsProduction() && len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 bytes in production"))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.ReceiptLineWidth < MinReceiptWidth || c.ReceiptLineWidth > MaxReceiptWidth {
		errs = append(errs, fmt.Errorf("RECEIPT_LINE_WIDTH must be between %d and %d", MinReceiptWidth, MaxReceiptWidth))
	}
	loc, err := time.LoadLocation(c.ReceiptTimezone)
	if err != nil {
		errs = append(errs, fmt.Errorf("RECEIPT_TIMEZONE: %w", err))
	}
	c.ReceiptLocation = loc
	if c.ChecksDefaultLimit <= 0 || c.ChecksMaxLimit < c.ChecksDefaultLimit {
		errs = append(errs, errors.New("CHECKS_DEFAULT_LIMIT must be positive and not exceed CHECKS_MAX_LIMIT"))
	}
	if c.LoginRateLimit < 0 {
		errs = append(errs, errors.New("LOGIN_RATE_LIMIT must not be negative"))
	}
	if c.CookieSameSite == http.SameSiteNoneMode && !c.CookieSecure {
		errs = append(errs, errors.New("COOKIE_SAMESITE=none requires COOKIE_SECURE=true"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.AppEnv) {
	case "production", "prod":
		return true
	}
	return false
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func (r *reader) str(key, fallback string) string {
	if v := strings.TrimSpace(r.k.String(key)); v != "" {
		return v
	}
	return fallback
}

func (r *reader) integer(key string, fallback int) int {
	raw := r.str(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid integer %q", key, raw))
		return fallback
	}
	return v
}

func (r *reader) float(key string, fallback float64) float64 {
	raw := r.str(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid number %q", key, raw))
		return fallback
	}
	return v
}

func (r *reader) duration(key string, fallback time.Duration) time.Duration {
	raw := r.str(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid duration %q", key, raw))
		return fallback
	}
	return d
}

func (r *reader) boolean(key string, fallback bool) bool {
	switch strings.ToLower(r.str(key, "")) {
	case "1", "t", "true", "yes", "on":
		return true
	case "0", "f", "false", "no", "off":
		return false
	case "":
		return fallback
	default:
		r.errs = append(r.errs, fmt.Errorf("%s: invalid boolean", key))
		return fallback
	}
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseSameSite(value string) http.SameSite {
	switch strings.ToLower(value) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/receipthub/backend-receipt/internal/auth"
	"github.com/receipthub/backend-receipt/internal/check"
	"github.com/receipthub/backend-receipt/internal/common"
	"github.com/receipthub/backend-receipt/internal/config"
	"github.com/receipthub/backend-receipt/internal/db"
	dbgen "github.com/receipthub/backend-receipt/internal/db/gen"
	"github.com/receipthub/backend-receipt/internal/health"
	"github.com/receipthub/backend-receipt/internal/obs"
	"github.com/receipthub/backend-receipt/internal/ratelimit"
	"github.com/receipthub/backend-receipt/internal/receipt"
	"github.com/receipthub/backend-receipt/internal/repo"
	"github.com/receipthub/backend-receipt/internal/security"
)

const serviceName = "receipt-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.Obs.LogFormat, cfg.Obs.LogLevel).With().
		Str("service", serviceName).
		Str("env", cfg.AppEnv).
		Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, obs.TracingConfig{
		Enabled:       cfg.Obs.TracingEnabled,
		ServiceName:   serviceName,
		Endpoint:      cfg.Obs.OTLPEndpoint,
		Exporter:      cfg.Obs.TracingExporter,
		SamplingRatio: cfg.Obs.SamplingRatio,
		Environment:   cfg.AppEnv,
	})
	if err != nil {
		logger.Error().Err(err).Msg("initialise tracing")
		shutdownTracer = func(context.Context) error { return nil }
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error().Err(err).Msg("shutdown tracer")
		}
	}()

	registry := obs.NewRegistry()
	var httpMetrics *obs.HTTPMetrics
	if cfg.Obs.MetricsEnabled {
		obs.MustRegisterDomainMetrics(cfg.Obs.MetricsNamespace, registry)
		httpMetrics = obs.NewHTTPMetrics(cfg.Obs.MetricsNamespace, obs.ParseBucketsCSV(cfg.Obs.MetricsBuckets), registry)
	}

	if cfg.MigrateOnStart {
		if err := db.MigrateUp(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("apply migrations")
		}
		logger.Info().Msg("migrations applied")
	}

	pool, err := connectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()
	probes := []health.Probe{health.PoolProbe(pool)}

	redisClient, err := connectRedis(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect redis")
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error().Err(err).Msg("close redis")
			}
		}()
		probes = append(probes, health.RedisProbe(redisClient))
	} else {
		logger.Warn().Msg("REDIS_URL not set; idempotency keys and login rate limiting are disabled")
	}

	authLogger := logger.With().Str("component", "auth").Logger()
	authService, err := auth.NewService(auth.Config{
		Queries:        dbgen.New(pool),
		Secret:         cfg.JWTSecret,
		AccessTokenTTL: cfg.AccessTokenTTL,
		Issuer:         cfg.JWTIssuer,
		Audience:       cfg.JWTAudience,
		ClockSkew:      5 * time.Second,
		Logger:         &authLogger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise auth service")
	}
	authHandler := &auth.Handler{
		Service:          authService,
		AccessCookieName: cfg.AccessCookieName,
		CookieDomain:     cfg.CookieDomain,
		CookieSecure:     cfg.CookieSecure,
		CookieSameSite:   cfg.CookieSameSite,
		CSRFCookieName:   cfg.CSRFCookieName,
	}
	authMiddleware := auth.Middleware{Service: authService, AccessCookie: cfg.AccessCookieName, Logger: logger}

	checkService := check.NewService(repo.NewCheckRepo(pool))
	checkService.Logger = logger.With().Str("component", "check").Logger()
	checkService.DefaultLimit = cfg.ChecksDefaultLimit
	checkService.MaxLimit = cfg.ChecksMaxLimit
	checkHandler := &check.Handler{
		Service:   checkService,
		Receipts:  receipt.New(cfg.ReceiptLineWidth, cfg.ReceiptLocation),
		Validate:  common.NewValidator(),
		Location:  cfg.ReceiptLocation,
		TextWidth: cfg.ReceiptLineWidth,
		BasePath:  "/api/v1",
	}

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}
	loginLimit := ratelimit.Handler{
		Limiter: ratelimit.Limiter{Client: redisClient, Prefix: "ratelimit:"},
		Config: ratelimit.Config{
			Key:    ratelimit.ByClientIP("login"),
			Window: cfg.LoginRateWindow,
			Max:    cfg.LoginRateLimit,
		},
		Logger: logger,
	}
	csrf := security.CSRF{SessionCookie: cfg.AccessCookieName, Cookie: cfg.CSRFCookieName}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if cfg.Obs.TracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(security.Headers{Enable: cfg.SecurityHeaders, EnableHSTS: cfg.HSTS, HSTSIncludeSubdomains: true}.Middleware)
	r.Use(security.CORS(allowedOrigins(cfg)))
	r.Use(security.BodyLimit{Max: cfg.BodyLimitBytes}.Middleware)

	if cfg.Obs.MetricsEnabled {
		r.Handle("/metrics", obs.MetricsHandler(registry))
	}
	if cfg.Obs.PprofEnabled {
		r.Mount("/debug", protectPprof(middleware.Profiler(), cfg.Obs.PprofUser, cfg.Obs.PprofPass))
	}

	healthHandler := health.Handler{Probes: probes}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Route("/auth", func(a chi.Router) {
			a.Post("/register", authHandler.Register)
			a.With(loginLimit.Middleware).Post("/login", authHandler.Login)
			a.With(csrf.Middleware).Post("/logout", authHandler.Logout)
			a.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
		})

		v.Route("/checks", func(c chi.Router) {
			c.Use(authMiddleware.RequireAuth)
			c.Group(func(w chi.Router) {
				w.Use(csrf.Middleware, idem.Middleware)
				w.Post("/", checkHandler.Create)
				w.Post("/create", checkHandler.Create)
			})
			c.Get("/", checkHandler.List)
			c.Get("/list", checkHandler.List)
			c.Get("/{checkId}", checkHandler.Get)
			c.Get("/{checkId}/text", checkHandler.Text)
		})
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	case <-ctx.Done():
		health.SetReady(false)
		logger.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown")
		}
	}
}

func connectDB(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = serviceName

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// connectRedis returns nil when REDIS_URL is unset.
func connectRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if cfg.Obs.MetricsEnabled {
		if err := redisotel.InstrumentMetrics(client); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func allowedOrigins(cfg *config.Config) string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return "*"
	}
	return strings.Join(cfg.CORSAllowedOrigins, ",")
}

// protectPprof requires basic auth when a user is configured.
func protectPprof(handler http.Handler, user, pass string) http.Handler {
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", "Basic realm=restricted")
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorised", nil)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

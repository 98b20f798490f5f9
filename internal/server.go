package internal

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/tripeak/tripeak/internal/activity"
	"github.com/tripeak/tripeak/internal/aerobic"
	"github.com/tripeak/tripeak/internal/auth"
	"github.com/tripeak/tripeak/internal/config"
	"github.com/tripeak/tripeak/internal/css"
	"github.com/tripeak/tripeak/internal/db"
	"github.com/tripeak/tripeak/internal/forecast"
	"github.com/tripeak/tripeak/internal/middleware"
	"github.com/tripeak/tripeak/internal/misc"
	"github.com/tripeak/tripeak/internal/profile"
	"github.com/tripeak/tripeak/internal/telemetry/metrics"
	"github.com/tripeak/tripeak/internal/telemetry/tracing"
	"github.com/tripeak/tripeak/internal/zones"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"
)

type Server struct {
	config      *config.Config
	versionInfo string

	httpServer        *http.Server
	metricsHttpServer *http.Server

	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	authService  *auth.Service
	loginChecker *auth.LoginChecker
	admin        *auth.Admin

	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	AdminUsername           string
	AdminPasswordHash       string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(ctx context.Context, params NewServerParams) (*Server, error) {
	cfg := params.Config

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}
	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("ping db pool: %s", err)
	}

	dbPoolCollector := pgxpoolprometheus.NewCollector(dbPool, map[string]string{
		"db_name": cfg.PostgresDBName,
	})
	promRegistry := metrics.SetupPrometheus(dbPoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Errorf("ping redis: %s", err)
	} else {
		log.Debugln("redis ping OK")
	}

	admin := &auth.Admin{
		Username:     params.AdminUsername,
		PasswordHash: params.AdminPasswordHash,
	}
	authService := auth.NewAuthService(admin, auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(8 * time.Hour) {
			authService.ScanAndClean(ctx)
		}
	}()

	otelShutdown, err := tracing.HoneycombSetup(
		params.HoneycombTracingEnabled,
		"tripeak-backend",
		rdb,
	)
	if err != nil {
		return nil, fmt.Errorf("honeycomb setup: %w", err)
	}

	return &Server{
		config:         cfg,
		versionInfo:    params.VersionInfo,
		dbPool:         dbPool,
		redisClient:    rdb,
		authService:    authService,
		loginChecker:   auth.NewLoginChecker(auth.DefaultTTL, rdb),
		admin:          admin,
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	activityRepo := activity.NewRepo(s.dbPool)
	profileRepo := profile.NewRepo(s.dbPool)

	zonesService := zones.NewService(profileRepo, s.metricsManager)
	zonesDetector := zones.NewDetector(activityRepo)
	zonesHandler := zones.NewHandler(zonesService, zonesDetector, activityRepo)
	zonesHandler.SetupRoutes(r)

	aerobicAnalyzer := aerobic.NewAnalyzer(activityRepo)
	aerobicService := aerobic.NewService(aerobicAnalyzer, activityRepo, s.redisClient, s.metricsManager)
	aerobicHandler := aerobic.NewHandler(aerobicService)
	aerobicHandler.SetupRoutes(r)

	cssService := css.NewService(profileRepo)
	cssEstimator := css.NewEstimator(activityRepo)
	cssHandler := css.NewHandler(cssService, cssEstimator)
	cssHandler.SetupRoutes(r)

	forecastEngine := forecast.NewEngine(activityRepo, forecast.NewLoadCalculator())
	forecastHandler := forecast.NewHandler(forecastEngine)
	forecastHandler.SetupRoutes(r)

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	miscHandler := misc.NewHandler(s.versionInfo, s.authService)
	miscHandler.SetupRoutes(r, reqRateLimiter, s.metricsManager, s.config.LoginRateLimitAllowedPerMin)

	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(
		middleware.PanicRecovery(s.metricsManager),
		middleware.LogRequest(),
		middleware.RequestMetrics(s.metricsManager),
		middleware.Cors(),
		authMiddleware.AuthCheck(),
		middleware.DrainAndCloseRequest(),
	)

	return r
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := fmt.Sprintf("%s:%d", host, port)
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{Registry: s.promRegistry},
	))
	metricsAddr := net.JoinHostPort(
		s.config.PrometheusMetricsHost,
		s.config.PrometheusMetricsPort,
	)
	s.metricsHttpServer = &http.Server{
		Handler: metricsRouter,
		Addr:    metricsAddr,
	}

	go func() {
		log.Infof(" > prometheus metrics server listening on: [%s]", metricsAddr)
		if err := s.metricsHttpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("metrics server error: %s", err)
		}
	}()

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Inc()
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Dec()
	}
}

func (s *Server) GracefulShutdown() {
	log.Debugln("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.otelShutdown != nil {
		s.otelShutdown()
	}

	var shutdownErr error
	if err := s.redisClient.Close(); err != nil {
		shutdownErr = multierr.Append(shutdownErr, fmt.Errorf("close redis client: %w", err))
	}

	s.dbPool.Close()

	// flush buffered sentry events before the program terminates
	sentry.Flush(5 * time.Second)

	maxWaitDuration := 15 * time.Second
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			shutdownErr = multierr.Append(shutdownErr, fmt.Errorf("shutdown http server: %w", err))
		}
	}
	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			shutdownErr = multierr.Append(shutdownErr, fmt.Errorf("shutdown metrics server: %w", err))
		}
	}

	if shutdownErr != nil {
		log.Errorf("graceful shutdown errors: %s", shutdownErr)
	} else {
		log.Warnln("server shut down")
	}
}

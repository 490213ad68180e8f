package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ridefleet/dispatch-core/internal/cancellation"
	"github.com/ridefleet/dispatch-core/internal/dispatch"
	"github.com/ridefleet/dispatch-core/internal/etacache"
	"github.com/ridefleet/dispatch-core/internal/geography"
	"github.com/ridefleet/dispatch-core/internal/maps"
	"github.com/ridefleet/dispatch-core/internal/predictor"
	"github.com/ridefleet/dispatch-core/internal/presence"
	"github.com/ridefleet/dispatch-core/internal/ratings"
	"github.com/ridefleet/dispatch-core/internal/storage"
	"github.com/ridefleet/dispatch-core/internal/transport"
	"github.com/ridefleet/dispatch-core/internal/zone"
	"github.com/ridefleet/dispatch-core/pkg/common"
	"github.com/ridefleet/dispatch-core/pkg/config"
	"github.com/ridefleet/dispatch-core/pkg/database"
	"github.com/ridefleet/dispatch-core/pkg/errors"
	"github.com/ridefleet/dispatch-core/pkg/eventbus"
	"github.com/ridefleet/dispatch-core/pkg/jwtkeys"
	"github.com/ridefleet/dispatch-core/pkg/logger"
	"github.com/ridefleet/dispatch-core/pkg/middleware"
	redisclient "github.com/ridefleet/dispatch-core/pkg/redis"
	"github.com/ridefleet/dispatch-core/pkg/tracing"
	ws "github.com/ridefleet/dispatch-core/pkg/websocket"
	"go.uber.org/zap"
)

const (
	serviceName = "dispatch-service"
	version     = "1.0.0"
)

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	defer cfg.Close()

	rootCtx, cancelKeys := context.WithCancel(context.Background())
	defer cancelKeys()

	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting dispatch service",
		zap.String("service", serviceName),
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
	)

	sentryConfig := errors.DefaultSentryConfig()
	sentryConfig.ServerName = serviceName
	sentryConfig.Release = version
	if err := errors.InitSentry(sentryConfig); err != nil {
		logger.Warn("Failed to initialize Sentry, continuing without error tracking", zap.Error(err))
	} else {
		defer errors.Flush(2 * time.Second)
		logger.Info("Sentry error tracking initialized successfully")
	}

	tracerEnabled := os.Getenv("OTEL_ENABLED") == "true"
	if tracerEnabled {
		tracerCfg := tracing.Config{
			ServiceName:    os.Getenv("OTEL_SERVICE_NAME"),
			ServiceVersion: os.Getenv("OTEL_SERVICE_VERSION"),
			Environment:    cfg.Server.Environment,
			OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Enabled:        true,
		}
		tp, err := tracing.InitTracer(tracerCfg, logger.Get())
		if err != nil {
			logger.Warn("Failed to initialize tracer, continuing without tracing", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tp.Shutdown(shutdownCtx); err != nil {
					logger.Warn("Failed to shutdown tracer", zap.Error(err))
				}
			}()
			logger.Info("OpenTelemetry tracing initialized successfully")
		}
	}

	pool, err := database.NewPostgresPool(&cfg.Database, cfg.Timeout.DatabaseQueryTimeout)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(pool)
	logger.Info("Connected to database")

	repo := storage.NewPostgres(pool)

	redisClient, err := redisclient.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Warn("Failed to connect to Redis, presence write-behind will be memory-only", zap.Error(err))
		redisClient = nil
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("Failed to close redis client", zap.Error(err))
			}
		}()
		logger.Info("Connected to Redis")
	}

	var bus *eventbus.Bus
	if cfg.EventBus.Enabled {
		bus, err = eventbus.New(eventbus.Config{
			URL:        cfg.EventBus.URL,
			Name:       cfg.EventBus.ClientID,
			StreamName: cfg.EventBus.Stream,
		})
		if err != nil {
			logger.Warn("Failed to connect to event bus, dispatch lifecycle events will not be published", zap.Error(err))
			bus = nil
		} else {
			defer bus.Close()
			logger.Info("Connected to event bus", zap.String("stream", cfg.EventBus.Stream))
		}
	}

	zones := zone.NewEngine(repo)
	if err := zones.Refresh(rootCtx); err != nil {
		logger.Warn("Failed to load hot-zone configs, all pickups will bypass quota/surge", zap.Error(err))
	}

	presCfg := presence.DefaultConfig()
	presCfg.Freshness = time.Duration(cfg.Dispatch.PresenceStaleSeconds) * time.Second
	presCfg.BatchInterval = time.Duration(cfg.Dispatch.PresenceFlushMillis) * time.Millisecond
	presCfg.MaxBufferSize = cfg.Dispatch.PresenceMaxBatch
	var pres *presence.Registry
	if redisClient != nil {
		pres = presence.New(presCfg, redisClient)
	} else {
		pres = presence.New(presCfg, nil)
	}
	defer pres.Stop()

	model := predictor.NewModel()

	etaOpts := []etacache.Option{
		etacache.WithTTL(time.Duration(cfg.Dispatch.ETACacheTTLSeconds) * time.Second),
		etacache.WithQuantize(cfg.Dispatch.ETAQuantizeDegrees),
	}
	if provider := buildETAProvider(); provider != nil {
		etaOpts = append(etaOpts, etacache.WithProvider(provider))
	}
	eta := etacache.New(repo, etaOpts...)

	hub := ws.NewHub()
	go hub.Run()
	logger.Info("WebSocket hub started")
	tp := transport.New(hub)

	dispatchCfg := dispatch.Config{
		WaveSize:             cfg.Dispatch.WaveSize,
		WaveTimeout:          time.Duration(cfg.Dispatch.WaveTimeoutSeconds) * time.Second,
		MaxWaves:             cfg.Dispatch.MaxWaves,
		CandidateRadiusKm:    5,
		CandidateRadiusMaxKm: 15,
		FareWeights:          dispatch.DefaultWeights(),
	}
	orch := dispatch.New(dispatchCfg, repo, zones, pres, model, eta, tp, bus, nil)
	orch.SetGeography(geography.New(seedCities))
	handler := dispatch.NewHandler(orch)

	ratingsRepo := ratings.NewRepository(pool)
	ratingsService := ratings.NewService(ratingsRepo)
	ratingsHandler := ratings.NewHandler(ratingsService, repo)

	cancellationService := cancellation.NewService(repo)
	cancellationHandler := cancellation.NewHandler(cancellationService)

	jwtProvider, err := jwtkeys.NewManagerFromConfig(rootCtx, cfg.JWT, true)
	if err != nil {
		logger.Fatal("Failed to initialize JWT key manager", zap.Error(err))
	}
	jwtProvider.StartAutoRefresh(rootCtx, time.Duration(cfg.JWT.RefreshMinutes)*time.Minute)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RecoveryWithSentry())
	router.Use(middleware.SentryMiddleware())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestTimeout(cfg.Timeout.DefaultRequestTimeoutDuration()))
	router.Use(middleware.RequestLogger(serviceName))
	router.Use(middleware.CORS())
	router.Use(middleware.SanitizeRequest())

	if tracerEnabled {
		router.Use(middleware.TracingMiddleware(serviceName))
	}

	router.Use(middleware.ErrorHandler())

	router.GET("/healthz", common.HealthCheck(serviceName, version))
	router.GET("/health/live", common.LivenessProbe(serviceName, version))

	healthChecks := make(map[string]func() error)
	healthChecks["database"] = func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return pool.Ping(ctx)
	}
	if redisClient != nil {
		healthChecks["redis"] = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Client.Ping(ctx).Err()
		}
	}
	router.GET("/health/ready", common.ReadinessProbe(serviceName, version, healthChecks))

	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": serviceName, "version": version})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.RegisterRoutes(router, jwtProvider)
	ratingsHandler.RegisterRoutes(router, jwtProvider)
	cancellationHandler.RegisterRoutes(router, jwtProvider)
	router.GET("/ws", func(c *gin.Context) {
		ws.HandleWebSocket(c, hub, jwtProvider)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}

// seedCities backs the analytics-snapshot city/country resolution until
// a real geography table exists; see internal/geography.
var seedCities = []geography.City{
	{Name: "Tashkent", CountryCode: "UZ", Lat: 41.2995, Lng: 69.2401},
	{Name: "Samarkand", CountryCode: "UZ", Lat: 39.6542, Lng: 66.9597},
	{Name: "Bukhara", CountryCode: "UZ", Lat: 39.7747, Lng: 64.4286},
}

// buildETAProvider wires an external routing provider if configured,
// mirroring the teacher's optional-ML-ETA-service pattern in cmd/rides.
// Returns nil when unconfigured; etacache then falls back to the
// great-circle estimate on every cache miss.
func buildETAProvider() maps.ETAProvider {
	apiKey := os.Getenv("MAPS_API_KEY")
	if apiKey == "" {
		return nil
	}
	provider := maps.Provider(os.Getenv("MAPS_PROVIDER"))
	if provider != maps.ProviderHERE {
		provider = maps.ProviderGoogle
	}
	svc, err := maps.NewService(maps.Config{Primary: maps.ProviderConfig{Provider: provider, APIKey: apiKey}}, nil)
	if err != nil {
		return nil
	}
	return maps.NewServiceETAProvider(svc)
}

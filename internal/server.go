package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

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
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/rehabtracker/internal/config"
	"github.com/2beens/rehabtracker/internal/db"
	"github.com/2beens/rehabtracker/internal/middleware"
	"github.com/2beens/rehabtracker/internal/rehab"
	"github.com/2beens/rehabtracker/internal/telemetry/metrics"
	"github.com/2beens/rehabtracker/internal/telemetry/tracing"
	"github.com/2beens/rehabtracker/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config       *config.Config
	dbPool       *pgxpool.Pool
	redisClient  *redis.Client
	rehabService *rehab.Service
	rehabHandler *rehab.Handler

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	PostgresUser            string
	PostgresPassword        string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

// ServiceDeps are the storage clients and the plan service built on top of them,
// shared by the http server and the one-shot commands.
type ServiceDeps struct {
	DBPool         *pgxpool.Pool
	RedisClient    *redis.Client
	Service        *rehab.Service
	MetricsManager *metrics.Manager
	PromRegistry   *prometheus.Registry
}

func (d *ServiceDeps) Close() {
	if d.RedisClient != nil {
		if err := d.RedisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}
	if d.DBPool != nil {
		log.Debugln("closing db pool ...")
		d.DBPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}
}

// NewServiceDeps connects to postgres and redis, makes sure the plan tables exist,
// and builds the plan service.
func NewServiceDeps(ctx context.Context, params NewServerParams, metricsSubsystem string) (*ServiceDeps, error) {
	cfg := params.Config

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         params.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	repo := rehab.NewRepo(dbPool)
	if err := repo.EnsureSchema(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", metricsSubsystem, promRegistry)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	service := rehab.NewService(rehab.NewServiceParams{
		Repo:                 repo,
		Locker:               rehab.NewPlanLocker(rdb, cfg.PlanLockTTL.Duration),
		AlertSink:            rehab.NewAlertPublisher(rdb, cfg.AlertsChannel),
		Cache:                rehab.NewSnapshotCache(rdb, cfg.SnapshotCacheSizeMB, cfg.SnapshotCacheTTL.Duration),
		MetricsManager:       metricsManager,
		WriteRetries:         cfg.WriteRetries,
		RecomputeConcurrency: cfg.RecomputeConcurrency,
	})

	return &ServiceDeps{
		DBPool:         dbPool,
		RedisClient:    rdb,
		Service:        service,
		MetricsManager: metricsManager,
		PromRegistry:   promRegistry,
	}, nil
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	deps, err := NewServiceDeps(ctx, params, "main")
	if err != nil {
		return nil, err
	}
	deps.MetricsManager.GaugeLifeSignal.Set(0)

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "rehab-backend", deps.RedisClient)
	if err != nil {
		deps.Close()
		return nil, err
	}

	return &Server{
		config:       params.Config,
		versionInfo:  params.VersionInfo,
		dbPool:       deps.DBPool,
		redisClient:  deps.RedisClient,
		rehabService: deps.Service,
		rehabHandler: rehab.NewHandler(deps.Service),

		// telemetry
		metricsManager: deps.MetricsManager,
		promRegistry:   deps.PromRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	r.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, "pong")
	}).Methods("GET").Name("ping")
	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	plans := r.PathPrefix("/plans").Subrouter()
	plans.HandleFunc("", s.rehabHandler.HandleCreatePlan).Methods("POST", "OPTIONS").Name("new-plan")
	plans.HandleFunc("/{id}", s.rehabHandler.HandleGetPlan).Methods("GET", "OPTIONS").Name("get-plan")
	plans.HandleFunc("/{id}/status", s.rehabHandler.HandleSetStatus).Methods("PUT", "OPTIONS").Name("set-plan-status")
	plans.HandleFunc("/{id}/exercises/{exid}/complete", s.rehabHandler.HandleComplete).Methods("POST", "OPTIONS").Name("complete-exercise")
	plans.HandleFunc("/{id}/exercises/{exid}/skip", s.rehabHandler.HandleSkip).Methods("POST", "OPTIONS").Name("skip-exercise")
	plans.HandleFunc("/{id}/exercises/{exid}/reset", s.rehabHandler.HandleReset).Methods("POST", "OPTIONS").Name("reset-exercise")
	plans.HandleFunc("/{id}/recompute", s.rehabHandler.HandleRecompute).Methods("POST", "OPTIONS").Name("recompute-plan")
	plans.HandleFunc("/{id}/progress", s.rehabHandler.HandleProgress).Methods("GET", "OPTIONS").Name("get-progress")
	plans.HandleFunc("/{id}/milestones", s.rehabHandler.HandleMilestones).Methods("GET", "OPTIONS").Name("get-milestones")
	plans.HandleFunc("/{id}/alerts", s.rehabHandler.HandleAlerts).Methods("GET", "OPTIONS").Name("get-alerts")
	plans.HandleFunc("/{id}/alerts/{idx}/read", s.rehabHandler.HandleMarkAlertRead).Methods("PUT", "OPTIONS").Name("mark-alert-read")
	plans.Use(middleware.RateLimit(
		redis_rate.NewLimiter(s.redisClient),
		"plans",
		s.config.RateLimitAllowedPerMin,
		s.metricsManager,
	))

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsAllowedOrigins))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests before the storage clients go away
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	deps := &ServiceDeps{
		DBPool:      s.dbPool,
		RedisClient: s.redisClient,
	}
	deps.Close()

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}

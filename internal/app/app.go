package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"contrib.go.opencensus.io/integrations/ocsql"
	"golang.org/x/sync/errgroup"

	"github.com/leadpipe/leadpipe/config"
	"github.com/leadpipe/leadpipe/internal/database"
	"github.com/leadpipe/leadpipe/internal/domain"
	httpHandler "github.com/leadpipe/leadpipe/internal/http"
	"github.com/leadpipe/leadpipe/internal/http/middleware"
	"github.com/leadpipe/leadpipe/internal/repository"
	"github.com/leadpipe/leadpipe/internal/service"
	"github.com/leadpipe/leadpipe/internal/service/queue"
	"github.com/leadpipe/leadpipe/pkg/graphapi"
	"github.com/leadpipe/leadpipe/pkg/logger"
	"github.com/leadpipe/leadpipe/pkg/ratelimiter"
	"github.com/leadpipe/leadpipe/pkg/tracing"
)

// webhookDeliveriesPerMinute bounds inbound deliveries per page
const webhookDeliveriesPerMinute = 600

// AppInterface defines the interface for the App
type AppInterface interface {
	Initialize() error
	Start() error
	Shutdown(ctx context.Context) error

	GetConfig() *config.Config
	GetLogger() logger.Logger
	GetMux() *http.ServeMux
	GetDB() *sql.DB
	GetLeadWorker() *queue.LeadWorker
	GetLeadEventRepository() domain.LeadEventRepository
	GetLeadEventService() domain.LeadEventService

	IsServerCreated() bool
	WaitForServerStart(ctx context.Context) bool

	InitDB() error
	InitTracing() error
	InitRepositories() error
	InitServices() error
	InitHandlers() error

	SetShutdownTimeout(timeout time.Duration)
	GetActiveRequestCount() int64
	GetShutdownContext() context.Context
}

// App encapsulates the application dependencies and configuration
type App struct {
	config *config.Config
	logger logger.Logger
	db     *sql.DB

	// Repositories
	leadEventRepo   domain.LeadEventRepository
	channelRepo     domain.ChannelRepository
	routeRepo       domain.IngestRouteRepository
	contactRepo     domain.ContactRepository
	opportunityRepo domain.OpportunityRepository
	attributionRepo domain.AttributionRepository
	auditRepo       domain.AuditLogRepository
	outboxRepo      domain.OutboxRepository

	// Services
	limiter          *ratelimiter.RateLimiter
	graphClient      service.GraphAPIClient
	pipelineService  *service.LeadPipelineService
	intakeService    *service.LeadIntakeService
	leadEventService *service.LeadEventService
	leadWorker       *queue.LeadWorker

	// HTTP handlers
	mux    *http.ServeMux
	server *http.Server

	// Server synchronization
	serverMu      sync.RWMutex
	serverStarted chan struct{}

	// Graceful shutdown management
	shutdownCtx     context.Context
	shutdownCancel  context.CancelFunc
	activeRequests  int64
	requestWg       sync.WaitGroup
	shutdownTimeout time.Duration
}

// AppOption defines a functional option for configuring the App
type AppOption func(*App)

// WithMockDB configures the app to use a mock database
func WithMockDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
	}
}

// WithLogger sets a custom logger
func WithLogger(logger logger.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// WithGraphClient replaces the Graph API client, e.g. with a stub in tests
func WithGraphClient(client service.GraphAPIClient) AppOption {
	return func(a *App) {
		a.graphClient = client
	}
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, opts ...AppOption) AppInterface {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	app := &App{
		config:          cfg,
		logger:          logger.NewLoggerWithLevel(cfg.LogLevel),
		mux:             http.NewServeMux(),
		serverStarted:   make(chan struct{}),
		shutdownCtx:     shutdownCtx,
		shutdownCancel:  shutdownCancel,
		shutdownTimeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// InitTracing initializes OpenCensus tracing
func (a *App) InitTracing() error {
	tracingConfig := &a.config.Tracing

	if err := tracing.InitTracing(tracingConfig); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if tracingConfig.Enabled {
		a.logger.WithField("trace_exporter", tracingConfig.TraceExporter).
			WithField("metrics_exporter", tracingConfig.MetricsExporter).
			WithField("sampling_rate", tracingConfig.SamplingProbability).
			Info("Tracing initialized successfully")
	}

	return nil
}

// InitDB opens the service database and bootstraps its schema
func (a *App) InitDB() error {
	if a.db != nil {
		return nil
	}

	a.logger.WithFields(map[string]interface{}{
		"host":    a.config.Database.Host,
		"port":    a.config.Database.Port,
		"user":    a.config.Database.User,
		"dbname":  a.config.Database.DBName,
		"sslmode": a.config.Database.SSLMode,
	}).Info("Connecting to database")

	if err := database.EnsureSystemDatabaseExists(database.GetPostgresDSN(&a.config.Database), a.config.Database.DBName); err != nil {
		return fmt.Errorf("failed to ensure database exists: %w", err)
	}

	driverName := "postgres"
	if a.config.Tracing.Enabled {
		var err error
		driverName, err = ocsql.Register(driverName, ocsql.WithAllTraceOptions())
		if err != nil {
			return fmt.Errorf("failed to register opencensus sql driver: %w", err)
		}
		a.logger.Info("Database driver wrapped with OpenCensus tracing")
	}

	db, err := sql.Open(driverName, database.GetSystemDSN(&a.config.Database))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := database.InitializeDatabase(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	database.ConfigurePool(db)

	a.db = db
	return nil
}

// InitRepositories initializes all repositories
func (a *App) InitRepositories() error {
	if a.db == nil {
		return fmt.Errorf("database must be initialized before repositories")
	}

	a.leadEventRepo = repository.NewLeadEventRepository(a.db)
	a.channelRepo = repository.NewChannelRepository(a.db)
	a.routeRepo = repository.NewIngestRouteRepository(a.db)
	a.contactRepo = repository.NewContactRepository()
	a.opportunityRepo = repository.NewOpportunityRepository()
	a.attributionRepo = repository.NewAttributionRepository(a.db)
	a.auditRepo = repository.NewAuditLogRepository(a.db)
	a.outboxRepo = repository.NewOutboxRepository(a.db)

	return nil
}

// InitServices builds the pipeline, intake and the worker that drives them
func (a *App) InitServices() error {
	a.limiter = ratelimiter.NewRateLimiter()
	var fetchLimiter *ratelimiter.RateLimiter
	if perMinute := a.config.Platform.RatePerMinute; perMinute > 0 {
		a.limiter.SetPolicy(service.GraphAPIRateNamespace, perMinute, time.Minute)
		fetchLimiter = a.limiter
	}
	a.limiter.SetPolicy(httpHandler.WebhookRateNamespace, webhookDeliveriesPerMinute, time.Minute)

	if a.graphClient == nil {
		a.graphClient = graphapi.NewClient(graphapi.Config{
			BaseURL:          a.config.Platform.GraphAPIURL(),
			BreakerThreshold: a.config.Platform.BreakerThreshold,
			BreakerCooldown:  a.config.Platform.BreakerCooldown,
			HTTPClient:       tracing.WrapHTTPClient(nil),
		})
	}

	fetcher := service.NewLeadFetcher(
		a.graphClient,
		service.NewCredentialStore(a.config.Security.SecretKey),
		fetchLimiter,
		a.logger,
	)

	pipeline, err := service.NewLeadPipelineService(service.LeadPipelineServiceConfig{
		LeadEventRepo:   a.leadEventRepo,
		ChannelRepo:     a.channelRepo,
		AttributionRepo: a.attributionRepo,
		Fetcher:         fetcher,
		Routes:          service.NewRouteResolver(a.channelRepo, a.routeRepo, a.logger),
		Contacts:        service.NewContactResolver(a.contactRepo, a.logger),
		Opportunities:   service.NewOpportunityCreator(a.opportunityRepo),
		Publisher:       service.NewLeadEventPublisher(a.auditRepo, a.outboxRepo),
		Pipeline:        a.config.Pipeline,
		Logger:          a.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create lead pipeline: %w", err)
	}
	a.pipelineService = pipeline

	a.leadWorker = queue.NewLeadWorker(
		a.leadEventRepo,
		a.pipelineService,
		queue.LeadWorkerConfigFrom(a.config.Pipeline),
		a.logger,
	)

	a.intakeService = service.NewLeadIntakeService(a.leadEventRepo, a.channelRepo, a.logger)
	a.intakeService.SetDispatcher(a.leadWorker)

	a.leadEventService = service.NewLeadEventService(
		a.leadEventRepo,
		a.leadWorker,
		a.leadWorker.GetConfig().MaxRetries,
		a.logger,
	)

	return nil
}

// InitHandlers initializes all HTTP handlers and routes
func (a *App) InitHandlers() error {
	a.mux = http.NewServeMux()

	rootHandler := httpHandler.NewRootHandler(a.db, a.config.Version, a.logger)
	webhookHandler := httpHandler.NewLeadWebhookHandler(
		a.intakeService,
		a.config.Platform.AppSecret,
		a.config.Platform.VerifyToken,
		a.limiter,
		a.logger,
	)
	leadEventHandler := httpHandler.NewLeadEventHandler(a.leadEventService, a.config.Security.JWTSecret, a.logger)

	rootHandler.RegisterRoutes(a.mux)
	webhookHandler.RegisterRoutes(a.mux)
	leadEventHandler.RegisterRoutes(a.mux)

	return nil
}

// Start runs the HTTP server and the lead worker until Shutdown
func (a *App) Start() error {
	var handler http.Handler = a.mux

	handler = a.gracefulShutdownMiddleware(handler)

	if a.config.Tracing.Enabled {
		handler = middleware.TracingMiddleware(handler)
		a.logger.Info("OpenCensus tracing middleware enabled")
	}

	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.logger.WithField("address", addr).Info("Server starting")

	a.serverMu.Lock()
	if a.serverStarted != nil {
		select {
		case <-a.serverStarted:
		default:
			close(a.serverStarted)
		}
	}
	a.serverStarted = make(chan struct{})
	a.server = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := a.server
	serverStarted := a.serverStarted
	a.serverMu.Unlock()

	close(serverStarted)

	g, gctx := errgroup.WithContext(a.shutdownCtx)

	g.Go(func() error {
		if err := a.leadWorker.Start(gctx); err != nil {
			return fmt.Errorf("failed to start lead worker: %w", err)
		}
		<-gctx.Done()
		a.leadWorker.Stop()
		return nil
	})

	g.Go(func() error {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Shutdown stops accepting requests, drains in-flight ones and stops the worker
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Starting graceful shutdown...")

	a.shutdownCancel()

	a.serverMu.RLock()
	server := a.server
	a.serverMu.RUnlock()

	if server == nil {
		a.logger.Info("No server to shutdown")
		return a.cleanupResources()
	}

	a.logger.WithField("active_requests", a.getActiveRequestCount()).Info("Active requests at shutdown start")

	shutdownTimeout := a.shutdownTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < shutdownTimeout {
			shutdownTimeout = remaining
		}
	}
	if shutdownTimeout < 0 {
		shutdownTimeout = 0
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownErr := server.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		a.logger.WithField("error", shutdownErr.Error()).Warn("HTTP server shutdown did not complete cleanly")
	}

	requestsDone := make(chan struct{})
	go func() {
		a.requestWg.Wait()
		close(requestsDone)
	}()
	select {
	case <-requestsDone:
	case <-shutdownCtx.Done():
		a.logger.WithField("active_requests", a.getActiveRequestCount()).Warn("Shutdown timeout reached, forcing shutdown")
	}

	// the errgroup in Start also stops it; Stop is idempotent
	if a.leadWorker != nil {
		a.leadWorker.Stop()
	}

	if cleanupErr := a.cleanupResources(); cleanupErr != nil && shutdownErr == nil {
		shutdownErr = cleanupErr
	}

	if shutdownErr != nil {
		a.logger.WithField("error", shutdownErr.Error()).Error("Graceful shutdown completed with errors")
	} else {
		a.logger.Info("Graceful shutdown completed successfully")
	}
	return shutdownErr
}

func (a *App) cleanupResources() error {
	if a.limiter != nil {
		a.limiter.Stop()
	}

	if a.db != nil {
		if a.config.Tracing.Enabled {
			stopStats := ocsql.RecordStats(a.db, 5*time.Second)
			stopStats()
		}

		a.logger.Info("Closing database connection")
		if err := a.db.Close(); err != nil {
			a.logger.WithField("error", err.Error()).Error("Error closing database connection")
			return err
		}
	}

	return nil
}

// IsServerCreated safely checks if the server has been created
func (a *App) IsServerCreated() bool {
	a.serverMu.RLock()
	defer a.serverMu.RUnlock()
	return a.server != nil
}

// WaitForServerStart waits for the server to be created.
// Returns false if ctx expires first.
func (a *App) WaitForServerStart(ctx context.Context) bool {
	a.serverMu.RLock()
	started := a.serverStarted
	a.serverMu.RUnlock()

	select {
	case <-started:
		return a.IsServerCreated()
	case <-ctx.Done():
		return false
	}
}

// Initialize sets up all components of the application
func (a *App) Initialize() error {
	a.logger.WithField("version", a.config.Version).Info("Starting leadpipe")

	if err := a.InitTracing(); err != nil {
		return err
	}
	if err := a.InitDB(); err != nil {
		return err
	}
	if err := a.InitRepositories(); err != nil {
		return err
	}
	if err := a.InitServices(); err != nil {
		return err
	}
	if err := a.InitHandlers(); err != nil {
		return err
	}

	a.logger.Info("Application successfully initialized")
	return nil
}

func (a *App) GetConfig() *config.Config {
	return a.config
}

func (a *App) GetLogger() logger.Logger {
	return a.logger
}

func (a *App) GetMux() *http.ServeMux {
	return a.mux
}

func (a *App) GetDB() *sql.DB {
	return a.db
}

func (a *App) GetLeadWorker() *queue.LeadWorker {
	return a.leadWorker
}

func (a *App) GetLeadEventRepository() domain.LeadEventRepository {
	return a.leadEventRepo
}

func (a *App) GetLeadEventService() domain.LeadEventService {
	return a.leadEventService
}

func (a *App) incrementActiveRequests() {
	atomic.AddInt64(&a.activeRequests, 1)
	a.requestWg.Add(1)
}

func (a *App) decrementActiveRequests() {
	atomic.AddInt64(&a.activeRequests, -1)
	a.requestWg.Done()
}

func (a *App) getActiveRequestCount() int64 {
	return atomic.LoadInt64(&a.activeRequests)
}

// GetActiveRequestCount returns the current number of active requests
func (a *App) GetActiveRequestCount() int64 {
	return a.getActiveRequestCount()
}

// SetShutdownTimeout sets the timeout for graceful shutdown
func (a *App) SetShutdownTimeout(timeout time.Duration) {
	a.shutdownTimeout = timeout
}

// GetShutdownContext is cancelled once Shutdown begins
func (a *App) GetShutdownContext() context.Context {
	return a.shutdownCtx
}

func (a *App) isShuttingDown() bool {
	select {
	case <-a.shutdownCtx.Done():
		return true
	default:
		return false
	}
}

// gracefulShutdownMiddleware tracks in-flight requests and refuses new ones
// once shutdown has started
func (a *App) gracefulShutdownMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.isShuttingDown() {
			httpHandler.WriteJSONError(w, "Server is shutting down", http.StatusServiceUnavailable)
			return
		}

		a.incrementActiveRequests()
		defer a.decrementActiveRequests()

		next.ServeHTTP(w, r)
	})
}

var _ AppInterface = (*App)(nil)

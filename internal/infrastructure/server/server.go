package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/Sandbox/backend/internal/api/http"
	"github.com/GriffinCanCode/Sandbox/backend/internal/api/middleware"
	"github.com/GriffinCanCode/Sandbox/backend/internal/api/ws"
	"github.com/GriffinCanCode/Sandbox/backend/internal/compiler"
	"github.com/GriffinCanCode/Sandbox/backend/internal/domain/templates"
	"github.com/GriffinCanCode/Sandbox/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/Sandbox/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/Sandbox/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/Sandbox/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/Sandbox/backend/internal/jscheck"
	"github.com/GriffinCanCode/Sandbox/backend/internal/pipeline"
	"github.com/GriffinCanCode/Sandbox/backend/internal/remote"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/utils"
)

// StreamPath is the live preview WebSocket route
const StreamPath = "/api/preview/stream"

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	http     *http.Server
	config   *config.Config
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	tracer   *tracing.Tracer
	pipeline *pipeline.Pipeline
	compiler *compiler.Service
	remote   *remote.Client
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	logger.Info("Initializing Sandbox preview server",
		zap.String("addr", cfg.Addr()),
		zap.String("compiler_url", cfg.Compiler.URL),
		zap.Bool("compiler_local", cfg.Compiler.Local),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()
	tracer := tracing.New("sandbox-backend", logger.Logger)

	svc, err := newCompileService(cfg, metrics, logger)
	if err != nil {
		tracer.Close()
		return nil, err
	}

	runtime := runtimeFrom(cfg.Runtime)
	opts := []pipeline.Option{
		pipeline.WithTransformer(pipeline.NewTransformer(
			pipeline.WithRuntime(runtime),
			pipeline.WithChecker(jscheck.New(0)),
		)),
		pipeline.WithLogger(logger.Component("pipeline").Logger),
		pipeline.WithObserver(metrics),
	}

	var remoteClient *remote.Client
	switch {
	case cfg.Compiler.URL != "":
		remoteClient = remote.NewClient(remote.Config{
			BaseURL:   cfg.Compiler.URL,
			Timeout:   cfg.Compiler.Timeout,
			Retries:   cfg.Compiler.Retries,
			RateLimit: cfg.Compiler.RateLimit,
			Logger:    logger.Logger,
			Recorder:  metrics,
		})
		opts = append(opts, pipeline.WithRemote(remoteClient))
		logger.Info("Using remote compile service", zap.String("url", remoteClient.BaseURL()))
	case cfg.Compiler.Local:
		opts = append(opts, pipeline.WithRemote(compiler.NewLocal(svc)))
		logger.Info("Using in-process compile service")
	default:
		logger.Warn("No compile service configured; every preview takes the in-process path")
	}
	p := pipeline.New(opts...)

	catalog, err := templates.Load()
	if err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	router.Use(middleware.CORS(corsCfg))

	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}
	router.Use(middleware.Gzip("/metrics", StreamPath))

	handlers := apihttp.NewHandlers(p, svc, catalog, metrics, logger.Component("http").Logger)
	wsHandler := ws.NewHandler(p, metrics, logger.Component("stream").Logger, ws.Config{
		Debounce:        cfg.Preview.Debounce,
		MaxMessageBytes: cfg.Preview.MaxMessageBytes,
		Limits:          svc.Limits(),
	})

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	api := router.Group("/api")
	{
		// Compile service
		api.POST("/compile", handlers.Compile)
		api.POST("/compile/:framework", handlers.Compile)

		// Preview
		api.POST("/preview", handlers.Preview)
		api.POST("/preview/render", handlers.Render)
		api.POST("/logs", handlers.StreamLogs)

		// Templates
		api.GET("/frameworks", handlers.Frameworks)
		api.GET("/templates", handlers.ListTemplates)
		api.GET("/templates/:id", handlers.GetTemplate)

		api.GET("/stats", handlers.Stats)
	}
	router.GET(StreamPath, wsHandler.HandleConnection)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: cfg.Server.ReadTimeout,
			ReadTimeout:       cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
		},
		config:   cfg,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		pipeline: p,
		compiler: svc,
		remote:   remoteClient,
	}, nil
}

func newCompileService(cfg *config.Config, metrics *monitoring.Metrics, logger *logging.Logger) (*compiler.Service, error) {
	cache, err := compiler.NewCache(cfg.Cache.Size, metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create compile cache: %w", err)
	}

	opts := []compiler.Option{
		compiler.WithCache(cache),
		compiler.WithLimits(utils.Limits{
			MaxFiles:     cfg.Compiler.MaxFiles,
			MaxFileBytes: cfg.Compiler.MaxFileBytes,
			MaxBytes:     cfg.Compiler.MaxBytes,
		}),
		compiler.WithRuntime(runtimeFrom(cfg.Runtime)),
		compiler.WithLogger(logger.Component("compiler").Logger),
	}

	if cfg.Compiler.ToolchainFile != "" {
		toolchains, err := compiler.LoadToolchains(cfg.Compiler.ToolchainFile)
		if err != nil {
			return nil, err
		}
		logger.Info("Loaded toolchains",
			zap.String("file", cfg.Compiler.ToolchainFile),
			zap.Int("frameworks", len(toolchains.Frameworks())),
		)
		opts = append(opts, compiler.WithToolchains(toolchains))
	}
	return compiler.NewService(opts...), nil
}

func runtimeFrom(rc config.RuntimeConfig) pipeline.Runtime {
	return pipeline.Runtime{
		React:    rc.React,
		ReactDOM: rc.ReactDOM,
		Babel:    rc.Babel,
		Vue:      rc.Vue,
	}
}

// Router exposes the engine for tests and embedding
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Pipeline returns the configured compile pipeline
func (s *Server) Pipeline() *pipeline.Pipeline {
	return s.pipeline
}

// Run starts the server and blocks until it is shut down
func (s *Server) Run() error {
	fields := append([]zap.Field{zap.String("addr", s.http.Addr)}, s.describe()...)
	s.logger.Info("Starting HTTP server", fields...)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()
	}
	err := s.http.Shutdown(ctx)
	s.Close()
	return err
}

// Close releases background resources
func (s *Server) Close() {
	s.tracer.Close()
	_ = s.logger.Sync()
}

// describe summarizes the wiring for the startup log
func (s *Server) describe() []zap.Field {
	fields := []zap.Field{
		zap.Int("cache_size", s.config.Cache.Size),
		zap.Duration("preview_debounce", s.config.Preview.Debounce),
		zap.Duration("shutdown_timeout", s.config.Server.ShutdownTimeout),
	}
	if s.remote != nil {
		fields = append(fields,
			zap.String("compiler_url", s.remote.BaseURL()),
			zap.String("breaker", s.remote.BreakerState().String()))
	}
	return fields
}

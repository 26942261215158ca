package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khaledhikmat/vs-analyzer/model"
	"github.com/khaledhikmat/vs-analyzer/pipeline"
	"github.com/khaledhikmat/vs-analyzer/service/config"
	"github.com/khaledhikmat/vs-analyzer/service/lgr"
	"github.com/khaledhikmat/vs-analyzer/service/metrics"
	"github.com/khaledhikmat/vs-analyzer/service/storage"
	"golang.org/x/xerrors"
)

// Analyzer runs the frame pipeline over a stored upload.
type Analyzer interface {
	Analyze(ctx context.Context, path string, opts pipeline.Options) model.AnalysisResult
}

type Server struct {
	cfgSvc     config.IService
	analyzer   Analyzer
	storageSvc storage.IService
	router     *gin.Engine
	httpServer *http.Server
}

func NewServer(cfgSvc config.IService, analyzer Analyzer, storageSvc storage.IService) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(ginLogger())
	router.Use(gin.Recovery())

	s := &Server{
		cfgSvc:     cfgSvc,
		analyzer:   analyzer,
		storageSvc: storageSvc,
		router:     router,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.POST("/analyze", s.handleAnalyze)
	s.router.POST("/encode-test", s.handleEncodeTest)
	s.router.GET("/healthz", s.handleHealth)

	if s.cfgSvc.GetMetricsEnabled() {
		s.router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
}

// Start listens in the background. Listener failures after startup are
// reported on the returned channel.
func (s *Server) Start() <-chan error {
	errs := make(chan error, 1)

	addr := s.cfgSvc.GetHTTPAddress()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
	}

	go func() {
		defer close(errs)

		lgr.Logger.Info("starting http server", slog.String("address", addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- xerrors.Errorf("http server on %s: %w", addr, err)
		}
	}()

	return errs
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	lgr.Logger.Info("stopping http server")
	return s.httpServer.Shutdown(ctx)
}

func ginLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		lgr.Logger.Info("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// Package http exposes the naming service over HTTP.
package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/benzenoid/nomenclator/internal/application/naming"
	"github.com/benzenoid/nomenclator/internal/config"
	"github.com/benzenoid/nomenclator/internal/infrastructure/monitoring/logging"
	"github.com/benzenoid/nomenclator/pkg/errors"
)

// Server wraps the gin router and the underlying http.Server.
type Server struct {
	cfg    config.ServerConfig
	logger logging.Logger
	router *gin.Engine
	srv    *http.Server
}

// NewServer builds the route tree around the naming service.  gatherer
// backs /metrics; pass nil to disable the endpoint.
func NewServer(cfg config.ServerConfig, svc *naming.Service, logger logging.Logger, gatherer prometheus.Gatherer) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.Named("http")

	if cfg.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	h := &handler{svc: svc}

	router.GET("/healthz", h.health)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/name", h.name)
		v1.POST("/batch", h.batch)
	}

	return &Server{
		cfg:    cfg,
		logger: logger,
		router: router,
		srv: &http.Server{
			Addr:         cfg.Addr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Start listens and serves until Stop is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", logging.String("addr", s.cfg.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, errors.CodeUnavailable, "http server failed")
	}
	return nil
}

// Stop drains in-flight requests and shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "http server shutdown")
	}
	return nil
}

// Handler exposes the route tree, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("elapsed", time.Since(start)))
	}
}

// statusFor maps an error code to the HTTP status of the failure.
func statusFor(err error) int {
	code := errors.GetCode(err)
	switch {
	case code == errors.CodeInvalidParam,
		strings.HasPrefix(code.String(), "MOL_"):
		return http.StatusBadRequest
	case code == errors.CodeNotFound:
		return http.StatusNotFound
	case code == errors.CodeTimeout:
		return http.StatusGatewayTimeout
	case code == errors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

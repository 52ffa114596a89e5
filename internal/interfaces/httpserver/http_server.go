// Package httpserver assembles the gin engine and its route tree.
package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/miracle078/adogent/internal/config"
	"github.com/miracle078/adogent/internal/interfaces/httpserver/middlewares"
	v1 "github.com/miracle078/adogent/internal/interfaces/httpserver/routes/v1"
)

type HTTPServer struct {
	engine  *gin.Engine
	server  *http.Server
	v1Route *v1.V1Route
	db      *gorm.DB
	config  *config.Config
	logger  zerolog.Logger
}

func NewHTTPServer(
	v1Route *v1.V1Route,
	db *gorm.DB,
	cfg *config.Config,
	logger zerolog.Logger,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	s := &HTTPServer{
		engine:  gin.New(),
		v1Route: v1Route,
		db:      db,
		config:  cfg,
		logger:  logger,
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(middlewares.RequestID())
	s.engine.Use(middlewares.TracingMiddleware(cfg.ServiceName))
	s.engine.Use(middlewares.LoggingMiddleware(logger))
	s.engine.Use(middlewares.MetricsMiddleware())
	s.engine.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/readyz", s.readyz)

	s.v1Route.RegisterRoutes(s.engine.Group("/v1"))
	return s
}

// Run serves HTTP until the context is cancelled, then drains in-flight
// requests.
func (s *HTTPServer) Run(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.HTTPPort),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.logger.Info().Int("port", s.config.HTTPPort).Msg("HTTP server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

// readyz verifies the database connection is alive.
func (s *HTTPServer) readyz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

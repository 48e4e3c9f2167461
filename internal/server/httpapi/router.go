package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/pagebuilder/internal/logging"
	"github.com/gin-gonic/gin"
)

func NewRouter(h *Handler, log logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))

	r.GET("/healthcheck", h.HealthCheck)
	r.GET("/site/:slug", h.Site)

	api := r.Group("/api")
	{
		api.GET("/registry", h.Registry)
		api.POST("/preview", h.Preview)

		api.GET("/pages", h.ListPages)
		api.POST("/pages", h.CreatePage)
		api.GET("/pages/:id", h.GetPage)
		api.PUT("/pages/:id", h.UpdatePage)
		api.DELETE("/pages/:id", h.DeletePage)
		api.POST("/pages/:id/publish", h.PublishPage)
	}
	return r
}

func requestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []any{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			log.Error(ctx, "HTTP request", fields...)
		case status >= 400:
			log.Warn(ctx, "HTTP request", fields...)
		default:
			log.Info(ctx, "HTTP request", fields...)
		}
	}
}

type Server struct {
	address string
	engine  *gin.Engine
	logger  logging.Logger
}

func NewServer(address string, engine *gin.Engine, l logging.Logger) *Server {
	return &Server{address: address, engine: engine, logger: l.With("module", "http_server")}
}

// Run serves until ctx is done, then shuts down with a five second grace
// period.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.address, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

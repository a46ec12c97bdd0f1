package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/elitelearners/coursegen/internal/middleware"
)

// Options configures the preview server
type Options struct {
	// Dir is the course root to serve
	Dir            string
	Port           string
	AllowedOrigins []string
	// Debug switches gin to debug mode
	Debug bool
}

// Server serves a generated course tree over HTTP.
type Server struct {
	opts    Options
	router  *gin.Engine
	handler http.Handler
	logger  zerolog.Logger
	httpSrv *http.Server
}

// NewServer creates the preview server for opts.Dir
func NewServer(opts Options, logger zerolog.Logger) (*Server, error) {
	info, err := os.Stat(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open course directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", opts.Dir)
	}
	if _, err := os.Stat(filepath.Join(opts.Dir, "index.html")); err != nil {
		logger.Warn().Str("dir", opts.Dir).Msg("Course directory has no index.html")
	}

	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{opts: opts, logger: logger}
	s.router = s.setupRouter()
	s.handler = cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(s.router)
	return s, nil
}

// setupRouter registers the health route, a stand-in for the PHP progress endpoint and
// the course files
func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(s.logger))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	// PHP is not executed in preview; answer like a logged-in session with no progress
	router.GET("/AUTH/handler.php", func(c *gin.Context) {
		if c.Query("courseTitle") != "" {
			c.JSON(http.StatusOK, gin.H{"progress": 0})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userID": 0})
	})
	router.POST("/AUTH/handler.php", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "preview": true})
	})

	courseFiles := http.Dir(s.opts.Dir)
	router.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
			return
		}
		c.FileFromFS(c.Request.URL.Path, courseFiles)
	})

	return router
}

// Handler returns the HTTP handler with CORS applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run starts the HTTP server and blocks until ctx is done, a signal arrives or the
// server fails. It then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         net.JoinHostPort("", s.opts.Port),
		Handler:      s.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Channel to listen for errors starting the server
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpSrv.Addr).Str("dir", s.opts.Dir).Msg("Preview server listening")
		serverErrors <- s.httpSrv.ListenAndServe()
	}()

	// Channel to listen for OS signals
	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(osSignals)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	case <-ctx.Done():
		s.logger.Info().Msg("Context cancelled, initiating shutdown...")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if s.httpSrv == nil {
		return nil
	}

	s.logger.Info().Msg("Shutting down HTTP server...")
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		s.logger.Error().Err(err).Msg("HTTP server shutdown error")
		return fmt.Errorf("server shutdown completed with errors: %w", err)
	}
	s.logger.Info().Msg("HTTP server gracefully stopped.")
	return nil
}

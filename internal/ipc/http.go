package ipc

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/thoreinstein/folco/internal/errors"
)

// DefaultShutdownTimeout bounds graceful HTTP shutdown.
const DefaultShutdownTimeout = 5 * time.Second

// maxArgsBytes caps the size of a command's JSON arguments.
const maxArgsBytes = 1 << 20

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	// Logger receives request logs. Nil uses slog.Default().
	Logger *slog.Logger

	// Health, if set, is reported under "state" by GET /health.
	Health func() any
}

// NewHTTPHandler builds the gin engine serving router.
func NewHTTPHandler(router *Router, cfg HTTPConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	engine := gin.New()
	engine.Use(requestID(logger))
	engine.Use(recovery(logger))
	engine.Use(requestLogger(logger))

	engine.GET("/health", func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		if cfg.Health != nil {
			body["state"] = cfg.Health()
		}
		c.JSON(http.StatusOK, body)
	})

	engine.GET("/commands", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"commands": router.Commands()})
	})

	engine.POST("/invoke/:command", func(c *gin.Context) {
		id := c.GetString(RequestIDHeader)
		name := c.Param("command")
		if !router.Has(name) {
			c.JSON(http.StatusNotFound, Response{ID: id, Error: (&UnknownCommandError{Name: name}).Error()})
			return
		}

		args, err := io.ReadAll(io.LimitReader(c.Request.Body, maxArgsBytes+1))
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{ID: id, Error: "reading request body: " + err.Error()})
			return
		}
		if len(args) > maxArgsBytes {
			c.JSON(http.StatusRequestEntityTooLarge, Response{ID: id, Error: "request body too large"})
			return
		}

		resp := router.Invoke(c.Request.Context(), Request{ID: id, Cmd: name, Args: args})
		c.JSON(http.StatusOK, resp)
	})

	return engine
}

// Server runs an http.Server until its context is cancelled.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer creates a server for handler on addr.
func NewServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger.With("component", "http"),
	}
}

// Run listens on the configured address and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", s.srv.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serving http")
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return s.srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

package httpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/modkit/lifecycle"
	"github.com/kbukum/modkit/logger"
	"github.com/kbukum/modkit/observability"
)

// Server is a Gin-backed HTTP server that takes part in the application
// lifecycle: it starts listening in OnApplicationBootstrap, after every
// controller registered its routes in its constructor, and stops in
// OnApplicationShutdown.
type Server struct {
	cfg        Config
	engine     *gin.Engine
	httpServer *http.Server
	log        *logger.Logger

	mu       sync.Mutex
	listener net.Listener
}

var (
	_ lifecycle.BootstrapHook     = (*Server)(nil)
	_ lifecycle.ShutdownHook      = (*Server)(nil)
	_ lifecycle.Describable       = (*Server)(nil)
	_ lifecycle.RouteProvider     = (*Server)(nil)
	_ observability.HealthChecker = (*Server)(nil)
)

// New creates a Server with the standard middleware stack applied.
func New(cfg Config, log *logger.Logger) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = logger.WithComponent("http-server")
	}

	engine := gin.New()
	engine.Use(Recovery(log), RequestID(), RequestLogger(log))

	// h2c serves HTTP/2 without TLS next to HTTP/1.1.
	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          cfg.IdleTimeout,
	}

	return &Server{
		cfg:    cfg,
		engine: engine,
		log:    log,
		httpServer: &http.Server{
			Addr:         cfg.Address(),
			Handler:      h2c.NewHandler(engine, h2s),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Engine returns the Gin engine for route registration.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start binds the port and serves in a goroutine. It returns once the
// listener is bound.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error("server error", logger.MergeWithError(nil, err))
		}
	}()

	s.log.Info("HTTP server started", logger.Fields("addr", ln.Addr().String()))
	return nil
}

// Stop gracefully shuts the server down within the configured shutdown timeout.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	started := s.listener != nil
	s.mu.Unlock()
	if !started {
		return nil
	}

	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("HTTP server shut down")
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// OnApplicationBootstrap starts serving.
func (s *Server) OnApplicationBootstrap(ctx context.Context) error {
	return s.Start(ctx)
}

// OnApplicationShutdown stops serving.
func (s *Server) OnApplicationShutdown(ctx context.Context, signal string) error {
	return s.Stop(ctx)
}

// Describe reports the server for the startup summary.
func (s *Server) Describe() lifecycle.Description {
	return lifecycle.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: s.Addr(),
		Port:    s.cfg.Port,
	}
}

// CheckHealth reports down until the server is listening.
func (s *Server) CheckHealth(ctx context.Context) observability.Health {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return observability.Health{Name: "http-server", Status: observability.HealthStatusDown, Message: "not listening"}
	}
	return observability.Health{Name: "http-server", Status: observability.HealthStatusUp}
}

// requestTimeout is the default deadline handlers put on downstream calls.
const requestTimeout = 2 * time.Minute

// RequestContext returns the request context bounded by the default request timeout.
func RequestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

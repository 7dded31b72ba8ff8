package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/voicedoc/logger"
	"github.com/kbukum/voicedoc/observability"
	"github.com/kbukum/voicedoc/server/endpoint"
	"github.com/kbukum/voicedoc/server/middleware"
)

// Server is the console's HTTP server: a Gin engine behind a server-level
// middleware chain, served over HTTP/1.1 and h2c on one port.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     Config
	log        *logger.Logger
	chain      []middleware.Middleware
	addr       string
	tls        bool
}

// New creates a new Server. No middleware is applied until ApplyMiddleware.
func New(cfg Config, log *logger.Logger) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine: gin.New(),
		config: cfg,
		log:    log.WithComponent("server"),
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}
	return s
}

// GinEngine returns the underlying Gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Handler returns the engine wrapped in the server-level middleware chain
// and h2c.
func (s *Server) Handler() http.Handler {
	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}
	return h2c.NewHandler(middleware.Chain(s.chain...)(s.engine), h2s)
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine. A configured certificate turns
// the listener into HTTPS.
func (s *Server) Start(_ context.Context) error {
	tlsCfg, err := s.config.TLS.Server()
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	if tlsCfg != nil {
		listener = tls.NewListener(listener, tlsCfg)
	}
	s.addr = listener.Addr().String()
	s.tls = tlsCfg != nil
	s.httpServer.Handler = s.Handler()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	s.log.Info("console listening", logger.Fields("addr", s.addr, "tls", s.tls))
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline. Open event
// streams end when their request contexts are canceled.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("server shutdown error", logger.Fields(logger.FieldError, err.Error()))
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("console stopped")
	return nil
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	if s.addr != "" {
		return s.addr
	}
	return s.httpServer.Addr
}

// ApplyMiddleware installs the standard chain around every route: recovery,
// request ID, CORS, body-size limit, request logging and, when metrics is
// non-nil, request metrics.
func (s *Server) ApplyMiddleware(metrics *observability.Metrics) {
	s.chain = []middleware.Middleware{
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.CORS(&s.config.CORS),
		middleware.BodySizeLimit(s.config.MaxBodySize),
		middleware.RequestLogger(s.log),
	}
	if metrics != nil {
		s.chain = append(s.chain, middleware.Metrics(metrics))
	}
}

// RegisterDefaultEndpoints registers /health and /version.
func (s *Server) RegisterDefaultEndpoints(serviceName string, checker endpoint.HealthChecker) {
	s.engine.GET("/health", endpoint.Health(serviceName, checker))
	s.engine.GET("/version", endpoint.Version())
}

// ApplyDefaults applies the standard middleware and registers the default
// endpoints.
func (s *Server) ApplyDefaults(serviceName string, checker endpoint.HealthChecker, metrics *observability.Metrics) {
	s.ApplyMiddleware(metrics)
	s.RegisterDefaultEndpoints(serviceName, checker)
}

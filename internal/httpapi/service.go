// Package httpapi exposes GPT decomposition and shot sampling over HTTP, the
// same service shape as the teacher's internal/app + internal/server/router
// pair: a thin gin.Engine wrapper with a fixed route table and graceful
// shutdown.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inmzhang/leaky/internal/logger"
	"github.com/inmzhang/leaky/qc/engine"
	"github.com/inmzhang/leaky/qc/engine/itsu"
)

// ErrNoServerToShutdown mirrors the teacher's router sentinel: Shutdown was
// called before Listen ever ran.
var ErrNoServerToShutdown = errors.New("httpapi: no server to shut down")

// route is a single method/pattern/handler registration.
type route struct {
	method  string
	pattern string
	handler gin.HandlerFunc
}

// Service is the HTTP surface over qc/gpt and qc/sampler.
type Service struct {
	*gin.Engine
	log        *logger.Logger
	newEngine  func() engine.StabilizerEngine
	httpServer *http.Server
}

// Options configures a Service.
type Options struct {
	Log *logger.Logger
	// NewEngine builds a fresh StabilizerEngine per sample shot; nil means
	// itsu.New (the itsubaki/q-backed adapter).
	NewEngine       func() engine.StabilizerEngine
	CORSAllowOrigin string
}

// New builds a Service with its routes registered.
func New(options Options) *Service {
	log := options.Log
	if log == nil {
		log = logger.NewLogger(logger.LoggerOptions{})
	}
	newEngine := options.NewEngine
	if newEngine == nil {
		newEngine = func() engine.StabilizerEngine { return itsu.New(log) }
	}

	gin.SetMode(gin.ReleaseMode)
	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery())
	ginEngine.Use(requestWrapper(log))
	ginEngine.Use(cors(corsOptions{origin: options.CORSAllowOrigin}))
	ginEngine.NoRoute(func(c *gin.Context) { c.JSON(http.StatusNotFound, gin.H{"error": "not found"}) })

	s := &Service{
		Engine:    ginEngine,
		log:       log.SpawnForService("httpapi"),
		newEngine: newEngine,
	}

	for _, r := range s.routes() {
		switch r.method {
		case http.MethodGet:
			ginEngine.GET(r.pattern, r.handler)
		case http.MethodPost:
			ginEngine.POST(r.pattern, r.handler)
		}
		s.log.Info().Str("method", r.method).Str("pattern", r.pattern).Msg("route registered")
	}

	return s
}

func (s *Service) routes() []route {
	return []route{
		{method: http.MethodPost, pattern: "/decompose", handler: s.handleDecompose},
		{method: http.MethodPost, pattern: "/sample", handler: s.handleSample},
	}
}

// Listen starts serving on port; if localOnly, it binds to 127.0.0.1 only.
func (s *Service) Listen(port int, localOnly bool) error {
	addr := fmt.Sprintf(":%d", port)
	if localOnly {
		addr = fmt.Sprintf("127.0.0.1:%d", port)
	}
	s.httpServer = &http.Server{Addr: addr, Handler: s.Engine}
	s.log.Info().Int("port", port).Bool("localOnly", localOnly).Msg("starting httpapi service")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server started by Listen.
func (s *Service) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return ErrNoServerToShutdown
	}
	return s.httpServer.Shutdown(ctx)
}

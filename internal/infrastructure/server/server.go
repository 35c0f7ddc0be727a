// Package server serves the graph document and the front-end assets over
// HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ersonp/lore-graph/internal/domain/entities"
	"github.com/ersonp/lore-graph/internal/infrastructure/encoders"
	"github.com/ersonp/lore-graph/internal/infrastructure/metrics"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// BuildFunc produces a fresh document from the configured source.
type BuildFunc func(ctx context.Context) (*entities.GraphDocument, error)

// Options configures a Server.
type Options struct {
	Addr  string
	Build BuildFunc
	// Metrics, when set, records builds and requests and is exposed on
	// /metrics.
	Metrics *metrics.Prometheus
	Logger  *log.Logger
}

// Server holds the current document and answers requests from it. A
// failed rebuild replaces the document with the error, so clients never
// receive a stale graph.
type Server struct {
	echo   *echo.Echo
	addr   string
	build  BuildFunc
	rec    metrics.Recorder
	logger *log.Logger

	listener net.Listener

	mu    sync.RWMutex
	state snapshot
}

// snapshot is one build outcome with its encodings prepared.
type snapshot struct {
	doc  *entities.GraphDocument
	json []byte
	gml  []byte
	err  error
}

// New creates a server. Call Rebuild before serving.
func New(opts Options) *Server {
	s := &Server{
		echo:   echo.New(),
		addr:   opts.Addr,
		build:  opts.Build,
		rec:    metrics.Noop{},
		logger: opts.Logger,
		state:  snapshot{err: errors.New("graph not built yet")},
	}
	if opts.Metrics != nil {
		s.rec = opts.Metrics
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true

	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			s.rec.IncRequestTotal(v.RoutePath, v.Status)
			s.logger.Debug("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			)
			return nil
		},
	}))
	s.echo.Use(middleware.Recover())

	s.registerRoutes(opts.Metrics)
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Rebuild runs the build and swaps in the outcome. The build error, if
// any, is returned and also served until the next successful rebuild.
func (s *Server) Rebuild(ctx context.Context) error {
	next := s.prepare(ctx)

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	if next.err != nil {
		return next.err
	}
	s.rec.SetGraphSize(len(next.doc.Nodes), len(next.doc.Edges))
	return nil
}

func (s *Server) prepare(ctx context.Context) snapshot {
	doc, err := s.build(ctx)
	if err != nil {
		return snapshot{err: err}
	}

	var jsonBuf, gmlBuf bytes.Buffer
	if err := (&encoders.JSONEncoder{}).Encode(&jsonBuf, doc); err != nil {
		return snapshot{err: err}
	}
	if err := (&encoders.GMLEncoder{}).Encode(&gmlBuf, doc); err != nil {
		return snapshot{err: err}
	}
	return snapshot{doc: doc, json: jsonBuf.Bytes(), gml: gmlBuf.Bytes()}
}

func (s *Server) current() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Listen binds the configured address and returns the bound address,
// which differs from the configured one when the port is 0.
func (s *Server) Listen() (net.Addr, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	s.listener = ln
	s.echo.Listener = ln
	return ln.Addr(), nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s.listener == nil {
		if _, err := s.Listen(); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", s.listener.Addr().String())
		if err := s.echo.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down server")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	err := <-errCh
	// Serve never took ownership of the listener if shutdown won the race.
	_ = s.listener.Close()
	return err
}

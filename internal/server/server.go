package server

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/casualjim/cfagui/events"
	"github.com/casualjim/cfagui/internal/broker"
	"github.com/casualjim/cfagui/internal/progressive"
	"github.com/casualjim/cfagui/pkg/slogx"
	"github.com/casualjim/cfagui/provider"
	"github.com/fogfish/opts"
	"github.com/gin-gonic/gin"
)

// ErrNoTopic is reported by the events endpoint when no topic is configured.
var ErrNoTopic = errors.New("server: no event topic configured")

// Runner is the part of the adapter the server drives.
type Runner interface {
	Execute(ctx context.Context, messages []provider.Message) iter.Seq[events.Event]
	ProgressiveGeneration(ctx context.Context, prompt string, stages []progressive.Stage) (iter.Seq[events.Event], error)
	ListAvailableModels(ctx context.Context) ([]string, error)
}

// Server serves runs over HTTP.
type Server struct {
	runner          Runner
	topic           broker.Topic
	shutdownTimeout time.Duration
	engine          *gin.Engine
}

// Option configures a Server.
type Option = opts.Option[Server]

var (
	// WithTopic publishes every run on topic and enables GET /v1/agui/events.
	WithTopic = opts.ForName[Server, broker.Topic]("topic")
	// WithShutdownTimeout bounds how long ListenAndServe waits for open
	// streams when its context is cancelled.
	WithShutdownTimeout = opts.ForName[Server, time.Duration]("shutdownTimeout")
)

// New creates a server for runner.
func New(runner Runner, options ...Option) (*Server, error) {
	if runner == nil {
		return nil, errors.New("server: runner is required")
	}
	s := &Server{
		runner:          runner,
		shutdownTimeout: 10 * time.Second,
	}
	if err := opts.Apply(s, options); err != nil {
		return nil, err
	}
	s.engine = s.routes()
	return s, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger())

	r.GET("/healthz", s.health)

	v1 := r.Group("/v1")
	v1.GET("/models", s.listModels)
	v1.POST("/agui/runs", s.createRun)
	v1.POST("/agui/progressive", s.createProgressive)
	v1.GET("/agui/events", s.streamTopic)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "http server listening", slogx.LoggerName("server"), slog.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// relay publishes seq on the configured topic, if any.
func (s *Server) relay(ctx context.Context, seq iter.Seq[events.Event]) iter.Seq[events.Event] {
	if s.topic == nil {
		return seq
	}
	return broker.Relay(ctx, s.topic, seq)
}

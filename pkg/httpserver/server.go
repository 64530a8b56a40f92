// Package httpserver runs the service's HTTP listener with graceful
// shutdown. Run blocks until the context is cancelled, a termination signal
// arrives, or the listener fails; Shutdown drains in-flight requests within
// the configured timeout. Configuration comes from env-tagged Config fields
// or functional options.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

var (
	// ErrStart indicates the listener failed to start or died unexpectedly.
	ErrStart = errors.New("httpserver: failed to start")
	// ErrShutdown indicates graceful shutdown did not complete in time.
	ErrShutdown = errors.New("httpserver: graceful shutdown failed")
)

// Config holds the listener settings, loaded from the environment.
type Config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Server wraps http.Server with lifecycle hooks and graceful shutdown.
type Server struct {
	cfg      *settings
	mu       sync.Mutex
	srv      *http.Server
	shutdown sync.Once
}

// New builds a Server from options. Without a WithLogger option the server
// logs nowhere.
func New(opts ...Option) *Server {
	cfg := &settings{
		addr:            ":8080",
		shutdownTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(discardHandler{})
	}
	return &Server{cfg: cfg}
}

// NewFromConfig builds a Server from an env-loaded Config. Zero values fall
// back to the package defaults; extra options are applied afterwards and
// win.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	all := make([]Option, 0, 5+len(opts))
	if cfg.Addr != "" {
		all = append(all, WithAddr(cfg.Addr))
	}
	if cfg.ReadTimeout > 0 {
		all = append(all, WithReadTimeout(cfg.ReadTimeout))
	}
	if cfg.WriteTimeout > 0 {
		all = append(all, WithWriteTimeout(cfg.WriteTimeout))
	}
	if cfg.IdleTimeout > 0 {
		all = append(all, WithIdleTimeout(cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout > 0 {
		all = append(all, WithShutdownTimeout(cfg.ShutdownTimeout))
	}
	return New(append(all, opts...)...)
}

// Run serves handler until the context is cancelled, SIGINT/SIGTERM
// arrives, or the listener fails. It returns nil on a clean shutdown and
// ErrStart otherwise. A Server runs at most once.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, errors.New("server already running"))
	}
	srv := s.cfg.server
	if srv == nil {
		srv = &http.Server{}
	}
	// Values already present on an injected http.Server win over options.
	if srv.Addr == "" {
		srv.Addr = s.cfg.addr
	}
	if srv.ReadTimeout == 0 {
		srv.ReadTimeout = s.cfg.readTimeout
	}
	if srv.WriteTimeout == 0 {
		srv.WriteTimeout = s.cfg.writeTimeout
	}
	if srv.IdleTimeout == 0 {
		srv.IdleTimeout = s.cfg.idleTimeout
	}
	srv.Handler = handler
	s.srv = srv
	s.mu.Unlock()

	for _, hook := range s.cfg.startHooks {
		hook(s.cfg.logger)
	}

	failed := make(chan error, 1)
	go func() { failed <- srv.ListenAndServe() }()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	var err error
	select {
	case <-ctx.Done():
		_ = s.Shutdown(context.Background())
		err = <-failed
	case <-signals:
		_ = s.Shutdown(context.Background())
		err = <-failed
	case err = <-failed:
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrStart, err)
	}
	return nil
}

// Shutdown drains the server within the configured timeout and runs the
// stop hooks. Safe to call repeatedly; only the first call does work.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdown.Do(func() {
		s.mu.Lock()
		srv := s.srv
		s.mu.Unlock()
		if srv == nil {
			return
		}
		ctx, cancel := context.WithTimeout(ctx, s.cfg.shutdownTimeout)
		defer cancel()
		err = srv.Shutdown(ctx)
		for _, hook := range s.cfg.stopHooks {
			hook(s.cfg.logger)
		}
	})

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}

// discardHandler drops every record.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

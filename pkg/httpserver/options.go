package httpserver

import (
	"log/slog"
	"net/http"
	"time"
)

type settings struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	server          *http.Server
	logger          *slog.Logger
	startHooks      []func(*slog.Logger)
	stopHooks       []func(*slog.Logger)
}

// Option configures the server. Options validate eagerly and panic on
// nonsense values so misconfiguration surfaces at startup.
type Option func(*settings)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	if addr == "" {
		panic("httpserver: empty addr")
	}
	return func(s *settings) { s.addr = addr }
}

// WithReadTimeout bounds reading the full request.
func WithReadTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("httpserver: read timeout must be positive")
	}
	return func(s *settings) { s.readTimeout = d }
}

// WithWriteTimeout bounds writing the response.
func WithWriteTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("httpserver: write timeout must be positive")
	}
	return func(s *settings) { s.writeTimeout = d }
}

// WithIdleTimeout bounds keep-alive idle time.
func WithIdleTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("httpserver: idle timeout must be positive")
	}
	return func(s *settings) { s.idleTimeout = d }
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("httpserver: shutdown timeout must be positive")
	}
	return func(s *settings) { s.shutdownTimeout = d }
}

// WithServer injects a pre-built http.Server. Fields already set on it take
// precedence over the package options.
func WithServer(srv *http.Server) Option {
	if srv == nil {
		panic("httpserver: nil server")
	}
	return func(s *settings) { s.server = srv }
}

// WithLogger supplies the logger used by hooks and health checks. Nil keeps
// the silent default.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithStartHook runs fn once the server starts listening.
func WithStartHook(fn func(*slog.Logger)) Option {
	if fn == nil {
		panic("httpserver: nil start hook")
	}
	return func(s *settings) { s.startHooks = append(s.startHooks, fn) }
}

// WithStopHook runs fn after the server has shut down.
func WithStopHook(fn func(*slog.Logger)) Option {
	if fn == nil {
		panic("httpserver: nil stop hook")
	}
	return func(s *settings) { s.stopHooks = append(s.stopHooks, fn) }
}

// Package logger builds the service's slog loggers. A single factory, New,
// assembles a *slog.Logger from functional options: output format and level,
// static attributes, and ContextExtractor callbacks that copy request-scoped
// values (request ID, tenant, environment) onto every record logged with a
// context. Attribute constructors in attr.go keep key names consistent
// across packages.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/domuslabs/domus/pkg/environment"
)

// Format selects the handler implementation.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Option configures logger creation.
type Option func(*settings)

type settings struct {
	level      slog.Level
	format     Format
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

// WithLevel sets the minimum level.
func WithLevel(l slog.Level) Option {
	return func(s *settings) { s.level = l }
}

// WithFormat sets the output format. An unknown format panics so a
// misconfigured process fails at startup, not mid-request.
func WithFormat(f Format) Option {
	return func(s *settings) {
		switch f {
		case FormatJSON, FormatText:
			s.format = f
		default:
			panic(fmt.Errorf("logger: unknown format %q", f))
		}
	}
}

// WithOutput redirects log output. Nil writers are ignored.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.output = w
		}
	}
}

// WithAttr attaches static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(s *settings) {
		s.attrs = append(s.attrs, attrs...)
	}
}

// WithContextExtractors registers callbacks that pull attributes from the
// log call's context. Nil extractors are dropped.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(s *settings) {
		for _, ex := range extractors {
			if ex != nil {
				s.extractors = append(s.extractors, ex)
			}
		}
	}
}

// WithDevelopment applies development defaults: text output at debug level,
// tagged with the service name.
func WithDevelopment(service string) Option {
	return preset(service, environment.Development, slog.LevelDebug, FormatText)
}

// WithStaging applies staging defaults: JSON output at info level.
func WithStaging(service string) Option {
	return preset(service, environment.Staging, slog.LevelInfo, FormatJSON)
}

// WithProduction applies production defaults: JSON output at info level.
func WithProduction(service string) Option {
	return preset(service, environment.Production, slog.LevelInfo, FormatJSON)
}

// WithEnvironment picks the preset matching the environment string.
func WithEnvironment(env, service string) Option {
	switch environment.Parse(env) {
	case environment.Production:
		return WithProduction(service)
	case environment.Staging:
		return WithStaging(service)
	default:
		return WithDevelopment(service)
	}
}

func preset(service string, env environment.Environment, level slog.Level, format Format) Option {
	return func(s *settings) {
		if service == "" {
			return
		}
		s.level = level
		s.format = format
		s.attrs = append(s.attrs,
			slog.String("service", service),
			slog.String("env", string(env)),
		)
	}
}

// New builds the logger. Defaults are production-safe: JSON at info level on
// stdout.
func New(opts ...Option) *slog.Logger {
	s := &settings{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}

	handlerOpts := &slog.HandlerOptions{Level: s.level}
	var handler slog.Handler
	if s.format == FormatText {
		handler = slog.NewTextHandler(s.output, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(s.output, handlerOpts)
	}
	if len(s.attrs) > 0 {
		handler = handler.WithAttrs(s.attrs)
	}
	return slog.New(newContextHandler(handler, s.extractors...))
}

// SetAsDefault installs l as the process-wide slog default.
func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

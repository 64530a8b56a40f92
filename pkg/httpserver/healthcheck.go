package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/domuslabs/domus/pkg/logger"
)

// HealthCheckHandler serves liveness and readiness probes. With no check
// functions it always reports ALIVE; with checks it runs each one and
// reports NOT_READY on the first failure, logging the cause.
func HealthCheckHandler(ctx context.Context, log *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		if len(checks) == 0 {
			_, _ = w.Write([]byte("ALIVE"))
			return
		}
		_, _ = w.Write([]byte("READY"))
	}
}

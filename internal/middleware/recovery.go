package middleware

import (
	"net/http"

	"star-admin-api/internal/logger"
	"star-admin-api/pkg/apierror"

	"go.uber.org/zap"
)

// Recovery turns a panic in a handler into a 500 envelope.
func Recovery(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.WithRequestID(log, GetRequestID(r.Context())).Error("panic recovered",
						zap.Any("panic", err),
						zap.String("path", r.URL.Path),
						zap.Stack("stack"),
					)

					writeError(w, apierror.InternalError("Internal server error"))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"net/http"

	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

// Recover turns a handler panic into a 500 envelope and logs it with the
// request id and, when authenticated, the caller's user id.
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					// net/http uses this sentinel to abort the response on purpose
					if err == http.ErrAbortHandler {
						panic(err)
					}

					fields := []zap.Field{
						zap.Any("error", err),
						zap.String("request_id", GetRequestID(r.Context())),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
						zap.Stack("stack"),
					}
					if p, ok := utils.GetPrincipalFromContext(r.Context()); ok {
						fields = append(fields, zap.Int64("user_id", p.UserID))
					}
					logger.Error("PANIC recovered", fields...)

					// Same envelope as every other error
					utils.ResponseInternalError(w, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

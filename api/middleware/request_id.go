package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/luxemart/storefront/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// maxRequestIDLen guards the log stream against oversized caller ids; the
// storefront client sends uuids, well under this.
const maxRequestIDLen = 64

// RequestID echoes the storefront client's X-Request-Id, minting one for
// callers that omit it, and tags the request logger with it.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if reqID == "" || len(reqID) > maxRequestIDLen {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

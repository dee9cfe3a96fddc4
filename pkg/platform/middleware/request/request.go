// Package request provides request ID middleware. Every request gets a UUID
// that is threaded through logs so a single verification or approval can be
// traced end to end.
package request

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"certledger/pkg/requestcontext"
)

const headerRequestID = "X-Request-ID"

// RequestID assigns a request ID (or adopts the caller-provided one) and
// stores it in the context and response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(headerRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		w.Header().Set(headerRequestID, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}

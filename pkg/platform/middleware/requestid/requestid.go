// Package requestid propagates a correlation id through the request context
// and echoes it back in the response headers.
package requestid

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"cnr/pkg/requestcontext"
)

// Header is the inbound and outbound correlation header.
const Header = "X-Request-ID"

const maxInboundLength = 128

// Middleware reuses a well-formed inbound X-Request-ID or generates one.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(Header))
		if id == "" || len(id) > maxInboundLength {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

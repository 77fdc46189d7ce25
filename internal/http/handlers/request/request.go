package request

import (
	"net"
	"net/http"
	"passreset/internal/core/domain/logging"

	"github.com/google/uuid"
)

const (
	REQUEST_ID_HEADER  = "X-Request-Id"
	REQUEST_ID_MAX_LEN = 128
)

func parseRequestID(r *http.Request) string {
	id := r.Header.Get(REQUEST_ID_HEADER)
	if id == "" || len(id) > REQUEST_ID_MAX_LEN {
		return uuid.NewString()
	}
	return id
}

func remoteAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SetRequestToContext tags the request context with an id and the client
// address so that every log record of the request carries them.
func SetRequestToContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := parseRequestID(r)
		w.Header().Set(REQUEST_ID_HEADER, id)
		ctx := logging.WithRequest(r.Context(), logging.Request{ID: id, RemoteAddr: remoteAddr(r)})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

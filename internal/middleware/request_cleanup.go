package middleware

import (
	"io"
	"net/http"
)

// maxDrainBytes bounds how much of an unread request body is drained before closing it
const maxDrainBytes = 256 << 10

// DrainAndCloseRequest drains what the handler left unread of the request body and closes it,
// so the underlying connection can be reused.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.CopyN(io.Discard, r.Body, maxDrainBytes)
				_ = r.Body.Close()
			}
		})
	}
}

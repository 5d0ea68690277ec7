// Package middleware holds chi-compatible HTTP middleware for the
// bandalign demo server.
package middleware

import (
	"log"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Logger logs one line per request: method, path, status, and duration.
// It composes with chi's own RequestID/RealIP/Recoverer middleware, which
// is why it reads the status via chimiddleware.WrapResponseWriter rather
// than wrapping http.ResponseWriter itself.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Printf("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/quilt/pkg/observability"
)

// logRequests logs every request once it completes and reports it to the
// HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		defer func() {
			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			dur := time.Since(start)
			hooks.OnResponse(r.Context(), r.Method, route, status, dur)
			s.logger.Info("request",
				"method", r.Method,
				"route", route,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", dur,
				"request_id", middleware.GetReqID(r.Context()))
		}()

		next.ServeHTTP(ww, r)
	})
}

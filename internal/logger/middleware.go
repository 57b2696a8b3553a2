package logger

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Middleware logs one API line per request with status and latency.
func (l *Logger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		path := r.URL.Path
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			path = fmt.Sprintf("%s [%s]", path, reqID)
		}
		l.LogAPI(r.Method, path, fmt.Sprint(status), time.Since(start).String())
	})
}

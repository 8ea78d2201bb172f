package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/Leopold1975/notes_app/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

const maxLoggedBody = 1 << 10

// headBuffer keeps the first maxLoggedBody bytes written to it.
type headBuffer struct {
	b []byte
}

func (hb *headBuffer) Write(p []byte) (int, error) {
	if room := maxLoggedBody - len(hb.b); room > 0 {
		hb.b = append(hb.b, p[:min(room, len(p))]...)
	}

	return len(p), nil
}

func loggingMiddleware(logg logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			var body headBuffer

			ww.Tee(&body)

			defer func() {
				latency := time.Since(start).String()

				logg.Infof("METHOD %s URI %s PROTO %s	STATUS %d Latency %s Client IP %s User Agent %s Request ID %s",
					r.Method,
					r.URL.RequestURI(),
					r.Proto,
					ww.Status(),
					latency,
					r.RemoteAddr,
					r.UserAgent(),
					middleware.GetReqID(r.Context()),
				)

				if ww.Status() >= http.StatusBadRequest && len(body.b) != 0 &&
					strings.HasPrefix(ww.Header().Get("Content-Type"), "application/json") {
					logg.Errorf("error: %s", body.b)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// Logging attaches log to every request context, assigns a request id and
// writes one access line per request. 5xx responses log at error level, 4xx
// at warn.
func Logging(log zerolog.Logger) func(http.Handler) http.Handler {
	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		l := hlog.FromRequest(r)

		var e *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			e = l.Error()
		case status >= http.StatusBadRequest:
			e = l.Warn()
		default:
			e = l.Info()
		}
		e.Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("ip", r.RemoteAddr).
			Int("status", status).
			Int("size", size).
			Dur("latency", duration).
			Msg("request")
	})

	return func(next http.Handler) http.Handler {
		return hlog.NewHandler(log)(RequestID(access(next)))
	}
}

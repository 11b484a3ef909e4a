package web

import (
	"net/http"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/abelikov/gameshelf/internal/access"
)

// RequestLog returns middleware for structured request logging.
func RequestLog(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			// metadata only, no payloads
			log.Info("http",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.status),
				zap.Duration("dur", time.Since(start)),
				zap.String("remote", r.RemoteAddr),
			)
		})
	}
}

// Recover returns middleware that recovers from handler panics.
func Recover(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic",
						zap.Any("reason", rec),
						zap.ByteString("stack", debug.Stack()),
						zap.String("path", r.URL.Path),
					)
					http.Error(w, "internal error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Guard resolves the session cookie into a principal, consults the policy
// and either forwards the request, redirects anonymous callers to the login
// page, or hands the denial to the auditor. It runs before every handler.
func (s *Server) Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var name string
		var roles []string
		if c, err := r.Cookie(sessionCookie); err == nil {
			if n, rs, perr := s.auth.ParseSession(c.Value); perr == nil {
				name, roles = n, rs
			}
		}
		r = r.WithContext(WithPrincipal(r.Context(), name, roles))

		switch s.policy.Authorize(r.URL.Path, roles) {
		case access.Allow:
			next.ServeHTTP(w, r)
		case access.Login:
			http.Redirect(w, r, s.policy.LoginPath(), http.StatusFound)
		case access.Deny:
			s.auditor.Denied(w, r, name)
		}
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

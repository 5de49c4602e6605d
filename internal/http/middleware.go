package http

import (
	"context"
	"log/slog"
	"net/http"

	"aimms/internal/authz"
	"aimms/internal/session"
)

type contextKey string

const sessionKey contextKey = "session"

// guard resolves the session cookie, evaluates the route policy, and rate
// limits POSTs. Denials redirect to the login page, never to an error page,
// so an expired session lands the user where they can recover.
func (s *Server) guard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientIP := s.detector.ExtractClientIP(r)

		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(ctx, "Suspicious request",
				"client_ip", clientIP, "method", r.Method, "path", r.URL.Path)
		}

		if r.Method == http.MethodPost && !s.limiter.Allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "path", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		sess, err := s.sessions.FromRequest(r)
		if err != nil {
			slog.ErrorContext(ctx, "Session lookup failed", "error", err)
			// Treat a broken store like no session; the policy decides below.
			sess = nil
		}

		if s.policy.Decide(r.URL.Path, sess) != authz.Allow {
			http.Redirect(w, r, authz.LoginPath, http.StatusSeeOther)
			return
		}

		if sess != nil {
			r = r.WithContext(context.WithValue(ctx, sessionKey, sess))
		}
		next(w, r)
	}
}

// sessionFrom returns the request's session, nil on public routes.
func sessionFrom(r *http.Request) *session.Session {
	if sess, ok := r.Context().Value(sessionKey).(*session.Session); ok {
		return sess
	}
	return nil
}

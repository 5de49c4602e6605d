package http

import (
	"log/slog"
	"net/http"

	"aimms/internal/session"
)

type loginForm struct {
	Email string
	Admin bool
}

func (s *Server) handleUserLogin(w http.ResponseWriter, r *http.Request) {
	s.handleLogin(w, r, false)
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	s.handleLogin(w, r, true)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, admin bool) {
	ctx := r.Context()

	// A signed-in user landing on a login page goes straight home.
	if sess := sessionFrom(r); sess.Authenticated() && r.Method == http.MethodGet {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodGet {
		s.render(w, r, "login.html", pageData{
			Title: "Sign in",
			Data:  loginForm{Admin: admin},
		})
		return
	}
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		s.render(w, r, "login.html", pageData{
			Title: "Sign in",
			Error: "Invalid request.",
			Data:  loginForm{Admin: admin},
		})
		return
	}

	email := sanitizeInput(r.Form.Get("email"))
	password := r.Form.Get("password")
	if email == "" || password == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, r, "login.html", pageData{
			Title: "Sign in",
			Error: "Email and password are required.",
			Data:  loginForm{Email: email, Admin: admin},
		})
		return
	}

	login := s.backend.UserLogin
	if admin {
		login = s.backend.AdminLogin
	}
	result, err := login(ctx, email, password)
	if err != nil {
		slog.WarnContext(ctx, "Login failed", "email", email, "admin", admin, "error", err)
		w.WriteHeader(http.StatusUnauthorized)
		s.render(w, r, "login.html", pageData{
			Title: "Sign in",
			Error: "Invalid credentials.",
			Data:  loginForm{Email: email, Admin: admin},
		})
		return
	}

	sess, err := s.sessions.Create(ctx, result.Token, result.UserID, result.Name, result.Email, result.Role, result.UserType)
	if err != nil {
		slog.ErrorContext(ctx, "Session create failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	session.SetCookie(w, sess, r.TLS != nil)

	slog.InfoContext(ctx, "Login succeeded",
		"user_id", result.UserID, "role", result.Role, "admin", admin)

	target := "/"
	if admin {
		target = "/admin/users"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleSignup keeps old bookmarks working: account creation lives in the
// backend's own signup flow, so this client only points people at login.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login-user", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if sess := sessionFrom(r); sess != nil {
		if err := s.sessions.Delete(r.Context(), sess.ID); err != nil {
			slog.ErrorContext(r.Context(), "Session delete failed", "error", err)
		}
		s.profileCache.Delete(sess.ID)
		s.budgetsCache.Delete(sess.ID)
	}
	session.ClearCookie(w)
	http.Redirect(w, r, "/login-user", http.StatusSeeOther)
}

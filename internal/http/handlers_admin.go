package http

import (
	"log/slog"
	"net/http"

	"aimms/internal/api"
)

type adminUsersData struct {
	Users []api.AdminUser
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	sess := sessionFrom(r)

	users, err := s.backend.ListUsers(r.Context(), sess.Token)
	if err != nil {
		slog.ErrorContext(r.Context(), "User listing failed", "error", err)
		http.Error(w, "failed to load users", http.StatusBadGateway)
		return
	}

	s.render(w, r, "admin_users.html", pageData{
		Title: "Users",
		Data:  adminUsersData{Users: users},
	})
}

func (s *Server) handleAdminUserDelete(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	sess := sessionFrom(r)

	userID := sanitizeInput(r.FormValue("user_id"))
	if userID == "" {
		http.Error(w, "missing user id", http.StatusBadRequest)
		return
	}
	if err := s.backend.DeleteUser(r.Context(), sess.Token, userID); err != nil {
		slog.ErrorContext(r.Context(), "User delete failed", "error", err, "target_user_id", userID)
		http.Error(w, "failed to delete user", http.StatusBadGateway)
		return
	}

	slog.InfoContext(r.Context(), "User deleted", "admin_id", sess.UserID, "target_user_id", userID)
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

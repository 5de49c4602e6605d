package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"aimms/internal/api"
	"aimms/internal/storage"
)

const notificationsPageSize = 10

type notificationsData struct {
	Notifications []api.Notification
	LocalAlerts   []storage.Alert
	Page          int
	NextPage      int
	PrevPage      int
	Priority      string
}

// handleNotifications shows the remote notification feed alongside alerts
// captured locally from the broker. The feed is paged; local alerts only
// appear on the first page.
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	sess := sessionFrom(r)
	ctx := r.Context()

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 0 {
		page = 0
	}
	priority := sanitizeInput(r.URL.Query().Get("priority"))
	if priority == "" {
		priority = "ALL"
	}

	notifs, err := s.backend.Notifications(ctx, sess.Token, sess.UserID, page, notificationsPageSize, priority)
	if err != nil {
		slog.ErrorContext(ctx, "Notifications fetch failed", "error", err, "user_id", sess.UserID)
		http.Error(w, "failed to load notifications", http.StatusBadGateway)
		return
	}

	var local []storage.Alert
	if s.store != nil && page == 0 {
		local, err = s.store.ListAlerts(ctx, sess.UserID, notificationsPageSize)
		if err != nil {
			slog.WarnContext(ctx, "Local alerts fetch failed", "error", err)
		}
	}

	next := 0
	if len(notifs) == notificationsPageSize {
		next = page + 1
	}
	prev := -1
	if page > 0 {
		prev = page - 1
	}

	s.render(w, r, "notifications.html", pageData{
		Title: "Notifications",
		Data: notificationsData{
			Notifications: notifs,
			LocalAlerts:   local,
			Page:          page,
			NextPage:      next,
			PrevPage:      prev,
			Priority:      priority,
		},
	})
}

func (s *Server) handleNotificationRead(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	sess := sessionFrom(r)

	id := sanitizeInput(r.FormValue("notification_id"))
	if id == "" {
		http.Error(w, "missing notification id", http.StatusBadRequest)
		return
	}
	if err := s.backend.MarkNotificationRead(r.Context(), sess.Token, id, sess.UserID); err != nil {
		slog.ErrorContext(r.Context(), "Notification read failed", "error", err, "notification_id", id)
		http.Error(w, "failed to update notification", http.StatusBadGateway)
		return
	}
	http.Redirect(w, r, "/notifications", http.StatusSeeOther)
}

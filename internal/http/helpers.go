package http

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"aimms/internal/authz"
	"aimms/internal/core"
	"aimms/internal/session"
)

var templateFuncs = template.FuncMap{
	"amount": formatAmount,
	"pct": func(v float64) string {
		return fmt.Sprintf("%.0f%%", v)
	},
	"amountOf": core.AmountOrZero,
	"mkslice": func(vals ...string) []string {
		return vals
	},
	"contains": func(haystack []string, needle string) bool {
		for _, v := range haystack {
			if v == needle {
				return true
			}
		}
		return false
	},
}

// pageData is the envelope every page template receives.
type pageData struct {
	Title string
	Nav   []authz.NavItem
	User  *session.Session
	Error string
	Data  any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	data.Nav = s.policy.Nav(sessionFrom(r))
	if data.User == nil {
		data.User = sessionFrom(r)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

// requireMethod writes a 405 and returns false when the method differs.
func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func formatAmount(v float64) string {
	return fmt.Sprintf("₹%.2f", v)
}

// userErr is a short message safe to show; backend details stay in logs.
func userErr(action string) string {
	return "Could not " + action + ". Please try again."
}

package authz

import (
	"testing"
	"time"

	"aimms/internal/session"
)

func sessWithRole(role string) *session.Session {
	return &session.Session{
		ID:        "s",
		Token:     "tok",
		UserID:    "42",
		RawRole:   role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestDecide(t *testing.T) {
	p := Default()

	tests := []struct {
		name string
		path string
		sess *session.Session
		want Decision
	}{
		{"no session, dashboard", "/", nil, RedirectLogin},
		{"no session, admin", "/admin/users", nil, RedirectLogin},
		{"no session, login page", "/login-user", nil, Allow},
		{"no session, admin login page", "/login-admin", nil, Allow},
		{"no session, static asset", "/static/app.css", nil, Allow},
		{"no session, health probe", "/healthz", nil, Allow},
		{"no session, signup", "/signup", nil, Allow},
		{"user, dashboard", "/", sessWithRole("USER"), Allow},
		{"user, budgets", "/budgets", sessWithRole("USER"), Allow},
		{"user, admin area", "/admin/users", sessWithRole("USER"), RedirectLogin},
		{"admin, admin area", "/admin/users", sessWithRole("ADMIN"), Allow},
		{"sub admin, admin area", "/admin/users", sessWithRole("SUB_ADMIN"), Allow},
		{"super admin, admin area", "/admin/users", sessWithRole("SUPER_ADMIN"), Allow},
		{"admin, dashboard", "/", sessWithRole("ADMIN"), Allow},
		{"empty token session", "/budgets", &session.Session{ID: "s"}, RedirectLogin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Decide(tt.path, tt.sess); got != tt.want {
				t.Errorf("Decide(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestDeniedOutcomesAreIndistinguishable(t *testing.T) {
	p := Default()
	unauthenticated := p.Decide("/admin/users", nil)
	wrongRole := p.Decide("/admin/users", sessWithRole("USER"))
	if unauthenticated != wrongRole {
		t.Errorf("unauthenticated = %v, wrong role = %v; both denials must match", unauthenticated, wrongRole)
	}
	if unauthenticated != RedirectLogin {
		t.Errorf("denial = %v, want RedirectLogin", unauthenticated)
	}
}

func TestNavFiltersAdminEntry(t *testing.T) {
	p := Default()

	userNav := p.Nav(sessWithRole("USER"))
	for _, item := range userNav {
		if item.Path == "/admin/users" {
			t.Error("user nav contains admin entry")
		}
	}
	if len(userNav) == 0 {
		t.Fatal("user nav is empty")
	}

	adminNav := p.Nav(sessWithRole("ADMIN"))
	found := false
	for _, item := range adminNav {
		if item.Path == "/admin/users" {
			found = true
		}
	}
	if !found {
		t.Error("admin nav missing admin entry")
	}

	if nav := p.Nav(nil); nav != nil {
		t.Errorf("anonymous nav = %v, want empty", nav)
	}
}

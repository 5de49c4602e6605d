package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"aimms/internal/api/memory"
	"aimms/internal/session"
	"aimms/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	srv := NewServer(Options{
		Addr:     ":0",
		Backend:  memory.New(),
		Sessions: session.NewManager(store, time.Hour),
		Store:    store,
		CacheTTL: time.Minute,
	})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	if srv.templates == nil {
		t.Fatal("templates failed to parse")
	}
	return srv
}

func doReq(srv *Server, method, target, cookie string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

// login runs the full login POST and returns the session cookie value.
func login(t *testing.T, srv *Server, admin bool) string {
	t.Helper()
	path := "/login-user"
	if admin {
		path = "/login-admin"
	}
	rec := doReq(srv, http.MethodPost, path, "", url.Values{
		"email":    {"demo@example.com"},
		"password": {"secret"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, want 303", rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			return c.Value
		}
	}
	t.Fatal("login did not set a session cookie")
	return ""
}

func TestUnauthenticatedRedirectsToLogin(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/", "/budgets", "/transactions", "/goals", "/admin/users"} {
		rec := doReq(srv, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusSeeOther {
			t.Errorf("GET %s status = %d, want 303", path, rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/login-user" {
			t.Errorf("GET %s location = %q, want /login-user", path, loc)
		}
	}
}

func TestPublicRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec := doReq(srv, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("/healthz status = %d, want 200", rec.Code)
	}
	rec = doReq(srv, http.MethodGet, "/login-user", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("/login-user status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Sign in") {
		t.Fatal("login page missing sign-in form")
	}
}

func TestLoginAndDashboard(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv, false)

	rec := doReq(srv, http.MethodGet, "/", cookie, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, want 200", rec.Code)
	}
	// No profile yet: the onboarding prompt should be up.
	if !strings.Contains(rec.Body.String(), "Set up my budget") {
		t.Fatal("dashboard missing onboarding prompt for new user")
	}
}

func TestLoginRejectsEmptyCredentials(t *testing.T) {
	srv := newTestServer(t)

	rec := doReq(srv, http.MethodPost, "/login-user", "", url.Values{
		"email":    {""},
		"password": {""},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestUserCannotReachAdminPages(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv, false)

	rec := doReq(srv, http.MethodGet, "/admin/users", cookie, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	// Role denial must look exactly like no session at all.
	if loc := rec.Header().Get("Location"); loc != "/login-user" {
		t.Fatalf("location = %q, want /login-user", loc)
	}
}

func TestAdminUserListing(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv, true)

	rec := doReq(srv, http.MethodGet, "/admin/users", cookie, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "demo@example.com") {
		t.Fatal("user listing missing seeded user")
	}
}

func TestOnboardingFlow(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv, false)

	// Step 1: income.
	rec := doReq(srv, http.MethodPost, "/onboarding", cookie, url.Values{
		"action": {"next"},
		"income": {"50000"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("step 1 status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Fixed monthly expenses") {
		t.Fatal("step 1 did not advance to fixed expenses")
	}

	// Step 2: fixed expenses.
	rec = doReq(srv, http.MethodPost, "/onboarding", cookie, url.Values{
		"action":         {"next"},
		"expense_name":   {"Rent", "Internet"},
		"expense_amount": {"12000", "800"},
	})
	if !strings.Contains(rec.Body.String(), "Spending limits per category") {
		t.Fatal("step 2 did not advance to category limits")
	}

	// Step 3: category limits.
	rec = doReq(srv, http.MethodPost, "/onboarding", cookie, url.Values{
		"action":             {"next"},
		"limit_Food & Drink": {"6000"},
		"limit_Transport":    {"2000"},
	})
	if !strings.Contains(rec.Body.String(), "Monthly savings target") {
		t.Fatal("step 3 did not advance to savings")
	}

	// Step 4: savings.
	rec = doReq(srv, http.MethodPost, "/onboarding", cookie, url.Values{
		"action":  {"next"},
		"savings": {"10000"},
	})
	if !strings.Contains(rec.Body.String(), "Alert me when a category reaches") {
		t.Fatal("step 4 did not advance to alerts")
	}

	// Step 5: alerts, then finish.
	rec = doReq(srv, http.MethodPost, "/onboarding", cookie, url.Values{
		"action": {"finish"},
		"alerts": {"80", "100"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("finish status = %d, want 303: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/budgets" {
		t.Fatalf("finish location = %q, want /budgets", loc)
	}

	// The plan is now live; budgets page renders cards from it.
	rec = doReq(srv, http.MethodGet, "/budgets", cookie, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("budgets status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Food &amp; Drink") {
		t.Fatal("budgets page missing seeded category card")
	}
}

func TestOnboardingUncheckedAlertsSurviveRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv, false)

	doReq(srv, http.MethodPost, "/onboarding", cookie, url.Values{
		"action": {"next"},
		"income": {"50000"},
	})
	doReq(srv, http.MethodPost, "/onboarding", cookie, url.Values{"action": {"next"}})
	doReq(srv, http.MethodPost, "/onboarding", cookie, url.Values{"action": {"next"}})
	doReq(srv, http.MethodPost, "/onboarding", cookie, url.Values{"action": {"next"}})

	// On the alerts step, uncheck every threshold and go back.
	rec := doReq(srv, http.MethodPost, "/onboarding", cookie, url.Values{
		"action": {"back"},
	})
	if !strings.Contains(rec.Body.String(), "Monthly savings target") {
		t.Fatal("back from alerts should land on savings")
	}

	// Forward again: the deselection must have stuck, not reverted to the
	// seeded thresholds.
	rec = doReq(srv, http.MethodPost, "/onboarding", cookie, url.Values{
		"action": {"next"},
	})
	if !strings.Contains(rec.Body.String(), "Alert me when a category reaches") {
		t.Fatal("did not return to the alerts step")
	}
	if strings.Contains(rec.Body.String(), "checked") {
		t.Fatal("alert thresholds came back checked after deselecting all")
	}
}

func TestOnboardingFixedRowsStableAcrossRoundTrips(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv, false)

	doReq(srv, http.MethodPost, "/onboarding", cookie, url.Values{
		"action": {"next"},
		"income": {"50000"},
	})

	// Submit the fixed-expenses form as the browser sends it: the filled
	// rows plus the blank spare row.
	form := url.Values{
		"action":         {"next"},
		"expense_name":   {"Rent", ""},
		"expense_amount": {"12000", ""},
	}
	doReq(srv, http.MethodPost, "/onboarding", cookie, form)
	doReq(srv, http.MethodPost, "/onboarding", cookie, url.Values{"action": {"back"}})
	doReq(srv, http.MethodPost, "/onboarding", cookie, form)
	doReq(srv, http.MethodPost, "/onboarding", cookie, url.Values{"action": {"back"}})

	// One entered row plus one spare, no matter how many trips through.
	rec := doReq(srv, http.MethodGet, "/onboarding", cookie, nil)
	if got := strings.Count(rec.Body.String(), `name="expense_name"`); got != 2 {
		t.Fatalf("expense rows = %d, want 2 (entered row plus spare)", got)
	}
}

func TestOnboardingIncomeRequired(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv, false)

	rec := doReq(srv, http.MethodPost, "/onboarding", cookie, url.Values{
		"action": {"next"},
		"income": {"0"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "What do you earn") {
		t.Fatal("invalid income should stay on the income step")
	}
}

func TestBudgetsRedirectsWithoutProfile(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv, false)

	rec := doReq(srv, http.MethodGet, "/budgets", cookie, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/onboarding" {
		t.Fatalf("location = %q, want /onboarding", loc)
	}
}

func TestGoalLifecycle(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv, false)

	rec := doReq(srv, http.MethodPost, "/goals", cookie, url.Values{
		"goal_name":      {"New Laptop"},
		"target_amount":  {"80000"},
		"current_amount": {"5000"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create status = %d, want 303", rec.Code)
	}

	rec = doReq(srv, http.MethodGet, "/goals", cookie, nil)
	if !strings.Contains(rec.Body.String(), "New Laptop") {
		t.Fatal("goals page missing created goal")
	}

	rec = doReq(srv, http.MethodPost, "/goals/delete", cookie, url.Values{
		"goal_id": {"1"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("delete status = %d, want 303", rec.Code)
	}

	rec = doReq(srv, http.MethodGet, "/goals", cookie, nil)
	if strings.Contains(rec.Body.String(), "Emergency Fund") {
		t.Fatal("deleted goal still listed")
	}
}

func TestGoalPredictionFragment(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv, false)

	rec := doReq(srv, http.MethodGet, "/goals/prediction?goal_id=1", cookie, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Goal forecast") {
		t.Fatal("prediction fragment missing forecast heading")
	}
}

func TestNotificationsPageAndMarkRead(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv, false)

	rec := doReq(srv, http.MethodGet, "/notifications", cookie, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Budget alert") {
		t.Fatal("notifications page missing seeded entry")
	}

	rec = doReq(srv, http.MethodPost, "/notifications/read", cookie, url.Values{
		"notification_id": {"2"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("mark read status = %d, want 303", rec.Code)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv, false)

	rec := doReq(srv, http.MethodPost, "/logout", cookie, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("logout status = %d, want 303", rec.Code)
	}

	rec = doReq(srv, http.MethodGet, "/", cookie, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("post-logout dashboard status = %d, want 303", rec.Code)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	srv := newTestServer(t)

	rec := doReq(srv, http.MethodGet, "/healthz", "", nil)
	if got := rec.Header().Get("X-Frame-Options"); got == "" {
		t.Fatal("missing X-Frame-Options header")
	}
	if got := rec.Header().Get("Content-Security-Policy"); got == "" {
		t.Fatal("missing Content-Security-Policy header")
	}
}

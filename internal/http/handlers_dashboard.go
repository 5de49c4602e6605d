package http

import (
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"aimms/internal/api"
	"aimms/internal/core"
)

// dashboardData gathers every widget's slice. Profile may be nil: new users
// see the onboarding prompt instead of the plan summary.
type dashboardData struct {
	Profile         *api.BudgetProfile
	Transactions    []api.Transaction
	Budgets         []budgetCard
	Goals           []api.Goal
	Notifications   []api.Notification
	Recommendations []string

	TotalSpent       float64
	ProjectedSavings float64
	SavingsAtRisk    bool
	NeedsOnboarding  bool
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	sess := sessionFrom(r)
	ctx := r.Context()
	token, userID := sess.Token, sess.UserID

	var (
		profile         *api.BudgetProfile
		transactions    []api.Transaction
		budgets         []api.Budget
		goals           []api.Goal
		notifications   []api.Notification
		recommendations []string
	)

	// One slow widget should not serialize the rest; fetch everything at
	// once and fail the page only if a required slice errors.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.cachedProfile(gctx, sess)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		var err error
		transactions, err = s.backend.UserTransactions(gctx, token, userID)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.cachedBudgets(gctx, sess)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = s.backend.UserGoals(gctx, token, userID)
		return err
	})
	g.Go(func() error {
		var err error
		notifications, err = s.backend.Notifications(gctx, token, userID, 0, 5, "ALL")
		return err
	})
	g.Go(func() error {
		recs, err := s.backend.Recommendations(gctx, token, userID)
		if err != nil {
			// Recommendations are advisory; a failure must not sink the page.
			slog.WarnContext(gctx, "Recommendations fetch failed", "error", err)
			return nil
		}
		recommendations = recs
		return nil
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "Dashboard fetch failed", "error", err, "user_id", userID)
		http.Error(w, "failed to load dashboard", http.StatusBadGateway)
		return
	}

	if len(transactions) > 8 {
		transactions = transactions[:8]
	}

	data := dashboardData{
		Profile:         profile,
		Transactions:    transactions,
		Budgets:         buildBudgetCards(budgets, profile),
		Goals:           goals,
		Notifications:   notifications,
		Recommendations: recommendations,
		NeedsOnboarding: profile == nil,
	}

	cats := toBudgetCategories(budgets)
	data.TotalSpent = core.TotalSpent(cats)
	if profile != nil {
		data.ProjectedSavings = core.ProjectedSavings(profile.MonthlyIncome, profile.FixedExpensesAmount, data.TotalSpent)
		data.SavingsAtRisk = core.SavingsAtRisk(data.ProjectedSavings, profile.SavingsTarget)
	}

	s.render(w, r, "dashboard.html", pageData{Title: "Dashboard", Data: data})
}

package http

import (
	"log/slog"
	"net/http"

	"aimms/internal/api"
	"aimms/internal/core"
)

type budgetsData struct {
	Profile          *api.BudgetProfile
	Cards            []budgetCard
	TotalSpent       float64
	ProjectedSavings float64
	SavingsAtRisk    bool
	Recommendations  []string
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	sess := sessionFrom(r)
	ctx := r.Context()

	profile, err := s.cachedProfile(ctx, sess)
	if err != nil {
		slog.ErrorContext(ctx, "Profile fetch failed", "error", err, "user_id", sess.UserID)
		http.Error(w, "failed to load budgets", http.StatusBadGateway)
		return
	}
	if profile == nil {
		// No plan yet: the wizard is the only useful destination.
		http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
		return
	}

	budgets, err := s.cachedBudgets(ctx, sess)
	if err != nil {
		slog.ErrorContext(ctx, "Budgets fetch failed", "error", err, "user_id", sess.UserID)
		http.Error(w, "failed to load budgets", http.StatusBadGateway)
		return
	}

	recs, err := s.backend.Recommendations(ctx, sess.Token, sess.UserID)
	if err != nil {
		slog.WarnContext(ctx, "Recommendations fetch failed", "error", err)
	}

	totalSpent := core.TotalSpent(toBudgetCategories(budgets))
	projected := core.ProjectedSavings(profile.MonthlyIncome, profile.FixedExpensesAmount, totalSpent)

	s.render(w, r, "budgets.html", pageData{
		Title: "Budgets",
		Data: budgetsData{
			Profile:          profile,
			Cards:            buildBudgetCards(budgets, profile),
			TotalSpent:       totalSpent,
			ProjectedSavings: projected,
			SavingsAtRisk:    core.SavingsAtRisk(projected, profile.SavingsTarget),
			Recommendations:  recs,
		},
	})
}

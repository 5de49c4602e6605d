package http

import (
	"context"
	"errors"

	"aimms/internal/api"
	"aimms/internal/core"
	"aimms/internal/session"
)

// cachedProfile reads the budget profile through the per-session cache. A
// new user without a profile caches as nil; only transport errors propagate.
func (s *Server) cachedProfile(ctx context.Context, sess *session.Session) (*api.BudgetProfile, error) {
	if p, ok := s.profileCache.Get(sess.ID); ok {
		return p, nil
	}
	p, err := s.backend.BudgetProfile(ctx, sess.Token, sess.UserID)
	if err != nil {
		if errors.Is(err, api.ErrNoProfile) {
			s.profileCache.Set(sess.ID, nil)
			return nil, nil
		}
		return nil, err
	}
	s.profileCache.Set(sess.ID, p)
	return p, nil
}

func (s *Server) cachedBudgets(ctx context.Context, sess *session.Session) ([]api.Budget, error) {
	if b, ok := s.budgetsCache.Get(sess.ID); ok {
		return b, nil
	}
	b, err := s.backend.UserBudgets(ctx, sess.Token, sess.UserID)
	if err != nil {
		return nil, err
	}
	s.budgetsCache.Set(sess.ID, b)
	return b, nil
}

// invalidateBackendCaches drops a session's cached reads after a write.
func (s *Server) invalidateBackendCaches(sess *session.Session) {
	s.profileCache.Delete(sess.ID)
	s.budgetsCache.Delete(sess.ID)
}

// budgetCard is one rendered budget row: backend amounts plus the computed
// progress against the profile's alert thresholds.
type budgetCard struct {
	Name      string
	Limit     float64
	Spent     float64
	Progress  core.BudgetProgress
	Status    string
	BarWidth  int
	AtWarning bool
}

func toBudgetCategories(budgets []api.Budget) []core.BudgetCategory {
	cats := make([]core.BudgetCategory, len(budgets))
	for i, b := range budgets {
		cats[i] = core.BudgetCategory{
			Name:          b.Name,
			LimitAmount:   b.LimitAmount,
			CurrentAmount: b.CurrentAmount,
		}
	}
	return cats
}

func buildBudgetCards(budgets []api.Budget, profile *api.BudgetProfile) []budgetCard {
	var thresholds core.Thresholds
	if profile != nil {
		thresholds = core.ParseThresholds(profile.AlertThresholds)
	}

	cards := make([]budgetCard, 0, len(budgets))
	for _, b := range budgets {
		cat := core.BudgetCategory{
			Name:          b.Name,
			LimitAmount:   b.LimitAmount,
			CurrentAmount: b.CurrentAmount,
		}
		progress := core.Progress(cat, thresholds)

		width := int(progress.Percent)
		if width > 100 {
			width = 100
		}
		cards = append(cards, budgetCard{
			Name:      b.Name,
			Limit:     b.LimitAmount,
			Spent:     b.CurrentAmount,
			Progress:  progress,
			Status:    string(progress.Status),
			BarWidth:  width,
			AtWarning: progress.Status != core.StatusNormal,
		})
	}
	return cards
}

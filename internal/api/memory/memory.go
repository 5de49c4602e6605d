// Package memory is an in-process stand-in for the AIMMS backend, used for
// local development and handler tests. It implements api.Service with seeded
// demo data; writes mutate process state only.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"aimms/internal/api"
)

const (
	// Token issued to every successful login. Anything that presents it is
	// treated as authenticated; the real token checks live in the backend.
	demoToken = "memory-token"

	demoUserID  = "1"
	demoAdminID = "100"
)

type Backend struct {
	mu            sync.Mutex
	profile       *api.BudgetProfile
	budgets       []api.Budget
	transactions  []api.Transaction
	goals         []api.Goal
	notifications []api.Notification
	users         []api.AdminUser
	nextGoalID    int64
}

var _ api.Service = (*Backend)(nil)

// New returns a backend seeded with a small demo dataset and no budget
// profile, so the onboarding wizard is reachable out of the box.
func New() *Backend {
	return &Backend{
		budgets: []api.Budget{
			{BudgetID: "1", Name: "Food & Drink", LimitAmount: 3000, CurrentAmount: 2550},
			{BudgetID: "2", Name: "Transport", LimitAmount: 1500, CurrentAmount: 400},
			{BudgetID: "3", Name: "Rent", LimitAmount: 10000, CurrentAmount: 10000},
		},
		transactions: []api.Transaction{
			{TransactionID: "1", Amount: 450, Merchant: "FreshMart", PredictedCategory: "Groceries", TxnDate: "2026-08-02", PaymentMode: "UPI", Type: "DEBIT"},
			{TransactionID: "2", Amount: 1200, Merchant: "Metro Card", Category: &api.CategoryRef{Name: "Transport"}, TxnDate: "2026-08-05", PaymentMode: "CARD", Type: "DEBIT"},
		},
		goals: []api.Goal{
			{GoalID: "1", GoalName: "Emergency Fund", TargetAmount: 50000, CurrentAmount: 12000, Deadline: "2026-12-31"},
		},
		notifications: []api.Notification{
			{NotificationID: "1", Title: "Welcome", Message: "Your account is ready.", Priority: "LOW", CreatedAt: "2026-08-01T10:00:00Z"},
			{NotificationID: "2", Title: "Budget alert", Message: "Food & Drink hit 80% of its limit.", Priority: "HIGH", CreatedAt: "2026-08-20T09:30:00Z"},
		},
		users: []api.AdminUser{
			{ID: "1", Name: "Demo User", Email: "demo@example.com", Role: "USER"},
			{ID: "2", Name: "Second User", Email: "second@example.com", Role: "USER"},
		},
		nextGoalID: 2,
	}
}

func (b *Backend) UserLogin(_ context.Context, email, _ string) (*api.LoginResult, error) {
	return &api.LoginResult{
		Token:    demoToken,
		UserID:   demoUserID,
		Name:     nameFromEmail(email),
		Email:    email,
		Role:     "USER",
		UserType: "user",
	}, nil
}

func (b *Backend) AdminLogin(_ context.Context, email, _ string) (*api.LoginResult, error) {
	return &api.LoginResult{
		Token:    demoToken,
		UserID:   demoAdminID,
		Name:     nameFromEmail(email),
		Email:    email,
		Role:     "ADMIN",
		UserType: "admin",
	}, nil
}

func (b *Backend) BudgetProfile(_ context.Context, _, _ string) (*api.BudgetProfile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.profile == nil {
		return nil, api.ErrNoProfile
	}
	p := *b.profile
	return &p, nil
}

func (b *Backend) SubmitOnboarding(_ context.Context, _, _ string, req api.OnboardingRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var fixed float64
	for _, v := range req.FixedExpenses {
		fixed += v
	}
	b.profile = &api.BudgetProfile{
		MonthlyIncome:       req.MonthlyIncome,
		FixedExpensesAmount: fixed,
		SavingsTarget:       req.SavingsTarget,
		AlertThresholds:     strings.Join(req.AlertThresholds, ","),
	}
	// Reset budget limits to the submitted plan, preserving current spend.
	for name, limit := range req.CategoryLimits {
		found := false
		for i := range b.budgets {
			if b.budgets[i].Name == name {
				b.budgets[i].LimitAmount = limit
				found = true
				break
			}
		}
		if !found {
			b.budgets = append(b.budgets, api.Budget{
				BudgetID:    json.Number(fmt.Sprintf("%d", len(b.budgets)+1)),
				Name:        name,
				LimitAmount: limit,
			})
		}
	}
	return nil
}

func (b *Backend) UserBudgets(_ context.Context, _, _ string) ([]api.Budget, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.Budget(nil), b.budgets...), nil
}

func (b *Backend) Categories(_ context.Context, _ string) ([]api.Category, error) {
	names := []string{
		"Bills", "Health", "Miscellaneous", "Food & Drink", "Shopping",
		"Groceries", "Transport", "Entertainment", "Subscriptions", "Rent", "Utilities",
	}
	out := make([]api.Category, 0, len(names))
	for i, n := range names {
		out = append(out, api.Category{ID: json.Number(fmt.Sprintf("%d", i+1)), Name: n})
	}
	return out, nil
}

func (b *Backend) Recommendations(_ context.Context, _, _ string) ([]string, error) {
	return []string{"You are spending most on Food & Drink. Consider a weekly cap."}, nil
}

func (b *Backend) UserTransactions(_ context.Context, _, _ string) ([]api.Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.Transaction(nil), b.transactions...), nil
}

func (b *Backend) UserGoals(_ context.Context, _, _ string) ([]api.Goal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.Goal(nil), b.goals...), nil
}

func (b *Backend) CreateGoal(_ context.Context, _, _ string, g api.GoalRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextGoalID++
	b.goals = append(b.goals, api.Goal{
		GoalID:        json.Number(fmt.Sprintf("%d", b.nextGoalID)),
		GoalName:      g.GoalName,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Deadline:      g.Deadline,
	})
	return nil
}

func (b *Backend) UpdateGoal(_ context.Context, _, goalID string, g api.GoalRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.goals {
		if b.goals[i].GoalID.String() == goalID {
			b.goals[i].GoalName = g.GoalName
			b.goals[i].TargetAmount = g.TargetAmount
			b.goals[i].CurrentAmount = g.CurrentAmount
			if g.Deadline != "" {
				b.goals[i].Deadline = g.Deadline
			}
			return nil
		}
	}
	return &api.StatusError{StatusCode: 404, Body: "goal not found"}
}

func (b *Backend) DeleteGoal(_ context.Context, _, goalID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.goals {
		if b.goals[i].GoalID.String() == goalID {
			b.goals = append(b.goals[:i], b.goals[i+1:]...)
			return nil
		}
	}
	return &api.StatusError{StatusCode: 404, Body: "goal not found"}
}

func (b *Backend) GoalPrediction(_ context.Context, _, goalID, _ string) (*api.GoalPrediction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, g := range b.goals {
		if g.GoalID.String() == goalID {
			return &api.GoalPrediction{
				PredictedCompletionDate: "2026-11-15",
				DailySavingsEstimate:    120,
				RequiredDailySavings:    310,
				OnTrack:                 g.CurrentAmount >= g.TargetAmount/2,
				SuggestedDailyCut:       190,
			}, nil
		}
	}
	return nil, &api.StatusError{StatusCode: 404, Body: "goal not found"}
}

func (b *Backend) Notifications(_ context.Context, _, _ string, page, size int, priority string) ([]api.Notification, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var filtered []api.Notification
	for _, n := range b.notifications {
		if priority != "" && priority != "ALL" && n.Priority != priority {
			continue
		}
		filtered = append(filtered, n)
	}
	start := page * size
	if start >= len(filtered) {
		return nil, nil
	}
	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}
	return append([]api.Notification(nil), filtered[start:end]...), nil
}

func (b *Backend) MarkNotificationRead(_ context.Context, _, notificationID, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.notifications {
		if b.notifications[i].NotificationID.String() == notificationID {
			b.notifications[i].Read = true
			return nil
		}
	}
	return &api.StatusError{StatusCode: 404, Body: "notification not found"}
}

func (b *Backend) UploadReceipt(_ context.Context, _, filename string, file io.Reader) (*api.ReceiptScan, error) {
	// Drain the upload so callers behave as with the real endpoint.
	if _, err := io.Copy(io.Discard, file); err != nil {
		return nil, err
	}
	return &api.ReceiptScan{
		MerchantName: "FreshMart",
		TotalAmount:  423.50,
		Date:         "2026-08-21",
		Time:         "18:42",
		TaxAmount:    23.50,
		BillNumber:   "INV-1042",
		RawText:      []string{"FreshMart", "TOTAL 423.50", filename},
	}, nil
}

func (b *Backend) Receipts(_ context.Context, _, _ string) ([]api.Receipt, error) {
	return []api.Receipt{
		{ReceiptID: "1", Merchant: "FreshMart", Amount: 423.50, Date: "2026-08-21"},
	}, nil
}

func (b *Backend) ListUsers(_ context.Context, _ string) ([]api.AdminUser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.AdminUser(nil), b.users...), nil
}

func (b *Backend) DeleteUser(_ context.Context, _, userID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.users {
		if b.users[i].ID.String() == userID {
			b.users = append(b.users[:i], b.users[i+1:]...)
			return nil
		}
	}
	return &api.StatusError{StatusCode: 404, Body: "user not found"}
}

func nameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}

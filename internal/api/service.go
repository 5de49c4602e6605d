package api

import (
	"context"
	"io"
)

// Service is the full backend surface the web client consumes. Handlers
// depend on this interface so tests and local development can run against
// the in-memory backend instead of a live API.
type Service interface {
	// Authentication
	UserLogin(ctx context.Context, email, password string) (*LoginResult, error)
	AdminLogin(ctx context.Context, email, password string) (*LoginResult, error)

	// Budgets
	BudgetProfile(ctx context.Context, token, userID string) (*BudgetProfile, error)
	SubmitOnboarding(ctx context.Context, token, userID string, req OnboardingRequest) error
	UserBudgets(ctx context.Context, token, userID string) ([]Budget, error)
	Categories(ctx context.Context, token string) ([]Category, error)
	Recommendations(ctx context.Context, token, userID string) ([]string, error)

	// Transactions
	UserTransactions(ctx context.Context, token, userID string) ([]Transaction, error)

	// Goals
	UserGoals(ctx context.Context, token, userID string) ([]Goal, error)
	CreateGoal(ctx context.Context, token, userID string, g GoalRequest) error
	UpdateGoal(ctx context.Context, token, goalID string, g GoalRequest) error
	DeleteGoal(ctx context.Context, token, goalID string) error
	GoalPrediction(ctx context.Context, token, goalID, userID string) (*GoalPrediction, error)

	// Notifications
	Notifications(ctx context.Context, token, userID string, page, size int, priority string) ([]Notification, error)
	MarkNotificationRead(ctx context.Context, token, notificationID, userID string) error

	// Receipts / OCR
	UploadReceipt(ctx context.Context, token, filename string, file io.Reader) (*ReceiptScan, error)
	Receipts(ctx context.Context, token, userID string) ([]Receipt, error)

	// Admin
	ListUsers(ctx context.Context, token string) ([]AdminUser, error)
	DeleteUser(ctx context.Context, token, userID string) error
}

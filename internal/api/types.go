package api

import "encoding/json"

// LoginResult is the normalized outcome of a login call. The backend answers
// user and admin logins with slightly different shapes (notably `id` vs
// `adminId`); decoding folds both into one struct.
type LoginResult struct {
	Token    string
	UserID   string
	Name     string
	Email    string
	Role     string
	UserType string // "user" or "admin", set by the calling endpoint
}

// loginResponse mirrors the raw login payload. IDs are numbers in the wire
// format, so json.Number keeps them lossless before stringifying.
type loginResponse struct {
	Token   string      `json:"token"`
	ID      json.Number `json:"id"`
	AdminID json.Number `json:"adminId"`
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Role    string      `json:"role"`
}

func (r loginResponse) userID() string {
	if r.ID.String() != "" {
		return r.ID.String()
	}
	return r.AdminID.String()
}

// BudgetProfile is the persisted monthly plan. AlertThresholds arrives as a
// comma-separated percentage string (e.g. "50,80,100").
type BudgetProfile struct {
	MonthlyIncome       float64 `json:"monthlyIncome"`
	FixedExpensesAmount float64 `json:"fixedExpensesAmount"`
	SavingsTarget       float64 `json:"savingsTarget"`
	AlertThresholds     string  `json:"alertThresholds"`
}

// OnboardingRequest is the payload the wizard submits to create a profile.
type OnboardingRequest struct {
	MonthlyIncome   float64            `json:"monthlyIncome"`
	SavingsTarget   float64            `json:"savingsTarget"`
	FixedExpenses   map[string]float64 `json:"fixedExpenses"`
	CategoryLimits  map[string]float64 `json:"categoryLimits"`
	AlertThresholds []string           `json:"alertThresholds"`
}

// Budget is one per-category budget row maintained by the backend.
type Budget struct {
	BudgetID      json.Number `json:"budgetId"`
	Name          string      `json:"name"`
	LimitAmount   float64     `json:"limitAmount"`
	CurrentAmount float64     `json:"currentAmount"`
}

// CategoryRef is the nested category object on a transaction. It is absent
// when only a predicted category exists.
type CategoryRef struct {
	Name string `json:"name"`
}

// Transaction is a ledger entry.
type Transaction struct {
	TransactionID     json.Number  `json:"transactionId"`
	Amount            float64      `json:"amount"`
	Merchant          string       `json:"merchant"`
	Category          *CategoryRef `json:"category"`
	PredictedCategory string       `json:"predictedCategory"`
	TxnDate           string       `json:"txnDate"`
	PaymentMode       string       `json:"paymentMode"`
	Type              string       `json:"type"`
}

// CategoryName resolves the effective category: the confirmed one when
// present, the model's prediction otherwise.
func (t Transaction) CategoryName() string {
	if t.Category != nil && t.Category.Name != "" {
		return t.Category.Name
	}
	return t.PredictedCategory
}

// Category is a spending category known to the backend.
type Category struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

// Goal is a savings goal.
type Goal struct {
	GoalID        json.Number `json:"goalId"`
	GoalName      string      `json:"goalName"`
	TargetAmount  float64     `json:"targetAmount"`
	CurrentAmount float64     `json:"currentAmount"`
	Deadline      string      `json:"deadline"`
}

// GoalRequest creates or updates a goal.
type GoalRequest struct {
	GoalName      string  `json:"goalName"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
	Deadline      string  `json:"deadline,omitempty"`
}

// GoalPrediction is the forecast the prediction service computes for a goal.
// The service is Python, hence the snake_case field names.
type GoalPrediction struct {
	PredictedCompletionDate string  `json:"predicted_completion_date"`
	DailySavingsEstimate    float64 `json:"daily_savings_estimate"`
	RequiredDailySavings    float64 `json:"required_daily_savings"`
	OnTrack                 bool    `json:"on_track"`
	SuggestedDailyCut       float64 `json:"suggested_daily_cut"`
}

// Notification is one entry of the user's notification feed.
type Notification struct {
	NotificationID json.Number `json:"notificationId"`
	Title          string      `json:"title"`
	Message        string      `json:"message"`
	Priority       string      `json:"priority"`
	Read           bool        `json:"read"`
	CreatedAt      string      `json:"createdAt"`
}

// ReceiptScan is the OCR service's extraction result for an uploaded bill.
type ReceiptScan struct {
	MerchantName string   `json:"merchant_name"`
	TotalAmount  float64  `json:"total_amount"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	TaxAmount    float64  `json:"tax_amount"`
	BillNumber   string   `json:"bill_number"`
	RawText      []string `json:"raw_text"`
}

// Receipt is a previously scanned receipt stored by the backend.
type Receipt struct {
	ReceiptID json.Number `json:"receiptId"`
	Merchant  string      `json:"merchant"`
	Amount    float64     `json:"amount"`
	Date      string      `json:"date"`
}

// AdminUser is a row in the admin user listing.
type AdminUser struct {
	ID    json.Number `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  string      `json:"role"`
}

// Package onboarding implements the five-step setup wizard a new user walks
// through before a budget profile exists. The draft lives in the session, so
// a page reload or a trip back through the steps loses nothing.
package onboarding

import (
	"encoding/json"
	"fmt"

	"aimms/internal/api"
	"aimms/internal/core"
)

// Wizard steps. Income through Alerts, in order. The alerts step doubles as
// the review-and-finish screen.
const (
	StepIncome  = 1
	StepFixed   = 2
	StepLimits  = 3
	StepSavings = 4
	StepAlerts  = 5
)

// AllowedCategories are the spending categories a limit may be set for.
var AllowedCategories = []string{
	"Bills", "Health", "Miscellaneous", "Food & Drink", "Shopping",
	"Groceries", "Transport", "Entertainment", "Subscriptions", "Rent", "Utilities",
}

// DefaultAlerts are the alert thresholds a fresh draft starts with.
var DefaultAlerts = []string{"80", "100"}

// LineItem is one named amount row. Amounts stay raw strings until submit so
// a half-typed value survives navigation.
type LineItem struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// Draft is the wizard's working state.
type Draft struct {
	Step           int        `json:"step"`
	Income         string     `json:"income"`
	FixedExpenses  []LineItem `json:"fixedExpenses"`
	CategoryLimits []LineItem `json:"categoryLimits"`
	Savings        string     `json:"savings"`
	Alerts         []string   `json:"alerts"`
}

// NewDraft seeds a draft: one Rent fixed-expense row, a limit row per
// allowed category, and the default alert thresholds.
func NewDraft() *Draft {
	limits := make([]LineItem, len(AllowedCategories))
	for i, name := range AllowedCategories {
		limits[i] = LineItem{Name: name}
	}
	alerts := make([]string, len(DefaultAlerts))
	copy(alerts, DefaultAlerts)
	return &Draft{
		Step:           StepIncome,
		FixedExpenses:  []LineItem{{Name: "Rent"}},
		CategoryLimits: limits,
		Alerts:         alerts,
	}
}

// SeedCategories replaces the limit rows with the backend's category list,
// filtered to the allowed set and kept in the allowed order. Entered amounts
// for surviving categories are preserved; an empty intersection is a no-op.
func (d *Draft) SeedCategories(names []string) {
	available := make(map[string]bool, len(names))
	for _, n := range names {
		available[n] = true
	}
	entered := make(map[string]string, len(d.CategoryLimits))
	for _, it := range d.CategoryLimits {
		entered[it.Name] = it.Amount
	}
	var limits []LineItem
	for _, name := range AllowedCategories {
		if available[name] {
			limits = append(limits, LineItem{Name: name, Amount: entered[name]})
		}
	}
	if len(limits) > 0 {
		d.CategoryLimits = limits
	}
}

// Decode restores a draft from its session JSON. An empty string yields a
// fresh draft.
func Decode(raw string) (*Draft, error) {
	if raw == "" {
		return NewDraft(), nil
	}
	var d Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("decode onboarding draft: %w", err)
	}
	return &d, nil
}

// Encode serializes the draft for session storage.
func (d *Draft) Encode() (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode onboarding draft: %w", err)
	}
	return string(b), nil
}

// TotalFixed sums the fixed-expense rows. Unparseable amounts count as zero.
func (d *Draft) TotalFixed() float64 {
	var total float64
	for _, it := range d.FixedExpenses {
		total += core.AmountOrZero(it.Amount)
	}
	return total
}

// DisposableIncome is income minus fixed expenses.
func (d *Draft) DisposableIncome() float64 {
	return core.AmountOrZero(d.Income) - d.TotalFixed()
}

// TotalAllocated sums the category limits.
func (d *Draft) TotalAllocated() float64 {
	var total float64
	for _, it := range d.CategoryLimits {
		total += core.AmountOrZero(it.Amount)
	}
	return total
}

// SavingsAmount is the monthly savings target as a number.
func (d *Draft) SavingsAmount() float64 {
	return core.AmountOrZero(d.Savings)
}

// Remaining is what is left of disposable income after category limits and
// the savings target. Negative means the plan overcommits.
func (d *Draft) Remaining() float64 {
	return d.DisposableIncome() - d.TotalAllocated() - d.SavingsAmount()
}

// Request assembles the submit payload. Rows with no name or a zero amount
// are dropped rather than sent as empty entries.
func (d *Draft) Request() api.OnboardingRequest {
	fixed := make(map[string]float64)
	for _, it := range d.FixedExpenses {
		if it.Name == "" {
			continue
		}
		if v := core.AmountOrZero(it.Amount); v > 0 {
			fixed[it.Name] = v
		}
	}
	limits := make(map[string]float64)
	for _, it := range d.CategoryLimits {
		if it.Name == "" {
			continue
		}
		if v := core.AmountOrZero(it.Amount); v > 0 {
			limits[it.Name] = v
		}
	}
	alerts := make([]string, len(d.Alerts))
	copy(alerts, d.Alerts)
	return api.OnboardingRequest{
		MonthlyIncome:   core.AmountOrZero(d.Income),
		SavingsTarget:   d.SavingsAmount(),
		FixedExpenses:   fixed,
		CategoryLimits:  limits,
		AlertThresholds: alerts,
	}
}

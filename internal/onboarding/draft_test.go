package onboarding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDraftSeeds(t *testing.T) {
	d := NewDraft()

	assert.Equal(t, StepIncome, d.Step)
	require.Len(t, d.FixedExpenses, 1)
	assert.Equal(t, "Rent", d.FixedExpenses[0].Name)
	assert.Equal(t, []string{"80", "100"}, d.Alerts)
	assert.Len(t, d.CategoryLimits, len(AllowedCategories))
	for i, it := range d.CategoryLimits {
		assert.Equal(t, AllowedCategories[i], it.Name)
	}
}

func TestSeedCategories(t *testing.T) {
	d := NewDraft()
	d.CategoryLimits[0].Amount = "500" // Bills

	d.SeedCategories([]string{"Transport", "Bills", "Travel", "Groceries"})

	require.Len(t, d.CategoryLimits, 3)
	// Allowed order wins, unknown names drop, entered amounts survive.
	assert.Equal(t, LineItem{Name: "Bills", Amount: "500"}, d.CategoryLimits[0])
	assert.Equal(t, "Groceries", d.CategoryLimits[1].Name)
	assert.Equal(t, "Transport", d.CategoryLimits[2].Name)
}

func TestSeedCategoriesEmptyIntersectionKeepsDefaults(t *testing.T) {
	d := NewDraft()
	d.SeedCategories([]string{"Travel", "Pets"})
	assert.Len(t, d.CategoryLimits, len(AllowedCategories))
}

func TestIncomeGuard(t *testing.T) {
	d := NewDraft()

	err := d.Next()
	assert.ErrorIs(t, err, ErrIncomeRequired)
	assert.Equal(t, StepIncome, d.Step)

	d.Income = "abc"
	assert.ErrorIs(t, d.Next(), ErrIncomeRequired)

	d.Income = "5000"
	require.NoError(t, d.Next())
	assert.Equal(t, StepFixed, d.Step)
}

func TestFixedStepHasNoGuard(t *testing.T) {
	d := NewDraft()
	d.Income = "5000"
	d.Step = StepFixed

	// Over-allocate: the fixed step still advances, only steps 3 and 4 check.
	d.CategoryLimits[0].Amount = "99999"
	require.NoError(t, d.Next())
	assert.Equal(t, StepLimits, d.Step)
}

func TestAllocationGuard(t *testing.T) {
	d := NewDraft()
	d.Income = "5000"
	d.FixedExpenses[0].Amount = "2000"
	d.CategoryLimits[0].Amount = "2000"
	d.Savings = "500"
	d.Step = StepLimits

	// 5000 - 2000 - 2000 - 500 = 500 remaining: allowed.
	require.NoError(t, d.Next())
	assert.Equal(t, StepSavings, d.Step)

	// Raising savings to 2000 leaves -1000: blocked on the savings step.
	d.Savings = "2000"
	err := d.Next()
	assert.ErrorIs(t, err, ErrOverAllocated)
	assert.Equal(t, StepSavings, d.Step)

	d.Savings = "1000"
	require.NoError(t, d.Next())
	assert.Equal(t, StepAlerts, d.Step)
	assert.True(t, d.CanFinish())
}

func TestPrevNeverValidatesOrClears(t *testing.T) {
	d := NewDraft()
	d.Income = "5000"
	d.Savings = "99999" // wildly overcommitted
	d.Step = StepSavings

	d.Prev()
	assert.Equal(t, StepLimits, d.Step)
	assert.Equal(t, "99999", d.Savings)

	d.Prev()
	d.Prev()
	assert.Equal(t, StepIncome, d.Step)
	d.Prev()
	assert.Equal(t, StepIncome, d.Step, "Prev at the first step stays put")
}

func TestForwardBackForwardKeepsEntries(t *testing.T) {
	d := NewDraft()
	d.Income = "4000"
	require.NoError(t, d.Next())
	d.FixedExpenses[0].Amount = "1200"
	require.NoError(t, d.Next())

	raw, err := d.Encode()
	require.NoError(t, err)
	restored, err := Decode(raw)
	require.NoError(t, err)

	restored.Prev()
	restored.Prev()
	assert.Equal(t, StepIncome, restored.Step)
	assert.Equal(t, "4000", restored.Income)
	assert.Equal(t, "1200", restored.FixedExpenses[0].Amount)

	require.NoError(t, restored.Next())
	require.NoError(t, restored.Next())
	assert.Equal(t, StepLimits, restored.Step)
}

func TestDecodeEmptyYieldsFreshDraft(t *testing.T) {
	d, err := Decode("")
	require.NoError(t, err)
	assert.Equal(t, StepIncome, d.Step)

	_, err = Decode("{not json")
	var syntaxErr error = err
	assert.Error(t, syntaxErr)
	assert.False(t, errors.Is(err, ErrIncomeRequired))
}

func TestRequestAllowsEmptyAlerts(t *testing.T) {
	d := NewDraft()
	d.Income = "5000"
	d.Alerts = nil
	d.Step = StepAlerts

	assert.True(t, d.CanFinish())
	assert.Empty(t, d.Request().AlertThresholds)
}

func TestRequestPayload(t *testing.T) {
	d := NewDraft()
	d.Income = "5000"
	d.FixedExpenses[0].Amount = "1500"
	d.FixedExpenses = append(d.FixedExpenses, LineItem{Name: "", Amount: "50"}) // nameless, dropped
	d.CategoryLimits[0].Amount = "300"                                          // Bills
	d.Savings = "800"

	req := d.Request()
	assert.Equal(t, 5000.0, req.MonthlyIncome)
	assert.Equal(t, 800.0, req.SavingsTarget)
	assert.Equal(t, map[string]float64{"Rent": 1500}, req.FixedExpenses)
	assert.Equal(t, map[string]float64{"Bills": 300}, req.CategoryLimits)
	assert.Equal(t, []string{"80", "100"}, req.AlertThresholds)
}

func TestDerivedAmounts(t *testing.T) {
	d := NewDraft()
	d.Income = "3000"
	d.FixedExpenses[0].Amount = "1000"
	d.CategoryLimits[0].Amount = "500"
	d.CategoryLimits[1].Amount = "not a number" // counts as zero
	d.Savings = "250"

	assert.Equal(t, 1000.0, d.TotalFixed())
	assert.Equal(t, 2000.0, d.DisposableIncome())
	assert.Equal(t, 500.0, d.TotalAllocated())
	assert.Equal(t, 1250.0, d.Remaining())
}

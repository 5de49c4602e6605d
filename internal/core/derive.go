package core

// TotalSpent sums the running spend across budget categories.
func TotalSpent(budgets []BudgetCategory) float64 {
	var total float64
	for _, b := range budgets {
		total += b.CurrentAmount
	}
	return total
}

// ProjectedSavings estimates what will be left of the month: income minus
// fixed expenses minus variable spend so far.
func ProjectedSavings(income, fixedExpenses, totalSpent float64) float64 {
	return income - fixedExpenses - totalSpent
}

// SavingsAtRisk reports whether the projection has fallen below the user's
// savings target.
func SavingsAtRisk(projected, target float64) bool {
	return projected < target
}

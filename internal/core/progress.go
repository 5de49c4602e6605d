package core

import (
	"sort"
	"strconv"
	"strings"
)

// Status classifies how far along a budget category is against its limit.
type Status string

const (
	StatusNormal Status = "normal"
	StatusAlert  Status = "alert"
	StatusOver   Status = "over"
)

// Thresholds is a set of percentage checkpoints, kept sorted descending so
// the highest applicable warning level wins.
type Thresholds []float64

// ParseThresholds parses the backend's comma-separated threshold string
// (e.g. "50,80,100"). Non-numeric, duplicate, and out-of-range entries are
// dropped rather than rejected: a malformed configuration simply means no
// alert tier crosses.
func ParseThresholds(s string) Thresholds {
	var out Thresholds
	seen := make(map[float64]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || v < 0 || v > 100 || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out
}

// BudgetProgress is the display verdict for one budget category.
type BudgetProgress struct {
	Status  Status
	Percent float64
	// Crossed is the highest threshold at or below Percent, when Status is
	// StatusAlert. Zero otherwise.
	Crossed float64
	// Remaining is limit minus spend, floored at zero. Meaningful when the
	// category is not over its limit.
	Remaining float64
	// ExceededBy is spend minus limit when the category is over.
	ExceededBy float64
}

// Progress computes the display state for a budget category. It is pure:
// malformed inputs (negative amounts, empty threshold sets) degrade to the
// nearest sensible verdict instead of failing.
//
// The percent divisor is floored at 1 rather than special-casing a zero
// limit. That slightly distorts the percentage for zero-limit categories but
// reproduces the behavior users already see.
func Progress(cat BudgetCategory, thresholds Thresholds) BudgetProgress {
	limit := cat.LimitAmount
	spent := cat.CurrentAmount

	divisor := limit
	if divisor < 1 {
		divisor = 1
	}
	p := BudgetProgress{Percent: spent / divisor * 100}

	// Over-limit wins regardless of threshold configuration.
	if spent > limit {
		p.Status = StatusOver
		p.ExceededBy = spent - limit
		return p
	}

	p.Remaining = limit - spent
	if p.Remaining < 0 {
		p.Remaining = 0
	}

	for _, t := range thresholds {
		if p.Percent >= t {
			p.Status = StatusAlert
			p.Crossed = t
			return p
		}
	}

	p.Status = StatusNormal
	return p
}

package onboarding

import (
	"errors"

	"aimms/internal/core"
)

// Step validation errors, shown on the blocking step.
var (
	ErrIncomeRequired = errors.New("enter your monthly income to continue")
	ErrOverAllocated  = errors.New("allocations exceed your disposable income")
)

// Next advances the wizard one step if the current step's guard passes. The
// fixed-expenses step has no guard: rows there are optional.
func (d *Draft) Next() error {
	switch d.Step {
	case StepIncome:
		v, err := core.ParseAmount(d.Income)
		if err != nil || v <= 0 {
			return ErrIncomeRequired
		}
	case StepLimits, StepSavings:
		if d.Remaining() < 0 {
			return ErrOverAllocated
		}
	}
	if d.Step < StepAlerts {
		d.Step++
	}
	return nil
}

// Prev steps back without validating. Entered values stay put.
func (d *Draft) Prev() {
	if d.Step > StepIncome {
		d.Step--
	}
}

// CanFinish reports whether the alerts step may submit.
func (d *Draft) CanFinish() bool {
	return d.Step == StepAlerts && d.Remaining() >= 0
}

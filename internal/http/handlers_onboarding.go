package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"aimms/internal/onboarding"
)

type onboardingData struct {
	Draft     *onboarding.Draft
	Remaining float64
}

// handleOnboarding runs the setup wizard. GET renders the current step from
// the session draft; POST applies the submitted fields, then acts on the
// next/back/cancel/finish action.
func (s *Server) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	ctx := r.Context()

	draft, err := onboarding.Decode(sess.Draft)
	if err != nil {
		slog.WarnContext(ctx, "Corrupt onboarding draft, starting over", "error", err, "user_id", sess.UserID)
		draft = onboarding.NewDraft()
	}

	// A fresh draft trims its limit rows to the categories the backend
	// actually knows; a fetch failure leaves the full default set.
	if sess.Draft == "" {
		if cats, err := s.backend.Categories(ctx, sess.Token); err == nil {
			names := make([]string, 0, len(cats))
			for _, c := range cats {
				names = append(names, c.Name)
			}
			draft.SeedCategories(names)
		}
	}

	if r.Method == http.MethodGet {
		s.renderWizard(w, r, draft, "")
		return
	}
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		s.renderWizard(w, r, draft, "Invalid request.")
		return
	}

	applyWizardForm(draft, r)

	switch r.Form.Get("action") {
	case "back":
		draft.Prev()
	case "cancel":
		if err := s.sessions.ClearDraft(ctx, sess.ID); err != nil {
			slog.ErrorContext(ctx, "Draft clear failed", "error", err)
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	case "finish":
		s.finishOnboarding(w, r, draft)
		return
	default: // next
		if err := draft.Next(); err != nil {
			s.saveDraft(r, draft)
			w.WriteHeader(http.StatusUnprocessableEntity)
			s.renderWizard(w, r, draft, err.Error())
			return
		}
	}

	s.saveDraft(r, draft)
	s.renderWizard(w, r, draft, "")
}

// applyWizardForm copies the posted fields for the current step onto the
// draft. Unparseable values are kept raw; validation happens on Next.
func applyWizardForm(draft *onboarding.Draft, r *http.Request) {
	switch draft.Step {
	case onboarding.StepIncome:
		draft.Income = sanitizeInput(r.Form.Get("income"))
	case onboarding.StepFixed:
		names := r.Form["expense_name"]
		amounts := r.Form["expense_amount"]
		items := make([]onboarding.LineItem, 0, len(names))
		for i := range names {
			amount := ""
			if i < len(amounts) {
				amount = sanitizeInput(amounts[i])
			}
			name := sanitizeInput(names[i])
			// The form carries a blank spare row for adding an expense;
			// keeping it would grow the draft on every round trip.
			if name == "" && amount == "" {
				continue
			}
			items = append(items, onboarding.LineItem{Name: name, Amount: amount})
		}
		draft.FixedExpenses = items
	case onboarding.StepLimits:
		for i, item := range draft.CategoryLimits {
			draft.CategoryLimits[i].Amount = sanitizeInput(r.Form.Get("limit_" + item.Name))
		}
	case onboarding.StepSavings:
		draft.Savings = sanitizeInput(r.Form.Get("savings"))
	case onboarding.StepAlerts:
		// Checkboxes send nothing when unchecked, and the alerts fieldset is
		// always on this step's form, so an absent value means deselected.
		alerts := make([]string, 0, len(r.Form["alerts"]))
		for _, v := range r.Form["alerts"] {
			alerts = append(alerts, sanitizeInput(v))
		}
		draft.Alerts = alerts
	}
}

func (s *Server) finishOnboarding(w http.ResponseWriter, r *http.Request, draft *onboarding.Draft) {
	sess := sessionFrom(r)
	ctx := r.Context()

	if !draft.CanFinish() {
		s.saveDraft(r, draft)
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.renderWizard(w, r, draft, "Your plan overcommits your income. Adjust it before finishing.")
		return
	}

	if err := s.backend.SubmitOnboarding(ctx, sess.Token, sess.UserID, draft.Request()); err != nil {
		// Keep the draft so the user can retry without retyping.
		slog.ErrorContext(ctx, "Onboarding submit failed", "error", err, "user_id", sess.UserID)
		s.saveDraft(r, draft)
		w.WriteHeader(http.StatusBadGateway)
		s.renderWizard(w, r, draft, userErr("save your plan"))
		return
	}

	if err := s.sessions.ClearDraft(ctx, sess.ID); err != nil {
		slog.ErrorContext(ctx, "Draft clear failed", "error", err)
	}
	s.invalidateBackendCaches(sess)

	slog.InfoContext(ctx, "Onboarding completed", "user_id", sess.UserID)
	http.Redirect(w, r, "/budgets", http.StatusSeeOther)
}

func (s *Server) saveDraft(r *http.Request, draft *onboarding.Draft) {
	sess := sessionFrom(r)
	raw, err := draft.Encode()
	if err != nil {
		slog.ErrorContext(r.Context(), "Draft encode failed", "error", err)
		return
	}
	if err := s.sessions.SaveDraft(r.Context(), sess.ID, raw); err != nil {
		slog.ErrorContext(r.Context(), "Draft save failed", "error", err)
	}
	sess.Draft = raw
}

func (s *Server) renderWizard(w http.ResponseWriter, r *http.Request, draft *onboarding.Draft, errMsg string) {
	s.render(w, r, "onboarding.html", pageData{
		Title: "Set up your budget (step " + strconv.Itoa(draft.Step) + " of 5)",
		Error: errMsg,
		Data: onboardingData{
			Draft:     draft,
			Remaining: draft.Remaining(),
		},
	})
}

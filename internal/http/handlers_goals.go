package http

import (
	"log/slog"
	"net/http"

	"aimms/internal/api"
	"aimms/internal/core"
)

type goalsData struct {
	Goals []api.Goal
}

// handleGoals lists goals on GET and creates or updates one on POST. An
// empty goal_id in the form means create.
func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	ctx := r.Context()

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		name := sanitizeInput(r.Form.Get("goal_name"))
		target, err := core.ParseAmount(r.Form.Get("target_amount"))
		if name == "" || err != nil || target <= 0 {
			w.WriteHeader(http.StatusUnprocessableEntity)
			s.renderGoals(w, r, "A goal needs a name and a positive target amount.")
			return
		}

		req := api.GoalRequest{
			GoalName:      name,
			TargetAmount:  target,
			CurrentAmount: core.AmountOrZero(r.Form.Get("current_amount")),
			Deadline:      sanitizeInput(r.Form.Get("deadline")),
		}

		goalID := sanitizeInput(r.Form.Get("goal_id"))
		if goalID == "" {
			err = s.backend.CreateGoal(ctx, sess.Token, sess.UserID, req)
		} else {
			err = s.backend.UpdateGoal(ctx, sess.Token, goalID, req)
		}
		if err != nil {
			slog.ErrorContext(ctx, "Goal save failed", "error", err, "user_id", sess.UserID)
			w.WriteHeader(http.StatusBadGateway)
			s.renderGoals(w, r, userErr("save your goal"))
			return
		}

		slog.InfoContext(ctx, "Goal saved", "user_id", sess.UserID, "goal_name", name)
		http.Redirect(w, r, "/goals", http.StatusSeeOther)
		return
	}

	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	s.renderGoals(w, r, "")
}

func (s *Server) renderGoals(w http.ResponseWriter, r *http.Request, errMsg string) {
	sess := sessionFrom(r)
	goals, err := s.backend.UserGoals(r.Context(), sess.Token, sess.UserID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Goals fetch failed", "error", err, "user_id", sess.UserID)
		http.Error(w, "failed to load goals", http.StatusBadGateway)
		return
	}
	s.render(w, r, "goals.html", pageData{
		Title: "Goals",
		Error: errMsg,
		Data:  goalsData{Goals: goals},
	})
}

func (s *Server) handleGoalDelete(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	sess := sessionFrom(r)

	goalID := sanitizeInput(r.FormValue("goal_id"))
	if goalID == "" {
		http.Error(w, "missing goal id", http.StatusBadRequest)
		return
	}
	if err := s.backend.DeleteGoal(r.Context(), sess.Token, goalID); err != nil {
		slog.ErrorContext(r.Context(), "Goal delete failed", "error", err, "goal_id", goalID)
		http.Error(w, "failed to delete goal", http.StatusBadGateway)
		return
	}
	slog.InfoContext(r.Context(), "Goal deleted", "user_id", sess.UserID, "goal_id", goalID)
	http.Redirect(w, r, "/goals", http.StatusSeeOther)
}

type goalPredictionData struct {
	GoalID     string
	Prediction *api.GoalPrediction
}

// handleGoalPrediction serves the forecast fragment for a single goal,
// fetched on demand from the goals page.
func (s *Server) handleGoalPrediction(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	sess := sessionFrom(r)

	goalID := sanitizeInput(r.URL.Query().Get("goal_id"))
	if goalID == "" {
		http.Error(w, "missing goal id", http.StatusBadRequest)
		return
	}

	pred, err := s.backend.GoalPrediction(r.Context(), sess.Token, goalID, sess.UserID)
	if err != nil {
		slog.WarnContext(r.Context(), "Goal prediction failed", "error", err, "goal_id", goalID)
		http.Error(w, "prediction unavailable", http.StatusBadGateway)
		return
	}

	s.render(w, r, "goal_prediction.html", pageData{
		Title: "Goal forecast",
		Data:  goalPredictionData{GoalID: goalID, Prediction: pred},
	})
}

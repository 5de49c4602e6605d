package http

import (
	"log/slog"
	"net/http"

	"aimms/internal/api"
)

type transactionsData struct {
	Transactions []api.Transaction
	Total        float64
	ExportReady  bool
	Exported     int
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	sess := sessionFrom(r)

	txns, err := s.backend.UserTransactions(r.Context(), sess.Token, sess.UserID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transactions fetch failed", "error", err, "user_id", sess.UserID)
		http.Error(w, "failed to load transactions", http.StatusBadGateway)
		return
	}

	var total float64
	for _, t := range txns {
		total += t.Amount
	}

	s.render(w, r, "transactions.html", pageData{
		Title: "Transactions",
		Data: transactionsData{
			Transactions: txns,
			Total:        total,
			ExportReady:  s.exporter != nil,
		},
	})
}

// handleTransactionsExport pushes the user's transaction history to the
// configured Google Sheet. The exporter is optional; without credentials the
// route reports that exports are disabled instead of failing at startup.
func (s *Server) handleTransactionsExport(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	sess := sessionFrom(r)
	ctx := r.Context()

	if s.exporter == nil {
		s.render(w, r, "transactions.html", pageData{
			Title: "Transactions",
			Error: "Export is not configured on this server.",
			Data:  transactionsData{},
		})
		return
	}

	txns, err := s.backend.UserTransactions(ctx, sess.Token, sess.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "Transactions fetch failed", "error", err, "user_id", sess.UserID)
		http.Error(w, "failed to load transactions", http.StatusBadGateway)
		return
	}

	n, err := s.exporter.ExportTransactions(ctx, txns)
	if err != nil {
		slog.ErrorContext(ctx, "Sheet export failed", "error", err, "user_id", sess.UserID)
		w.WriteHeader(http.StatusBadGateway)
		s.render(w, r, "transactions.html", pageData{
			Title: "Transactions",
			Error: userErr("export your transactions"),
			Data:  transactionsData{Transactions: txns, ExportReady: true},
		})
		return
	}

	slog.InfoContext(ctx, "Transactions exported", "user_id", sess.UserID, "rows", n)

	var total float64
	for _, t := range txns {
		total += t.Amount
	}
	s.render(w, r, "transactions.html", pageData{
		Title: "Transactions",
		Data: transactionsData{
			Transactions: txns,
			Total:        total,
			ExportReady:  true,
			Exported:     n,
		},
	})
}

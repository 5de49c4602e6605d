package http

import (
	"log/slog"
	"net/http"

	"aimms/internal/api"
)

// Uploaded bills go through OCR; keep the limit well above a phone photo.
const maxReceiptUpload = 10 << 20

type receiptsData struct {
	Receipts []api.Receipt
	Scan     *api.ReceiptScan
}

// handleReceipts lists scanned receipts on GET and accepts a new upload on
// POST, rendering the extraction result inline.
func (s *Server) handleReceipts(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	ctx := r.Context()

	var scan *api.ReceiptScan
	var errMsg string

	if r.Method == http.MethodPost {
		if err := r.ParseMultipartForm(maxReceiptUpload); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			errMsg = "That file is too large to scan."
		} else {
			file, header, err := r.FormFile("receipt")
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				errMsg = "Choose a receipt image to upload."
			} else {
				defer file.Close()
				scan, err = s.backend.UploadReceipt(ctx, sess.Token, header.Filename, file)
				if err != nil {
					slog.ErrorContext(ctx, "Receipt scan failed", "error", err, "user_id", sess.UserID)
					w.WriteHeader(http.StatusBadGateway)
					errMsg = userErr("scan your receipt")
				} else {
					slog.InfoContext(ctx, "Receipt scanned", "user_id", sess.UserID, "merchant", scan.MerchantName)
				}
			}
		}
	} else if !requireMethod(w, r, http.MethodGet) {
		return
	}

	receipts, err := s.backend.Receipts(ctx, sess.Token, sess.UserID)
	if err != nil {
		slog.WarnContext(ctx, "Receipts fetch failed", "error", err, "user_id", sess.UserID)
	}

	s.render(w, r, "receipts.html", pageData{
		Title: "Receipts",
		Error: errMsg,
		Data:  receiptsData{Receipts: receipts, Scan: scan},
	})
}

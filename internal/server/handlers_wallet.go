package server

import (
	"fmt"
	"io"
	"net/http"
)

// --- Wallet and dashboard handlers ---

// handleWallets handles GET /api/wallets - accounts with timelines plus cards.
func (s *Server) handleWallets(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	asOf, ok := monthParam(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}

	overview, err := s.app.WalletService.GetOverview(r.Context(), userID, asOf)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error building wallet: %v", err))
		return
	}
	WriteJSON(w, http.StatusOK, overview)
}

// handleDashboard handles GET /api/dashboard.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	asOf, ok := monthParam(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}

	summary, err := s.app.DashboardService.GetSummary(r.Context(), userID, asOf)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error building dashboard: %v", err))
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// handleAccountTimeline handles GET /api/accounts/{id}/timeline.
func (s *Server) handleAccountTimeline(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	asOf, ok := monthParam(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}

	bt, err := s.app.WalletService.GetAccountTimeline(r.Context(), userID, id, asOf)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, bt)
}

// handleAccountChart handles GET /api/accounts/{id}/chart - PNG render.
func (s *Server) handleAccountChart(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	asOf, ok := monthParam(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}

	png, err := s.app.ReportService.RenderBalanceChart(r.Context(), userID, id, asOf)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleStatementImport handles POST /api/accounts/{id}/statements.
// The request body is the raw PDF.
func (s *Server) handleStatementImport(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	body := http.MaxBytesReader(w, r.Body, 10<<20) // 10MB limit for PDFs
	pdfData, err := io.ReadAll(body)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "failed to read statement body")
		return
	}
	if len(pdfData) == 0 {
		WriteError(w, http.StatusBadRequest, "statement body is required")
		return
	}

	txs, err := s.app.StatementService.ImportStatement(r.Context(), userID, id, pdfData)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"imported":     len(txs),
		"transactions": txs,
	})
}

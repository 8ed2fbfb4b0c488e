package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/arvyo/arvyo-server/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Auth + users
	mux.HandleFunc("/api/auth/register", s.handleAuthRegister)
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/validate", s.handleAuthValidate)
	mux.HandleFunc("/api/users/me", s.handleUserMe)
	mux.HandleFunc("/api/users/", s.routeUsers)
	mux.HandleFunc("/api/users", s.handleUserList)

	// Accounts
	mux.HandleFunc("/api/accounts/", s.routeAccounts)
	mux.HandleFunc("/api/accounts", s.handleAccounts)

	// Cards
	mux.HandleFunc("/api/cards/", s.routeCards)
	mux.HandleFunc("/api/cards", s.handleCards)

	// Transactions
	mux.HandleFunc("/api/transactions/suggest-category", s.handleSuggestCategory)
	mux.HandleFunc("/api/transactions/", s.routeTransactions)
	mux.HandleFunc("/api/transactions", s.handleTransactions)

	// Categories
	mux.HandleFunc("/api/categories/", s.routeCategories)
	mux.HandleFunc("/api/categories", s.handleCategories)

	// Budgets
	mux.HandleFunc("/api/budgets/", s.routeBudgets)
	mux.HandleFunc("/api/budgets", s.handleBudgets)

	// Goals
	mux.HandleFunc("/api/goals/", s.routeGoals)
	mux.HandleFunc("/api/goals", s.handleGoals)

	// Aggregate views
	mux.HandleFunc("/api/wallets", s.handleWallets)
	mux.HandleFunc("/api/dashboard", s.handleDashboard)
}

// requireUser resolves the authenticated user from the request context.
// Writes a 401 and returns false when the request is anonymous.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := common.ResolveUserID(r.Context())
	if userID == "" {
		writeBearerChallenge(w, "authentication required")
		return "", false
	}
	return userID, true
}

// monthParam resolves the ?month=YYYY-MM query parameter to a time inside
// that month, defaulting to now.
func monthParam(r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return time.Now().UTC(), true
	}
	t, err := time.Parse("2006-01", raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// routeAccounts dispatches /api/accounts/{id}/* to the appropriate handler.
func (s *Server) routeAccounts(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/accounts/")
	if path == "" {
		s.handleAccounts(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	id := parts[0]
	subpath := ""
	if len(parts) > 1 {
		subpath = parts[1]
	}

	switch subpath {
	case "":
		s.handleAccountByID(w, r, id)
	case "transactions":
		s.handleOwnerTransactions(w, r, id)
	case "timeline":
		s.handleAccountTimeline(w, r, id)
	case "chart":
		s.handleAccountChart(w, r, id)
	case "statements":
		s.handleStatementImport(w, r, id)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// routeCards dispatches /api/cards/{id} and /api/cards/{id}/transactions.
func (s *Server) routeCards(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/cards/")
	if path == "" {
		s.handleCards(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	id := parts[0]
	subpath := ""
	if len(parts) > 1 {
		subpath = parts[1]
	}

	switch subpath {
	case "":
		s.handleCardByID(w, r, id)
	case "transactions":
		s.handleOwnerTransactions(w, r, id)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// routeTransactions dispatches GET/PUT/DELETE for /api/transactions/{id}.
func (s *Server) routeTransactions(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" {
		s.handleTransactions(w, r)
		return
	}
	s.handleTransactionByID(w, r, id)
}

// routeCategories dispatches PUT/DELETE for /api/categories/{id}.
func (s *Server) routeCategories(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/categories/")
	if id == "" {
		s.handleCategories(w, r)
		return
	}
	s.handleCategoryByID(w, r, id)
}

// routeBudgets dispatches PUT/DELETE for /api/budgets/{id}.
func (s *Server) routeBudgets(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/budgets/")
	if id == "" {
		s.handleBudgets(w, r)
		return
	}
	s.handleBudgetByID(w, r, id)
}

// routeGoals dispatches /api/goals/{id} and /api/goals/{id}/contribute.
func (s *Server) routeGoals(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/goals/")
	if path == "" {
		s.handleGoals(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	id := parts[0]
	subpath := ""
	if len(parts) > 1 {
		subpath = parts[1]
	}

	switch subpath {
	case "":
		s.handleGoalByID(w, r, id)
	case "contribute":
		s.handleGoalContribute(w, r, id)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":       s.app.Config.Environment,
		"logging_level":     s.app.Config.Logging.Level,
		"internal_db_path":  s.app.Config.Storage.Internal.Path,
		"finance_db_path":   s.app.Config.Storage.Finance.Path,
		"charts_path":       s.app.Config.Storage.Charts.Path,
		"gemini_configured": s.app.GeminiClient != nil,
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

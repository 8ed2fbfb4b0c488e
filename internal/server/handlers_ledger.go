package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arvyo/arvyo-server/internal/models"
)

// writeLedgerError maps a ledger service error to an HTTP status.
func writeLedgerError(w http.ResponseWriter, err error) {
	if strings.Contains(err.Error(), "not found") {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	WriteError(w, http.StatusBadRequest, err.Error())
}

// --- Account handlers ---

// handleAccounts handles GET (list) and POST (create) /api/accounts.
func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		accounts, err := s.app.LedgerService.ListAccounts(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing accounts: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"accounts": accounts})

	case http.MethodPost:
		var account models.Account
		if !DecodeJSON(w, r, &account) {
			return
		}
		account.UserID = userID
		created, err := s.app.LedgerService.CreateAccount(r.Context(), &account)
		if err != nil {
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, created)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleAccountByID handles GET/PUT/DELETE /api/accounts/{id}.
func (s *Server) handleAccountByID(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		account, err := s.app.LedgerService.GetAccount(r.Context(), userID, id)
		if err != nil {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Account not found: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, account)

	case http.MethodPut:
		var account models.Account
		if !DecodeJSON(w, r, &account) {
			return
		}
		account.ID = id
		account.UserID = userID
		updated, err := s.app.LedgerService.UpdateAccount(r.Context(), &account)
		if err != nil {
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.app.LedgerService.DeleteAccount(r.Context(), userID, id); err != nil {
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handleOwnerTransactions handles GET /api/accounts/{id}/transactions and
// GET /api/cards/{id}/transactions - one owner's transactions, date ascending.
func (s *Server) handleOwnerTransactions(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	// The owner must exist and belong to the user
	if strings.HasPrefix(id, "card_") {
		if _, err := s.app.LedgerService.GetCard(r.Context(), userID, id); err != nil {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Card not found: %v", err))
			return
		}
	} else {
		if _, err := s.app.LedgerService.GetAccount(r.Context(), userID, id); err != nil {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Account not found: %v", err))
			return
		}
	}

	txs, err := s.app.Storage.FinanceStore().ListTransactionsByOwner(r.Context(), userID, id, time.Time{})
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing transactions: %v", err))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"transactions": txs})
}

// --- Card handlers ---

// handleCards handles GET (list) and POST (create) /api/cards.
func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		cards, err := s.app.LedgerService.ListCards(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing cards: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"cards": cards})

	case http.MethodPost:
		var req struct {
			models.Card
			Number string `json:"number"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		req.Card.UserID = userID
		created, err := s.app.LedgerService.CreateCard(r.Context(), &req.Card, req.Number)
		if err != nil {
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, created)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleCardByID handles GET/PUT/DELETE /api/cards/{id}.
func (s *Server) handleCardByID(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		card, err := s.app.LedgerService.GetCard(r.Context(), userID, id)
		if err != nil {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Card not found: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, card)

	case http.MethodPut:
		var card models.Card
		if !DecodeJSON(w, r, &card) {
			return
		}
		card.ID = id
		card.UserID = userID
		updated, err := s.app.LedgerService.UpdateCard(r.Context(), &card)
		if err != nil {
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.app.LedgerService.DeleteCard(r.Context(), userID, id); err != nil {
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// --- Transaction handlers ---

// handleTransactions handles GET (list) and POST (create) /api/transactions.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		txs, err := s.app.LedgerService.ListTransactions(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing transactions: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"transactions": txs})

	case http.MethodPost:
		var tx models.Transaction
		if !DecodeJSON(w, r, &tx) {
			return
		}
		tx.UserID = userID
		created, err := s.app.LedgerService.CreateTransaction(r.Context(), &tx)
		if err != nil {
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, created)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleTransactionByID handles GET/PUT/DELETE /api/transactions/{id}.
func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		tx, err := s.app.LedgerService.GetTransaction(r.Context(), userID, id)
		if err != nil {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Transaction not found: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, tx)

	case http.MethodPut:
		var tx models.Transaction
		if !DecodeJSON(w, r, &tx) {
			return
		}
		tx.ID = id
		tx.UserID = userID
		updated, err := s.app.LedgerService.UpdateTransaction(r.Context(), &tx)
		if err != nil {
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.app.LedgerService.DeleteTransaction(r.Context(), userID, id); err != nil {
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handleSuggestCategory handles POST /api/transactions/suggest-category.
func (s *Server) handleSuggestCategory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if s.app.GeminiClient == nil {
		WriteError(w, http.StatusServiceUnavailable, "category suggestions are not configured")
		return
	}

	var req struct {
		Description string `json:"description"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Description == "" {
		WriteError(w, http.StatusBadRequest, "description is required")
		return
	}

	categories, err := s.app.LedgerService.ListCategories(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing categories: %v", err))
		return
	}

	names := make([]string, 0, len(categories))
	byName := make(map[string]*models.Category, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
		byName[strings.ToLower(c.Name)] = c
	}

	suggestion, err := s.app.GeminiClient.SuggestCategory(r.Context(), req.Description, names)
	if err != nil {
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("Suggestion failed: %v", err))
		return
	}

	resp := map[string]interface{}{"suggestion": suggestion}
	if c, ok := byName[strings.ToLower(suggestion)]; ok {
		resp["category_id"] = c.ID
	}
	WriteJSON(w, http.StatusOK, resp)
}

// --- Category handlers ---

// handleCategories handles GET (list) and POST (create) /api/categories.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		categories, err := s.app.LedgerService.ListCategories(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing categories: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})

	case http.MethodPost:
		var category models.Category
		if !DecodeJSON(w, r, &category) {
			return
		}
		category.UserID = userID
		created, err := s.app.LedgerService.CreateCategory(r.Context(), &category)
		if err != nil {
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, created)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleCategoryByID handles PUT/DELETE /api/categories/{id}.
func (s *Server) handleCategoryByID(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPut:
		var category models.Category
		if !DecodeJSON(w, r, &category) {
			return
		}
		category.ID = id
		category.UserID = userID
		updated, err := s.app.LedgerService.UpdateCategory(r.Context(), &category)
		if err != nil {
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.app.LedgerService.DeleteCategory(r.Context(), userID, id); err != nil {
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

// --- Budget handlers ---

// handleBudgets handles GET (list with status) and POST (create) /api/budgets.
func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		asOf, ok := monthParam(r)
		if !ok {
			WriteError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
			return
		}
		budgets, err := s.app.LedgerService.ListBudgets(r.Context(), userID, asOf)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing budgets: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"budgets": budgets})

	case http.MethodPost:
		var budget models.Budget
		if !DecodeJSON(w, r, &budget) {
			return
		}
		budget.UserID = userID
		created, err := s.app.LedgerService.CreateBudget(r.Context(), &budget)
		if err != nil {
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, created)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleBudgetByID handles PUT/DELETE /api/budgets/{id}.
func (s *Server) handleBudgetByID(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPut:
		var budget models.Budget
		if !DecodeJSON(w, r, &budget) {
			return
		}
		budget.ID = id
		budget.UserID = userID
		updated, err := s.app.LedgerService.UpdateBudget(r.Context(), &budget)
		if err != nil {
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.app.LedgerService.DeleteBudget(r.Context(), userID, id); err != nil {
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

// --- Goal handlers ---

// handleGoals handles GET (list) and POST (create) /api/goals.
func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		goals, err := s.app.LedgerService.ListGoals(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing goals: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"goals": goals})

	case http.MethodPost:
		var goal models.Goal
		if !DecodeJSON(w, r, &goal) {
			return
		}
		goal.UserID = userID
		created, err := s.app.LedgerService.CreateGoal(r.Context(), &goal)
		if err != nil {
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, created)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleGoalByID handles PUT/DELETE /api/goals/{id}.
func (s *Server) handleGoalByID(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPut:
		var goal models.Goal
		if !DecodeJSON(w, r, &goal) {
			return
		}
		goal.ID = id
		goal.UserID = userID
		updated, err := s.app.LedgerService.UpdateGoal(r.Context(), &goal)
		if err != nil {
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.app.LedgerService.DeleteGoal(r.Context(), userID, id); err != nil {
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

// handleGoalContribute handles POST /api/goals/{id}/contribute.
func (s *Server) handleGoalContribute(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	goal, err := s.app.LedgerService.ContributeToGoal(r.Context(), userID, id, req.Amount)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, goal)
}

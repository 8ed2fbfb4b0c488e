// Package dashboard aggregates a user's position for the landing view.
package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arvyo/arvyo-server/internal/common"
	"github.com/arvyo/arvyo-server/internal/interfaces"
	"github.com/arvyo/arvyo-server/internal/models"
)

// recentLimit caps the recent-transaction list on the dashboard.
const recentLimit = 5

// Compile-time interface check
var _ interfaces.DashboardService = (*Service)(nil)

// Service implements DashboardService
type Service struct {
	storage interfaces.StorageManager
	ledger  interfaces.LedgerService
	logger  *common.Logger
}

// NewService creates a new dashboard service
func NewService(storage interfaces.StorageManager, ledger interfaces.LedgerService, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		ledger:  ledger,
		logger:  logger,
	}
}

// GetSummary builds the dashboard for the month containing asOf: total
// balance across active accounts, the month's income and expense
// totals over all accounts and cards, recent transactions, budget
// status, and goals.
func (s *Service) GetSummary(ctx context.Context, userID string, asOf time.Time) (*models.DashboardSummary, error) {
	monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location())

	accounts, err := s.storage.FinanceStore().ListAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	cards, err := s.storage.FinanceStore().ListCards(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs, err := s.storage.FinanceStore().ListTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.storage.FinanceStore().RecentTransactions(ctx, userID, "", recentLimit)
	if err != nil {
		return nil, err
	}

	totalBalance := decimal.Zero
	for _, account := range accounts {
		if account.IsActive {
			totalBalance = totalBalance.Add(account.Balance)
		}
	}

	income := decimal.Zero
	expenses := decimal.Zero
	for _, tx := range txs {
		if tx.Date.Before(monthStart) {
			continue
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			income = income.Add(tx.Amount)
		case models.TransactionTypeExpense:
			expenses = expenses.Add(tx.Amount)
		}
	}

	budgets, err := s.ledger.ListBudgets(ctx, userID, asOf)
	if err != nil {
		return nil, err
	}
	goals, err := s.storage.FinanceStore().ListGoals(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &models.DashboardSummary{
		UserID:          userID,
		Month:           monthStart.Format("2006-01"),
		TotalBalance:    totalBalance,
		MonthlyIncome:   income,
		MonthlyExpenses: expenses,
		MonthlyNet:      income.Sub(expenses),
		AccountCount:    len(accounts),
		CardCount:       len(cards),
	}
	summary.RecentTransactions = make([]models.Transaction, len(recent))
	for i, tx := range recent {
		summary.RecentTransactions[i] = *tx
	}
	for _, b := range budgets {
		if b.IsActive && b.Covers(asOf) {
			summary.Budgets = append(summary.Budgets, *b)
		}
	}
	for _, g := range goals {
		summary.Goals = append(summary.Goals, *g)
	}
	return summary, nil
}

// Package wallet builds per-user wallet views: account balance
// timelines and card spending limits.
package wallet

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arvyo/arvyo-server/internal/common"
	"github.com/arvyo/arvyo-server/internal/interfaces"
	"github.com/arvyo/arvyo-server/internal/models"
	"github.com/arvyo/arvyo-server/internal/timeline"
)

// recentLimit caps the recent-transaction tail shown per account.
const recentLimit = 5

// Compile-time interface check
var _ interfaces.WalletService = (*Service)(nil)

// Service implements WalletService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new wallet service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// GetAccountTimeline reconstructs one account's balance timeline for
// the month containing asOf. The account snapshot and the month's
// transactions come from a single read each, and the same transaction
// list feeds both the net-change total and the checkpoint series.
func (s *Service) GetAccountTimeline(ctx context.Context, userID, accountID string, asOf time.Time) (*models.BalanceTimeline, error) {
	account, err := s.storage.FinanceStore().GetAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	return s.buildTimeline(ctx, account, asOf)
}

// GetOverview returns every account with its balance timeline and
// every card with its available limit, for the month containing asOf.
func (s *Service) GetOverview(ctx context.Context, userID string, asOf time.Time) (*models.WalletOverview, error) {
	accounts, err := s.storage.FinanceStore().ListAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	cards, err := s.storage.FinanceStore().ListCards(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := &models.WalletOverview{
		UserID:       userID,
		Month:        time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location()).Format("2006-01"),
		TotalBalance: decimal.Zero,
		Accounts:     make([]models.WalletAccount, 0, len(accounts)),
		Cards:        make([]models.WalletCard, 0, len(cards)),
	}

	for _, account := range accounts {
		bt, err := s.buildTimeline(ctx, account, asOf)
		if err != nil {
			return nil, err
		}
		recent, err := s.storage.FinanceStore().RecentTransactions(ctx, userID, account.ID, recentLimit)
		if err != nil {
			return nil, err
		}
		overview.Accounts = append(overview.Accounts, models.WalletAccount{
			Account:            *account,
			Timeline:           bt,
			RecentTransactions: deref(recent),
		})
		if account.IsActive {
			overview.TotalBalance = overview.TotalBalance.Add(account.Balance)
		}
	}

	for _, card := range cards {
		expenses, err := s.cardExpenses(ctx, userID, card.ID)
		if err != nil {
			return nil, err
		}
		overview.Cards = append(overview.Cards, models.WalletCard{
			Card:           *card,
			Expenses:       expenses,
			AvailableLimit: card.Limit.Sub(expenses),
		})
	}

	return overview, nil
}

func (s *Service) buildTimeline(ctx context.Context, account *models.Account, asOf time.Time) (*models.BalanceTimeline, error) {
	monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location())
	txs, err := s.storage.FinanceStore().ListTransactionsByOwner(ctx, account.UserID, account.ID, monthStart)
	if err != nil {
		return nil, err
	}
	return timeline.Build(*account, deref(txs), asOf)
}

// cardExpenses sums all expense transactions recorded against the card.
func (s *Service) cardExpenses(ctx context.Context, userID, cardID string) (decimal.Decimal, error) {
	txs, err := s.storage.FinanceStore().ListTransactionsByOwner(ctx, userID, cardID, time.Time{})
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Type == models.TransactionTypeExpense {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}

func deref(txs []*models.Transaction) []models.Transaction {
	result := make([]models.Transaction, len(txs))
	for i, tx := range txs {
		result[i] = *tx
	}
	return result
}

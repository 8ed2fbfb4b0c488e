// Package financedb implements FinanceStore using BadgerHold.
// It holds all per-user finance domain data: accounts, cards,
// transactions, categories, budgets, and goals.
package financedb

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/arvyo/arvyo-server/internal/common"
	"github.com/arvyo/arvyo-server/internal/models"
)

// keySep is the composite key separator. Records are keyed as
// userID + keySep + recordID so one user's records cluster together
// and IDs never collide across users.
const keySep = "\x00"

// Store implements interfaces.FinanceStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore creates a new FinanceStore backed by BadgerHold.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create finance db path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open finance db at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("FinanceDB opened")
	return &Store{db: db, logger: logger}, nil
}

func recordKey(userID, id string) string {
	return userID + keySep + id
}

// --- Accounts ---

func (s *Store) GetAccount(_ context.Context, userID, id string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Get(recordKey(userID, id), &account); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("account '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get account '%s': %w", id, err)
	}
	return &account, nil
}

func (s *Store) SaveAccount(_ context.Context, account *models.Account) error {
	now := time.Now()
	var existing models.Account
	if err := s.db.Get(recordKey(account.UserID, account.ID), &existing); err == nil {
		account.CreatedAt = existing.CreatedAt
	} else if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.ModifiedAt = now

	if err := s.db.Upsert(recordKey(account.UserID, account.ID), account); err != nil {
		return fmt.Errorf("failed to save account '%s': %w", account.ID, err)
	}
	s.logger.Debug().Str("account_id", account.ID).Msg("Account saved")
	return nil
}

func (s *Store) DeleteAccount(_ context.Context, userID, id string) error {
	if err := s.db.Delete(recordKey(userID, id), models.Account{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete account '%s': %w", id, err)
	}
	s.logger.Debug().Str("account_id", id).Msg("Account deleted")
	return nil
}

func (s *Store) ListAccounts(_ context.Context, userID string) ([]*models.Account, error) {
	var accounts []models.Account
	if err := s.db.Find(&accounts, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	result := make([]*models.Account, len(accounts))
	for i := range accounts {
		result[i] = &accounts[i]
	}
	return result, nil
}

// --- Cards ---

func (s *Store) GetCard(_ context.Context, userID, id string) (*models.Card, error) {
	var card models.Card
	if err := s.db.Get(recordKey(userID, id), &card); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("card '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get card '%s': %w", id, err)
	}
	return &card, nil
}

func (s *Store) SaveCard(_ context.Context, card *models.Card) error {
	now := time.Now()
	var existing models.Card
	if err := s.db.Get(recordKey(card.UserID, card.ID), &existing); err == nil {
		card.CreatedAt = existing.CreatedAt
	} else if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	card.ModifiedAt = now

	if err := s.db.Upsert(recordKey(card.UserID, card.ID), card); err != nil {
		return fmt.Errorf("failed to save card '%s': %w", card.ID, err)
	}
	s.logger.Debug().Str("card_id", card.ID).Msg("Card saved")
	return nil
}

func (s *Store) DeleteCard(_ context.Context, userID, id string) error {
	if err := s.db.Delete(recordKey(userID, id), models.Card{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete card '%s': %w", id, err)
	}
	s.logger.Debug().Str("card_id", id).Msg("Card deleted")
	return nil
}

func (s *Store) ListCards(_ context.Context, userID string) ([]*models.Card, error) {
	var cards []models.Card
	if err := s.db.Find(&cards, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].CreatedAt.Before(cards[j].CreatedAt)
	})
	result := make([]*models.Card, len(cards))
	for i := range cards {
		result[i] = &cards[i]
	}
	return result, nil
}

// --- Transactions ---

func (s *Store) GetTransaction(_ context.Context, userID, id string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.db.Get(recordKey(userID, id), &tx); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("transaction '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get transaction '%s': %w", id, err)
	}
	return &tx, nil
}

func (s *Store) SaveTransaction(_ context.Context, tx *models.Transaction) error {
	now := time.Now()
	var existing models.Transaction
	if err := s.db.Get(recordKey(tx.UserID, tx.ID), &existing); err == nil {
		tx.CreatedAt = existing.CreatedAt
	} else if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.ModifiedAt = now

	if err := s.db.Upsert(recordKey(tx.UserID, tx.ID), tx); err != nil {
		return fmt.Errorf("failed to save transaction '%s': %w", tx.ID, err)
	}
	s.logger.Debug().Str("transaction_id", tx.ID).Msg("Transaction saved")
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id string) error {
	if err := s.db.Delete(recordKey(userID, id), models.Transaction{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete transaction '%s': %w", id, err)
	}
	s.logger.Debug().Str("transaction_id", id).Msg("Transaction deleted")
	return nil
}

func (s *Store) ListTransactions(_ context.Context, userID string) ([]*models.Transaction, error) {
	txs, err := s.findTransactions(userID)
	if err != nil {
		return nil, err
	}
	sortAscending(txs)
	return txs, nil
}

func (s *Store) ListTransactionsByOwner(_ context.Context, userID, ownerID string, since time.Time) ([]*models.Transaction, error) {
	txs, err := s.findTransactions(userID)
	if err != nil {
		return nil, err
	}
	filtered := txs[:0]
	for _, tx := range txs {
		if tx.AccountID != ownerID && tx.CardID != ownerID {
			continue
		}
		if tx.Date.Before(since) {
			continue
		}
		filtered = append(filtered, tx)
	}
	sortAscending(filtered)
	return filtered, nil
}

func (s *Store) RecentTransactions(_ context.Context, userID, ownerID string, limit int) ([]*models.Transaction, error) {
	txs, err := s.findTransactions(userID)
	if err != nil {
		return nil, err
	}
	filtered := txs[:0]
	for _, tx := range txs {
		if ownerID != "" && tx.AccountID != ownerID && tx.CardID != ownerID {
			continue
		}
		filtered = append(filtered, tx)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if !filtered[i].Date.Equal(filtered[j].Date) {
			return filtered[i].Date.After(filtered[j].Date)
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func (s *Store) DeleteTransactionsByOwner(_ context.Context, userID, ownerID string) (int, error) {
	txs, err := s.findTransactions(userID)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, tx := range txs {
		if tx.AccountID != ownerID && tx.CardID != ownerID {
			continue
		}
		if err := s.db.Delete(recordKey(userID, tx.ID), models.Transaction{}); err != nil && err != badgerhold.ErrNotFound {
			return deleted, fmt.Errorf("failed to delete transaction '%s': %w", tx.ID, err)
		}
		deleted++
	}
	s.logger.Debug().Str("owner_id", ownerID).Int("count", deleted).Msg("Transactions deleted")
	return deleted, nil
}

func (s *Store) findTransactions(userID string) ([]*models.Transaction, error) {
	var txs []models.Transaction
	if err := s.db.Find(&txs, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	result := make([]*models.Transaction, len(txs))
	for i := range txs {
		result[i] = &txs[i]
	}
	return result, nil
}

// sortAscending orders transactions by date, oldest first. Same-date
// transactions keep insertion order (CreatedAt).
func sortAscending(txs []*models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.Before(txs[j].Date)
		}
		return txs[i].CreatedAt.Before(txs[j].CreatedAt)
	})
}

// --- Categories ---

// globalUserID keys categories visible to every user.
const globalUserID = ""

func (s *Store) GetCategory(_ context.Context, userID, id string) (*models.Category, error) {
	var category models.Category
	err := s.db.Get(recordKey(userID, id), &category)
	if err == badgerhold.ErrNotFound {
		err = s.db.Get(recordKey(globalUserID, id), &category)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("category '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get category '%s': %w", id, err)
	}
	return &category, nil
}

func (s *Store) SaveCategory(_ context.Context, category *models.Category) error {
	now := time.Now()
	var existing models.Category
	if err := s.db.Get(recordKey(category.UserID, category.ID), &existing); err == nil {
		category.CreatedAt = existing.CreatedAt
	} else if category.CreatedAt.IsZero() {
		category.CreatedAt = now
	}
	category.ModifiedAt = now

	if err := s.db.Upsert(recordKey(category.UserID, category.ID), category); err != nil {
		return fmt.Errorf("failed to save category '%s': %w", category.ID, err)
	}
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, userID, id string) error {
	if err := s.db.Delete(recordKey(userID, id), models.Category{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete category '%s': %w", id, err)
	}
	return nil
}

func (s *Store) ListCategories(_ context.Context, userID string) ([]*models.Category, error) {
	var categories []models.Category
	query := badgerhold.Where("UserID").Eq(userID).Or(badgerhold.Where("UserID").Eq(globalUserID))
	if err := s.db.Find(&categories, query); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	result := make([]*models.Category, len(categories))
	for i := range categories {
		result[i] = &categories[i]
	}
	return result, nil
}

// --- Budgets ---

func (s *Store) GetBudget(_ context.Context, userID, id string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Get(recordKey(userID, id), &budget); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("budget '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get budget '%s': %w", id, err)
	}
	return &budget, nil
}

func (s *Store) SaveBudget(_ context.Context, budget *models.Budget) error {
	now := time.Now()
	var existing models.Budget
	if err := s.db.Get(recordKey(budget.UserID, budget.ID), &existing); err == nil {
		budget.CreatedAt = existing.CreatedAt
	} else if budget.CreatedAt.IsZero() {
		budget.CreatedAt = now
	}
	budget.ModifiedAt = now

	if err := s.db.Upsert(recordKey(budget.UserID, budget.ID), budget); err != nil {
		return fmt.Errorf("failed to save budget '%s': %w", budget.ID, err)
	}
	return nil
}

func (s *Store) DeleteBudget(_ context.Context, userID, id string) error {
	if err := s.db.Delete(recordKey(userID, id), models.Budget{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete budget '%s': %w", id, err)
	}
	return nil
}

func (s *Store) ListBudgets(_ context.Context, userID string) ([]*models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.Find(&budgets, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	sort.Slice(budgets, func(i, j int) bool {
		return budgets[i].StartDate.Before(budgets[j].StartDate)
	})
	result := make([]*models.Budget, len(budgets))
	for i := range budgets {
		result[i] = &budgets[i]
	}
	return result, nil
}

// --- Goals ---

func (s *Store) GetGoal(_ context.Context, userID, id string) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Get(recordKey(userID, id), &goal); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("goal '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get goal '%s': %w", id, err)
	}
	return &goal, nil
}

func (s *Store) SaveGoal(_ context.Context, goal *models.Goal) error {
	now := time.Now()
	var existing models.Goal
	if err := s.db.Get(recordKey(goal.UserID, goal.ID), &existing); err == nil {
		goal.CreatedAt = existing.CreatedAt
	} else if goal.CreatedAt.IsZero() {
		goal.CreatedAt = now
	}
	goal.ModifiedAt = now

	if err := s.db.Upsert(recordKey(goal.UserID, goal.ID), goal); err != nil {
		return fmt.Errorf("failed to save goal '%s': %w", goal.ID, err)
	}
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, userID, id string) error {
	if err := s.db.Delete(recordKey(userID, id), models.Goal{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete goal '%s': %w", id, err)
	}
	return nil
}

func (s *Store) ListGoals(_ context.Context, userID string) ([]*models.Goal, error) {
	var goals []models.Goal
	if err := s.db.Find(&goals, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	sort.Slice(goals, func(i, j int) bool {
		return goals[i].CreatedAt.Before(goals[j].CreatedAt)
	})
	result := make([]*models.Goal, len(goals))
	for i := range goals {
		result[i] = &goals[i]
	}
	return result, nil
}

// Close shuts down the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Package interfaces defines service contracts for Arvyo
package interfaces

import (
	"context"
	"time"

	"github.com/arvyo/arvyo-server/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	// Storage accessors
	InternalStore() InternalStore
	FinanceStore() FinanceStore

	// WriteRaw writes arbitrary binary data to a subdirectory of the
	// charts area atomically. Key is sanitized for safe filenames
	// (e.g. "acc-1a2b3c4d.png").
	WriteRaw(subdir, key string, data []byte) error

	// ReadRaw reads back a file written with WriteRaw.
	ReadRaw(subdir, key string) ([]byte, error)

	// Lifecycle
	Close() error
}

// InternalStore manages user accounts, per-user config, and system-level KV.
type InternalStore interface {
	// User accounts
	GetUser(ctx context.Context, userID string) (*models.InternalUser, error)
	GetUserByEmail(ctx context.Context, email string) (*models.InternalUser, error)
	SaveUser(ctx context.Context, user *models.InternalUser) error
	DeleteUser(ctx context.Context, userID string) error
	ListUsers(ctx context.Context) ([]string, error)

	// Per-user key-value config
	GetUserKV(ctx context.Context, userID, key string) (*models.UserKeyValue, error)
	SetUserKV(ctx context.Context, userID, key, value string) error
	DeleteUserKV(ctx context.Context, userID, key string) error
	ListUserKV(ctx context.Context, userID string) ([]*models.UserKeyValue, error)

	// System key-value (non-user-scoped)
	GetSystemKV(ctx context.Context, key string) (string, error)
	SetSystemKV(ctx context.Context, key, value string) error

	Close() error
}

// FinanceStore manages all per-user finance domain data: accounts,
// cards, transactions, categories, budgets, and goals. Every read and
// write is scoped to one user.
type FinanceStore interface {
	// Accounts
	GetAccount(ctx context.Context, userID, id string) (*models.Account, error)
	SaveAccount(ctx context.Context, account *models.Account) error
	DeleteAccount(ctx context.Context, userID, id string) error
	ListAccounts(ctx context.Context, userID string) ([]*models.Account, error)

	// Cards
	GetCard(ctx context.Context, userID, id string) (*models.Card, error)
	SaveCard(ctx context.Context, card *models.Card) error
	DeleteCard(ctx context.Context, userID, id string) error
	ListCards(ctx context.Context, userID string) ([]*models.Card, error)

	// Transactions
	GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error)
	SaveTransaction(ctx context.Context, tx *models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error
	ListTransactions(ctx context.Context, userID string) ([]*models.Transaction, error)

	// ListTransactionsByOwner returns a single account's or card's
	// transactions dated on/after since, ascending by date. Same-date
	// transactions keep insertion order. The ownerID matches either
	// AccountID or CardID.
	ListTransactionsByOwner(ctx context.Context, userID, ownerID string, since time.Time) ([]*models.Transaction, error)

	// RecentTransactions returns the user's most recent transactions
	// by date descending, capped at limit. An ownerID narrows the
	// result to one account or card; empty means all.
	RecentTransactions(ctx context.Context, userID, ownerID string, limit int) ([]*models.Transaction, error)

	// DeleteTransactionsByOwner removes every transaction referencing
	// the account or card, returning the count removed. Used when an
	// account or card is deleted.
	DeleteTransactionsByOwner(ctx context.Context, userID, ownerID string) (int, error)

	// Categories. Reads include global categories (empty UserID).
	GetCategory(ctx context.Context, userID, id string) (*models.Category, error)
	SaveCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, userID, id string) error
	ListCategories(ctx context.Context, userID string) ([]*models.Category, error)

	// Budgets
	GetBudget(ctx context.Context, userID, id string) (*models.Budget, error)
	SaveBudget(ctx context.Context, budget *models.Budget) error
	DeleteBudget(ctx context.Context, userID, id string) error
	ListBudgets(ctx context.Context, userID string) ([]*models.Budget, error)

	// Goals
	GetGoal(ctx context.Context, userID, id string) (*models.Goal, error)
	SaveGoal(ctx context.Context, goal *models.Goal) error
	DeleteGoal(ctx context.Context, userID, id string) error
	ListGoals(ctx context.Context, userID string) ([]*models.Goal, error)

	Close() error
}

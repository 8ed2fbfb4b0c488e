// Package interfaces defines service contracts for Arvyo
package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arvyo/arvyo-server/internal/models"
)

// UserService manages user registration and authentication.
type UserService interface {
	// Register creates a user with a bcrypt-hashed password.
	Register(ctx context.Context, email, name, password string) (*models.InternalUser, error)

	// Authenticate verifies credentials and returns the user on success.
	Authenticate(ctx context.Context, email, password string) (*models.InternalUser, error)

	// GetUser retrieves a user by ID
	GetUser(ctx context.Context, userID string) (*models.InternalUser, error)

	// UpdateUser applies profile changes (name, password)
	UpdateUser(ctx context.Context, userID string, updates UserUpdates) (*models.InternalUser, error)

	// DeleteUser removes the user account
	DeleteUser(ctx context.Context, userID string) error
}

// UserUpdates holds optional profile changes. Nil fields are left unchanged.
type UserUpdates struct {
	Name     *string
	Password *string
}

// LedgerService manages the finance domain records and keeps account
// balances in step with their transactions.
type LedgerService interface {
	// Accounts
	CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error)
	GetAccount(ctx context.Context, userID, id string) (*models.Account, error)
	UpdateAccount(ctx context.Context, account *models.Account) (*models.Account, error)
	DeleteAccount(ctx context.Context, userID, id string) error
	ListAccounts(ctx context.Context, userID string) ([]*models.Account, error)

	// Cards
	CreateCard(ctx context.Context, card *models.Card, rawNumber string) (*models.Card, error)
	GetCard(ctx context.Context, userID, id string) (*models.Card, error)
	UpdateCard(ctx context.Context, card *models.Card) (*models.Card, error)
	DeleteCard(ctx context.Context, userID, id string) error
	ListCards(ctx context.Context, userID string) ([]*models.Card, error)

	// Transactions. Creating, updating, or deleting an account-backed
	// transaction adjusts the account balance by the signed amount.
	CreateTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id string) error
	ListTransactions(ctx context.Context, userID string) ([]*models.Transaction, error)

	// Categories
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID, id string) error
	ListCategories(ctx context.Context, userID string) ([]*models.Category, error)

	// Budgets
	CreateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error)
	UpdateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error)
	DeleteBudget(ctx context.Context, userID, id string) error
	ListBudgets(ctx context.Context, userID string, asOf time.Time) ([]*models.BudgetStatus, error)

	// Goals
	CreateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error)
	UpdateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error)
	DeleteGoal(ctx context.Context, userID, id string) error
	ListGoals(ctx context.Context, userID string) ([]*models.Goal, error)

	// ContributeToGoal adds an amount to a goal's current total,
	// marking it completed when the target is reached.
	ContributeToGoal(ctx context.Context, userID, id string, amount decimal.Decimal) (*models.Goal, error)
}

// WalletService builds the per-user wallet views from a single
// consistent read of the finance store.
type WalletService interface {
	// GetOverview returns every account with its balance timeline and
	// every card with its available limit, for the month containing asOf.
	GetOverview(ctx context.Context, userID string, asOf time.Time) (*models.WalletOverview, error)

	// GetAccountTimeline reconstructs one account's balance timeline
	// for the month containing asOf.
	GetAccountTimeline(ctx context.Context, userID, accountID string, asOf time.Time) (*models.BalanceTimeline, error)
}

// DashboardService aggregates the user's position for the landing view.
type DashboardService interface {
	GetSummary(ctx context.Context, userID string, asOf time.Time) (*models.DashboardSummary, error)
}

// ReportService renders balance timelines as chart images.
type ReportService interface {
	// RenderBalanceChart renders the account's timeline for the month
	// containing asOf as a PNG, stores it in the charts area, and
	// returns the image bytes.
	RenderBalanceChart(ctx context.Context, userID, accountID string, asOf time.Time) ([]byte, error)
}

// StatementService imports transactions from bank statement PDFs.
type StatementService interface {
	// ImportStatement parses a statement PDF and records its rows as
	// transactions against the account. Returns the created
	// transactions in statement order.
	ImportStatement(ctx context.Context, userID, accountID string, pdfData []byte) ([]*models.Transaction, error)
}

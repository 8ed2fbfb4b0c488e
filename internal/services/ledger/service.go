// Package ledger manages finance domain records and keeps account
// balances in step with their transactions.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arvyo/arvyo-server/internal/common"
	"github.com/arvyo/arvyo-server/internal/interfaces"
	"github.com/arvyo/arvyo-server/internal/models"
)

// Compile-time interface check
var _ interfaces.LedgerService = (*Service)(nil)

// Service implements LedgerService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new ledger service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// --- Accounts ---

func (s *Service) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	if account.ID == "" {
		account.ID = common.NewID("acc")
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}
	if err := s.storage.FinanceStore().SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info().Str("account_id", account.ID).Str("name", account.Name).Msg("Account created")
	return account, nil
}

func (s *Service) GetAccount(ctx context.Context, userID, id string) (*models.Account, error) {
	return s.storage.FinanceStore().GetAccount(ctx, userID, id)
}

func (s *Service) UpdateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.storage.FinanceStore().GetAccount(ctx, account.UserID, account.ID); err != nil {
		return nil, err
	}
	if err := s.storage.FinanceStore().SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteAccount removes the account and every transaction recorded
// against it.
func (s *Service) DeleteAccount(ctx context.Context, userID, id string) error {
	if _, err := s.storage.FinanceStore().GetAccount(ctx, userID, id); err != nil {
		return err
	}
	count, err := s.storage.FinanceStore().DeleteTransactionsByOwner(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete account transactions: %w", err)
	}
	if err := s.storage.FinanceStore().DeleteAccount(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info().Str("account_id", id).Int("transactions", count).Msg("Account deleted")
	return nil
}

func (s *Service) ListAccounts(ctx context.Context, userID string) ([]*models.Account, error) {
	return s.storage.FinanceStore().ListAccounts(ctx, userID)
}

// --- Cards ---

func (s *Service) CreateCard(ctx context.Context, card *models.Card, rawNumber string) (*models.Card, error) {
	if card.ID == "" {
		card.ID = common.NewID("card")
	}
	if rawNumber != "" {
		card.NumberMasked = models.MaskCardNumber(rawNumber)
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}
	if err := s.storage.FinanceStore().SaveCard(ctx, card); err != nil {
		return nil, err
	}
	s.logger.Info().Str("card_id", card.ID).Str("name", card.CardName).Msg("Card created")
	return card, nil
}

func (s *Service) GetCard(ctx context.Context, userID, id string) (*models.Card, error) {
	return s.storage.FinanceStore().GetCard(ctx, userID, id)
}

func (s *Service) UpdateCard(ctx context.Context, card *models.Card) (*models.Card, error) {
	if err := card.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.storage.FinanceStore().GetCard(ctx, card.UserID, card.ID)
	if err != nil {
		return nil, err
	}
	// The masked number is immutable once stored
	card.NumberMasked = existing.NumberMasked
	if err := s.storage.FinanceStore().SaveCard(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// DeleteCard removes the card and every transaction recorded against it.
func (s *Service) DeleteCard(ctx context.Context, userID, id string) error {
	if _, err := s.storage.FinanceStore().GetCard(ctx, userID, id); err != nil {
		return err
	}
	count, err := s.storage.FinanceStore().DeleteTransactionsByOwner(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete card transactions: %w", err)
	}
	if err := s.storage.FinanceStore().DeleteCard(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info().Str("card_id", id).Int("transactions", count).Msg("Card deleted")
	return nil
}

func (s *Service) ListCards(ctx context.Context, userID string) ([]*models.Card, error) {
	return s.storage.FinanceStore().ListCards(ctx, userID)
}

// --- Transactions ---

// CreateTransaction records a transaction. Account-backed transactions
// move the account balance by the signed amount; card transactions
// leave balances alone (the card limit computation reads them later).
func (s *Service) CreateTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	if tx.ID == "" {
		tx.ID = common.NewID("txn")
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, tx); err != nil {
		return nil, err
	}
	if tx.CategoryID != "" {
		if _, err := s.storage.FinanceStore().GetCategory(ctx, tx.UserID, tx.CategoryID); err != nil {
			return nil, fmt.Errorf("category '%s' not found", tx.CategoryID)
		}
	}

	if err := s.storage.FinanceStore().SaveTransaction(ctx, tx); err != nil {
		return nil, err
	}

	if tx.AccountID != "" {
		signed, err := tx.SignedAmount()
		if err != nil {
			return nil, err
		}
		if err := s.adjustBalance(ctx, tx.UserID, tx.AccountID, signed); err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Str("transaction_id", tx.ID).
		Str("type", string(tx.Type)).
		Str("amount", tx.Amount.String()).
		Msg("Transaction created")
	return tx, nil
}

func (s *Service) GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error) {
	return s.storage.FinanceStore().GetTransaction(ctx, userID, id)
}

// UpdateTransaction replaces a transaction, reversing the old balance
// effect and applying the new one.
func (s *Service) UpdateTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.storage.FinanceStore().GetTransaction(ctx, tx.UserID, tx.ID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, tx); err != nil {
		return nil, err
	}

	if existing.AccountID != "" {
		oldSigned, err := existing.SignedAmount()
		if err != nil {
			return nil, err
		}
		if err := s.adjustBalance(ctx, existing.UserID, existing.AccountID, oldSigned.Neg()); err != nil {
			return nil, err
		}
	}

	if err := s.storage.FinanceStore().SaveTransaction(ctx, tx); err != nil {
		return nil, err
	}

	if tx.AccountID != "" {
		newSigned, err := tx.SignedAmount()
		if err != nil {
			return nil, err
		}
		if err := s.adjustBalance(ctx, tx.UserID, tx.AccountID, newSigned); err != nil {
			return nil, err
		}
	}
	return tx, nil
}

// DeleteTransaction removes a transaction, reversing its balance effect.
func (s *Service) DeleteTransaction(ctx context.Context, userID, id string) error {
	existing, err := s.storage.FinanceStore().GetTransaction(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.storage.FinanceStore().DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}
	if existing.AccountID != "" {
		signed, err := existing.SignedAmount()
		if err != nil {
			return err
		}
		if err := s.adjustBalance(ctx, userID, existing.AccountID, signed.Neg()); err != nil {
			return err
		}
	}
	s.logger.Info().Str("transaction_id", id).Msg("Transaction deleted")
	return nil
}

func (s *Service) ListTransactions(ctx context.Context, userID string) ([]*models.Transaction, error) {
	return s.storage.FinanceStore().ListTransactions(ctx, userID)
}

// checkOwner verifies the referenced account or card exists for the user.
func (s *Service) checkOwner(ctx context.Context, tx *models.Transaction) error {
	if tx.AccountID != "" {
		if _, err := s.storage.FinanceStore().GetAccount(ctx, tx.UserID, tx.AccountID); err != nil {
			return fmt.Errorf("account '%s' not found", tx.AccountID)
		}
		return nil
	}
	if _, err := s.storage.FinanceStore().GetCard(ctx, tx.UserID, tx.CardID); err != nil {
		return fmt.Errorf("card '%s' not found", tx.CardID)
	}
	return nil
}

func (s *Service) adjustBalance(ctx context.Context, userID, accountID string, delta decimal.Decimal) error {
	account, err := s.storage.FinanceStore().GetAccount(ctx, userID, accountID)
	if err != nil {
		return err
	}
	account.Balance = account.Balance.Add(delta)
	if err := s.storage.FinanceStore().SaveAccount(ctx, account); err != nil {
		return fmt.Errorf("failed to adjust balance for account '%s': %w", accountID, err)
	}
	return nil
}

// --- Categories ---

func (s *Service) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if category.ID == "" {
		category.ID = common.NewID("cat")
	}
	category.ApplyDefaults()
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkCategoryName(ctx, category); err != nil {
		return nil, err
	}
	if err := s.storage.FinanceStore().SaveCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := category.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.storage.FinanceStore().GetCategory(ctx, category.UserID, category.ID)
	if err != nil {
		return nil, err
	}
	if existing.IsGlobal() && category.UserID != "" {
		return nil, fmt.Errorf("global categories cannot be modified")
	}
	if !strings.EqualFold(existing.Name, category.Name) {
		if err := s.checkCategoryName(ctx, category); err != nil {
			return nil, err
		}
	}
	category.ApplyDefaults()
	if err := s.storage.FinanceStore().SaveCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) DeleteCategory(ctx context.Context, userID, id string) error {
	existing, err := s.storage.FinanceStore().GetCategory(ctx, userID, id)
	if err != nil {
		return err
	}
	if existing.IsGlobal() {
		return fmt.Errorf("global categories cannot be deleted")
	}
	// Transactions keep working without their category; clear the reference.
	txs, err := s.storage.FinanceStore().ListTransactions(ctx, userID)
	if err != nil {
		return err
	}
	for _, tx := range txs {
		if tx.CategoryID == id {
			tx.CategoryID = ""
			if err := s.storage.FinanceStore().SaveTransaction(ctx, tx); err != nil {
				return fmt.Errorf("failed to detach category from transaction '%s': %w", tx.ID, err)
			}
		}
	}
	return s.storage.FinanceStore().DeleteCategory(ctx, userID, id)
}

func (s *Service) ListCategories(ctx context.Context, userID string) ([]*models.Category, error) {
	return s.storage.FinanceStore().ListCategories(ctx, userID)
}

// checkCategoryName enforces one category name per user (including
// against globals).
func (s *Service) checkCategoryName(ctx context.Context, category *models.Category) error {
	existing, err := s.storage.FinanceStore().ListCategories(ctx, category.UserID)
	if err != nil {
		return err
	}
	for _, c := range existing {
		if c.ID != category.ID && strings.EqualFold(c.Name, category.Name) {
			return fmt.Errorf("category '%s' already exists", category.Name)
		}
	}
	return nil
}

// --- Budgets ---

func (s *Service) CreateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	if budget.ID == "" {
		budget.ID = common.NewID("bud")
	}
	if err := budget.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.storage.FinanceStore().GetCategory(ctx, budget.UserID, budget.CategoryID); err != nil {
		return nil, fmt.Errorf("category '%s' not found", budget.CategoryID)
	}
	if err := s.checkBudgetOverlap(ctx, budget); err != nil {
		return nil, err
	}
	if err := s.storage.FinanceStore().SaveBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *Service) UpdateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	if err := budget.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.storage.FinanceStore().GetBudget(ctx, budget.UserID, budget.ID); err != nil {
		return nil, err
	}
	if err := s.checkBudgetOverlap(ctx, budget); err != nil {
		return nil, err
	}
	if err := s.storage.FinanceStore().SaveBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *Service) DeleteBudget(ctx context.Context, userID, id string) error {
	if _, err := s.storage.FinanceStore().GetBudget(ctx, userID, id); err != nil {
		return err
	}
	return s.storage.FinanceStore().DeleteBudget(ctx, userID, id)
}

// ListBudgets returns the user's budgets with spend-to-date for those
// whose period covers asOf.
func (s *Service) ListBudgets(ctx context.Context, userID string, asOf time.Time) ([]*models.BudgetStatus, error) {
	budgets, err := s.storage.FinanceStore().ListBudgets(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs, err := s.storage.FinanceStore().ListTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]*models.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		spent := decimal.Zero
		for _, tx := range txs {
			if tx.Type != models.TransactionTypeExpense || tx.CategoryID != b.CategoryID {
				continue
			}
			if b.Covers(tx.Date) {
				spent = spent.Add(tx.Amount)
			}
		}
		result = append(result, &models.BudgetStatus{
			Budget:    *b,
			Spent:     spent,
			Remaining: b.Amount.Sub(spent),
		})
	}
	return result, nil
}

// checkBudgetOverlap enforces one budget per category and period.
func (s *Service) checkBudgetOverlap(ctx context.Context, budget *models.Budget) error {
	existing, err := s.storage.FinanceStore().ListBudgets(ctx, budget.UserID)
	if err != nil {
		return err
	}
	for _, b := range existing {
		if b.ID == budget.ID || b.CategoryID != budget.CategoryID {
			continue
		}
		if b.StartDate.Equal(budget.StartDate) && b.EndDate.Equal(budget.EndDate) {
			return fmt.Errorf("a budget for this category and period already exists")
		}
	}
	return nil
}

// --- Goals ---

func (s *Service) CreateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	if goal.ID == "" {
		goal.ID = common.NewID("goal")
	}
	if err := goal.Validate(); err != nil {
		return nil, err
	}
	if err := s.storage.FinanceStore().SaveGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *Service) UpdateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	if err := goal.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.storage.FinanceStore().GetGoal(ctx, goal.UserID, goal.ID); err != nil {
		return nil, err
	}
	goal.IsCompleted = goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount)
	if err := s.storage.FinanceStore().SaveGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *Service) DeleteGoal(ctx context.Context, userID, id string) error {
	if _, err := s.storage.FinanceStore().GetGoal(ctx, userID, id); err != nil {
		return err
	}
	return s.storage.FinanceStore().DeleteGoal(ctx, userID, id)
}

func (s *Service) ListGoals(ctx context.Context, userID string) ([]*models.Goal, error) {
	return s.storage.FinanceStore().ListGoals(ctx, userID)
}

// ContributeToGoal adds an amount to a goal's current total, marking
// it completed when the target is reached.
func (s *Service) ContributeToGoal(ctx context.Context, userID, id string, amount decimal.Decimal) (*models.Goal, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("contribution amount must be positive")
	}
	goal, err := s.storage.FinanceStore().GetGoal(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	goal.CurrentAmount = goal.CurrentAmount.Add(amount)
	goal.IsCompleted = goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount)
	if err := s.storage.FinanceStore().SaveGoal(ctx, goal); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("goal_id", id).
		Str("amount", amount.String()).
		Bool("completed", goal.IsCompleted).
		Msg("Goal contribution recorded")
	return goal, nil
}

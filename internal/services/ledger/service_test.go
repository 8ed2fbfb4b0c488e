package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arvyo/arvyo-server/internal/common"
	"github.com/arvyo/arvyo-server/internal/models"
	"github.com/arvyo/arvyo-server/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	cfg := common.NewDefaultConfig()
	cfg.Storage.Internal.Path = filepath.Join(dir, "internal")
	cfg.Storage.Finance.Path = filepath.Join(dir, "finance")
	cfg.Storage.Charts.Path = filepath.Join(dir, "charts")

	mgr, err := storage.NewManager(common.NewSilentLogger(), cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })
	return NewService(mgr, common.NewSilentLogger())
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(d int) time.Time {
	return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
}

func createAccount(t *testing.T, svc *Service, balance string) *models.Account {
	t.Helper()
	account, err := svc.CreateAccount(context.Background(), &models.Account{
		UserID:   "usr_1",
		Name:     "Checking",
		Balance:  dec(balance),
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	return account
}

func TestCreateAccountAssignsID(t *testing.T) {
	svc := newTestService(t)

	account := createAccount(t, svc, "1000.00")
	if account.ID == "" || account.ID[:4] != "acc_" {
		t.Errorf("ID = %q, want acc_ prefix", account.ID)
	}

	got, err := svc.GetAccount(context.Background(), "usr_1", account.ID)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if !got.Balance.Equal(dec("1000.00")) {
		t.Errorf("balance = %s", got.Balance)
	}
}

func TestCreateAccountValidates(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateAccount(context.Background(), &models.Account{UserID: "usr_1"})
	if err == nil {
		t.Error("account without name accepted")
	}
}

func TestTransactionMovesBalance(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	account := createAccount(t, svc, "1000.00")

	expense, err := svc.CreateTransaction(ctx, &models.Transaction{
		UserID:      "usr_1",
		AccountID:   account.ID,
		Type:        models.TransactionTypeExpense,
		Amount:      dec("200.00"),
		Description: "Groceries",
		Date:        day(3),
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if expense.ID[:4] != "txn_" {
		t.Errorf("ID = %q, want txn_ prefix", expense.ID)
	}

	got, _ := svc.GetAccount(ctx, "usr_1", account.ID)
	if !got.Balance.Equal(dec("800.00")) {
		t.Errorf("balance after expense = %s, want 800.00", got.Balance)
	}

	if _, err := svc.CreateTransaction(ctx, &models.Transaction{
		UserID:      "usr_1",
		AccountID:   account.ID,
		Type:        models.TransactionTypeIncome,
		Amount:      dec("50.00"),
		Description: "Refund",
		Date:        day(10),
	}); err != nil {
		t.Fatalf("CreateTransaction income: %v", err)
	}

	got, _ = svc.GetAccount(ctx, "usr_1", account.ID)
	if !got.Balance.Equal(dec("850.00")) {
		t.Errorf("balance after income = %s, want 850.00", got.Balance)
	}
}

func TestUpdateTransactionReappliesBalance(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	account := createAccount(t, svc, "1000.00")

	tx, err := svc.CreateTransaction(ctx, &models.Transaction{
		UserID:      "usr_1",
		AccountID:   account.ID,
		Type:        models.TransactionTypeExpense,
		Amount:      dec("200.00"),
		Description: "Groceries",
		Date:        day(3),
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	tx.Amount = dec("50.00")
	if _, err := svc.UpdateTransaction(ctx, tx); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}

	got, _ := svc.GetAccount(ctx, "usr_1", account.ID)
	if !got.Balance.Equal(dec("950.00")) {
		t.Errorf("balance after update = %s, want 950.00", got.Balance)
	}
}

func TestDeleteTransactionReversesBalance(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	account := createAccount(t, svc, "1000.00")

	tx, err := svc.CreateTransaction(ctx, &models.Transaction{
		UserID:      "usr_1",
		AccountID:   account.ID,
		Type:        models.TransactionTypeExpense,
		Amount:      dec("200.00"),
		Description: "Groceries",
		Date:        day(3),
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	if err := svc.DeleteTransaction(ctx, "usr_1", tx.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}

	got, _ := svc.GetAccount(ctx, "usr_1", account.ID)
	if !got.Balance.Equal(dec("1000.00")) {
		t.Errorf("balance after delete = %s, want 1000.00", got.Balance)
	}
}

func TestCreateTransactionUnknownAccount(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateTransaction(context.Background(), &models.Transaction{
		UserID:      "usr_1",
		AccountID:   "acc_missing",
		Type:        models.TransactionTypeExpense,
		Amount:      dec("5.00"),
		Description: "x",
		Date:        day(1),
	})
	if err == nil {
		t.Error("transaction on missing account accepted")
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	account := createAccount(t, svc, "1000.00")

	if _, err := svc.CreateTransaction(ctx, &models.Transaction{
		UserID:      "usr_1",
		AccountID:   account.ID,
		Type:        models.TransactionTypeExpense,
		Amount:      dec("10.00"),
		Description: "x",
		Date:        day(1),
	}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	if err := svc.DeleteAccount(ctx, "usr_1", account.ID); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}

	txs, err := svc.ListTransactions(ctx, "usr_1")
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("transactions remain after account delete: %d", len(txs))
	}
}

func TestCardTransactionLeavesBalancesAlone(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	account := createAccount(t, svc, "1000.00")

	card, err := svc.CreateCard(ctx, &models.Card{
		UserID:   "usr_1",
		Brand:    "Visa",
		CardName: "Everyday",
		Limit:    dec("5000.00"),
	}, "4111111111111111")
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	if card.NumberMasked != "4111********1111" {
		t.Errorf("masked = %q", card.NumberMasked)
	}

	if _, err := svc.CreateTransaction(ctx, &models.Transaction{
		UserID:      "usr_1",
		CardID:      card.ID,
		Type:        models.TransactionTypeExpense,
		Amount:      dec("100.00"),
		Description: "Online order",
		Date:        day(4),
	}); err != nil {
		t.Fatalf("CreateTransaction card: %v", err)
	}

	got, _ := svc.GetAccount(ctx, "usr_1", account.ID)
	if !got.Balance.Equal(dec("1000.00")) {
		t.Errorf("account balance moved by card transaction: %s", got.Balance)
	}
}

func TestCategoryNameUniquePerUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateCategory(ctx, &models.Category{UserID: "usr_1", Name: "Groceries"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if first.IconClass != models.DefaultCategoryIcon || first.ColorClass != models.DefaultCategoryColor {
		t.Errorf("defaults not applied: %+v", first)
	}

	if _, err := svc.CreateCategory(ctx, &models.Category{UserID: "usr_1", Name: "groceries"}); err == nil {
		t.Error("duplicate category name accepted")
	}

	// Other users are unaffected
	if _, err := svc.CreateCategory(ctx, &models.Category{UserID: "usr_2", Name: "Groceries"}); err != nil {
		t.Errorf("other user's category rejected: %v", err)
	}
}

func TestDeleteCategoryDetachesTransactions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	account := createAccount(t, svc, "1000.00")

	category, err := svc.CreateCategory(ctx, &models.Category{UserID: "usr_1", Name: "Groceries"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	tx, err := svc.CreateTransaction(ctx, &models.Transaction{
		UserID:      "usr_1",
		AccountID:   account.ID,
		Type:        models.TransactionTypeExpense,
		Amount:      dec("10.00"),
		Description: "Weekly shop",
		CategoryID:  category.ID,
		Date:        day(2),
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	if err := svc.DeleteCategory(ctx, "usr_1", category.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	got, err := svc.GetTransaction(ctx, "usr_1", tx.ID)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got.CategoryID != "" {
		t.Errorf("transaction still references deleted category: %q", got.CategoryID)
	}
}

func TestBudgetStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	account := createAccount(t, svc, "1000.00")

	category, err := svc.CreateCategory(ctx, &models.Category{UserID: "usr_1", Name: "Groceries"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	if _, err := svc.CreateBudget(ctx, &models.Budget{
		UserID:     "usr_1",
		CategoryID: category.ID,
		Amount:     dec("300.00"),
		StartDate:  day(1),
		EndDate:    day(30),
		IsActive:   true,
	}); err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}

	// In-period expense counts; out-of-period does not
	for _, tc := range []struct {
		date   time.Time
		amount string
	}{
		{day(5), "120.00"},
		{time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC), "999.00"},
	} {
		if _, err := svc.CreateTransaction(ctx, &models.Transaction{
			UserID:      "usr_1",
			AccountID:   account.ID,
			Type:        models.TransactionTypeExpense,
			Amount:      dec(tc.amount),
			Description: "shop",
			CategoryID:  category.ID,
			Date:        tc.date,
		}); err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}

	statuses, err := svc.ListBudgets(ctx, "usr_1", day(15))
	if err != nil {
		t.Fatalf("ListBudgets: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("got %d budgets", len(statuses))
	}
	if !statuses[0].Spent.Equal(dec("120.00")) {
		t.Errorf("spent = %s, want 120.00", statuses[0].Spent)
	}
	if !statuses[0].Remaining.Equal(dec("180.00")) {
		t.Errorf("remaining = %s, want 180.00", statuses[0].Remaining)
	}
}

func TestContributeToGoal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	goal, err := svc.CreateGoal(ctx, &models.Goal{
		UserID:       "usr_1",
		Name:         "Holiday",
		TargetAmount: dec("500.00"),
	})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	goal, err = svc.ContributeToGoal(ctx, "usr_1", goal.ID, dec("200.00"))
	if err != nil {
		t.Fatalf("ContributeToGoal: %v", err)
	}
	if !goal.CurrentAmount.Equal(dec("200.00")) || goal.IsCompleted {
		t.Errorf("got %+v", goal)
	}

	goal, err = svc.ContributeToGoal(ctx, "usr_1", goal.ID, dec("300.00"))
	if err != nil {
		t.Fatalf("ContributeToGoal: %v", err)
	}
	if !goal.IsCompleted {
		t.Error("goal should be completed at target")
	}

	if _, err := svc.ContributeToGoal(ctx, "usr_1", goal.ID, dec("-5.00")); err == nil {
		t.Error("negative contribution accepted")
	}
}

package dashboard

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arvyo/arvyo-server/internal/common"
	"github.com/arvyo/arvyo-server/internal/interfaces"
	"github.com/arvyo/arvyo-server/internal/models"
	"github.com/arvyo/arvyo-server/internal/services/ledger"
	"github.com/arvyo/arvyo-server/internal/storage"
)

func newTestServices(t *testing.T) (*Service, interfaces.LedgerService) {
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

	logger := common.NewSilentLogger()
	ledgerSvc := ledger.NewService(mgr, logger)
	return NewService(mgr, ledgerSvc, logger), ledgerSvc
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(d int) time.Time {
	return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
}

func TestGetSummary(t *testing.T) {
	svc, ledgerSvc := newTestServices(t)
	ctx := context.Background()

	checking, err := ledgerSvc.CreateAccount(ctx, &models.Account{
		UserID: "usr_1", Name: "Checking", Balance: dec("1000.00"), IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if _, err := ledgerSvc.CreateAccount(ctx, &models.Account{
		UserID: "usr_1", Name: "Savings", Balance: dec("2500.00"), IsActive: true,
	}); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if _, err := ledgerSvc.CreateAccount(ctx, &models.Account{
		UserID: "usr_1", Name: "Closed", Balance: dec("400.00"), IsActive: false,
	}); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	// June activity plus one May transaction that must not count
	entries := []struct {
		date   time.Time
		txType models.TransactionType
		amount string
	}{
		{day(2), models.TransactionTypeIncome, "3000.00"},
		{day(5), models.TransactionTypeExpense, "120.50"},
		{day(9), models.TransactionTypeExpense, "79.50"},
		{time.Date(2025, time.May, 30, 0, 0, 0, 0, time.UTC), models.TransactionTypeExpense, "500.00"},
	}
	for _, e := range entries {
		if _, err := ledgerSvc.CreateTransaction(ctx, &models.Transaction{
			UserID:      "usr_1",
			AccountID:   checking.ID,
			Type:        e.txType,
			Amount:      dec(e.amount),
			Description: "entry",
			Date:        e.date,
		}); err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}

	summary, err := svc.GetSummary(ctx, "usr_1", day(15))
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	// 1000 + 3000 - 120.50 - 79.50 - 500 = 3300 on checking, plus 2500 savings
	if !summary.TotalBalance.Equal(dec("5800.00")) {
		t.Errorf("total balance = %s, want 5800.00", summary.TotalBalance)
	}
	if !summary.MonthlyIncome.Equal(dec("3000.00")) {
		t.Errorf("monthly income = %s, want 3000.00", summary.MonthlyIncome)
	}
	if !summary.MonthlyExpenses.Equal(dec("200.00")) {
		t.Errorf("monthly expenses = %s, want 200.00", summary.MonthlyExpenses)
	}
	if !summary.MonthlyNet.Equal(dec("2800.00")) {
		t.Errorf("monthly net = %s, want 2800.00", summary.MonthlyNet)
	}
	if summary.AccountCount != 3 {
		t.Errorf("account count = %d, want 3", summary.AccountCount)
	}
	if summary.Month != "2025-06" {
		t.Errorf("month = %q", summary.Month)
	}
	if len(summary.RecentTransactions) != 4 {
		t.Errorf("recent = %d, want 4", len(summary.RecentTransactions))
	}
	// Newest first
	if !summary.RecentTransactions[0].Date.Equal(day(9)) {
		t.Errorf("recent[0] date = %s", summary.RecentTransactions[0].Date)
	}
}

func TestGetSummaryEmptyUser(t *testing.T) {
	svc, _ := newTestServices(t)

	summary, err := svc.GetSummary(context.Background(), "usr_1", day(15))
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if !summary.TotalBalance.IsZero() || !summary.MonthlyIncome.IsZero() || !summary.MonthlyExpenses.IsZero() {
		t.Errorf("expected zero summary, got %+v", summary)
	}
	if len(summary.RecentTransactions) != 0 {
		t.Errorf("recent = %d, want 0", len(summary.RecentTransactions))
	}
}

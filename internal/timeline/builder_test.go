package timeline

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arvyo/arvyo-server/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func expense(id string, day time.Time, amount string) models.Transaction {
	return models.Transaction{
		ID:        id,
		AccountID: "acc_1",
		Type:      models.TransactionTypeExpense,
		Amount:    dec(amount),
		Date:      day,
	}
}

func income(id string, day time.Time, amount string) models.Transaction {
	return models.Transaction{
		ID:        id,
		AccountID: "acc_1",
		Type:      models.TransactionTypeIncome,
		Amount:    dec(amount),
		Date:      day,
	}
}

func TestBuildReconstructsOpeningBalance(t *testing.T) {
	account := models.Account{ID: "acc_1", Balance: dec("1000.00")}
	txs := []models.Transaction{
		expense("txn_1", date(2024, time.June, 3), "200.00"),
		income("txn_2", date(2024, time.June, 10), "50.00"),
	}

	bt, err := Build(account, txs, date(2024, time.June, 15))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if !bt.OpeningBalance.Equal(dec("1150.00")) {
		t.Errorf("opening balance = %s, want 1150.00", bt.OpeningBalance)
	}
	if !bt.MonthlyExpenses.Equal(dec("200.00")) {
		t.Errorf("monthly expenses = %s, want 200.00", bt.MonthlyExpenses)
	}
	if !bt.MonthlyIncome.Equal(dec("50.00")) {
		t.Errorf("monthly income = %s, want 50.00", bt.MonthlyIncome)
	}
	if bt.Month != "2024-06" {
		t.Errorf("month = %q, want 2024-06", bt.Month)
	}

	want := []models.Checkpoint{
		{Label: "01/06", Value: dec("1150.00")},
		{Label: "03/06", Value: dec("950.00")},
		{Label: "10/06", Value: dec("1000.00")},
	}
	if len(bt.Checkpoints) != len(want) {
		t.Fatalf("checkpoint count = %d, want %d", len(bt.Checkpoints), len(want))
	}
	for i, w := range want {
		got := bt.Checkpoints[i]
		if got.Label != w.Label || !got.Value.Equal(w.Value) {
			t.Errorf("checkpoint[%d] = (%s, %s), want (%s, %s)", i, got.Label, got.Value, w.Label, w.Value)
		}
	}
}

func TestBuildZeroTransactions(t *testing.T) {
	account := models.Account{ID: "acc_1", Balance: dec("500.00")}

	bt, err := Build(account, nil, date(2024, time.June, 15))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(bt.Checkpoints) != 1 {
		t.Fatalf("checkpoint count = %d, want 1", len(bt.Checkpoints))
	}
	cp := bt.Checkpoints[0]
	if cp.Label != "01/06" || !cp.Value.Equal(dec("500.00")) {
		t.Errorf("checkpoint = (%s, %s), want (01/06, 500.00)", cp.Label, cp.Value)
	}
	if !bt.MonthlyExpenses.IsZero() {
		t.Errorf("monthly expenses = %s, want 0", bt.MonthlyExpenses)
	}
	if !bt.NetChange.IsZero() {
		t.Errorf("net change = %s, want 0", bt.NetChange)
	}
}

func TestBuildSameDateOrderPreserved(t *testing.T) {
	account := models.Account{ID: "acc_1", Balance: dec("100.00")}
	day := date(2024, time.June, 5)
	txs := []models.Transaction{
		expense("txn_1", day, "10.00"),
		income("txn_2", day, "5.00"),
	}

	bt, err := Build(account, txs, date(2024, time.June, 15))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Opening 105.00, then the two same-date checkpoints in input order.
	want := []models.Checkpoint{
		{Label: "01/06", Value: dec("105.00")},
		{Label: "05/06", Value: dec("95.00")},
		{Label: "05/06", Value: dec("100.00")},
	}
	if len(bt.Checkpoints) != len(want) {
		t.Fatalf("checkpoint count = %d, want %d", len(bt.Checkpoints), len(want))
	}
	for i, w := range want {
		got := bt.Checkpoints[i]
		if got.Label != w.Label || !got.Value.Equal(w.Value) {
			t.Errorf("checkpoint[%d] = (%s, %s), want (%s, %s)", i, got.Label, got.Value, w.Label, w.Value)
		}
	}
}

func TestBuildCheckpointCount(t *testing.T) {
	account := models.Account{ID: "acc_1", Balance: dec("10000.00")}
	asOf := date(2024, time.June, 30)

	var txs []models.Transaction
	for i := 0; i < 25; i++ {
		day := date(2024, time.June, 1+i%28)
		if i%2 == 0 {
			txs = append(txs, expense("txn", day, "7.31"))
		} else {
			txs = append(txs, income("txn", day, "12.49"))
		}
		bt, err := Build(account, txs, asOf)
		if err != nil {
			t.Fatalf("Build with %d txs: %v", len(txs), err)
		}
		if len(bt.Checkpoints) != 1+len(txs) {
			t.Fatalf("checkpoint count = %d, want %d", len(bt.Checkpoints), 1+len(txs))
		}
	}
}

func TestBuildRunningTotalSteps(t *testing.T) {
	account := models.Account{ID: "acc_1", Balance: dec("750.25")}
	txs := []models.Transaction{
		income("txn_1", date(2024, time.June, 2), "100.10"),
		expense("txn_2", date(2024, time.June, 7), "33.33"),
		expense("txn_3", date(2024, time.June, 20), "0.01"),
		income("txn_4", date(2024, time.June, 21), "5.00"),
	}

	bt, err := Build(account, txs, date(2024, time.June, 28))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Each checkpoint is the previous value plus that transaction's
	// signed amount, and the last checkpoint equals the account balance.
	for i := 1; i < len(bt.Checkpoints); i++ {
		signed, err := txs[i-1].SignedAmount()
		if err != nil {
			t.Fatalf("SignedAmount: %v", err)
		}
		want := bt.Checkpoints[i-1].Value.Add(signed)
		if !bt.Checkpoints[i].Value.Equal(want) {
			t.Errorf("checkpoint[%d] = %s, want %s", i, bt.Checkpoints[i].Value, want)
		}
	}
	if !bt.ClosingBalance().Equal(account.Balance) {
		t.Errorf("closing balance = %s, want %s", bt.ClosingBalance(), account.Balance)
	}
	if !bt.OpeningBalance.Add(bt.NetChange).Equal(account.Balance) {
		t.Errorf("opening %s + net %s != balance %s", bt.OpeningBalance, bt.NetChange, account.Balance)
	}
}

func TestBuildIdempotent(t *testing.T) {
	account := models.Account{ID: "acc_1", Balance: dec("1000.00")}
	txs := []models.Transaction{
		income("txn_2", date(2024, time.June, 10), "50.00"),
		expense("txn_1", date(2024, time.June, 3), "200.00"),
	}
	asOf := date(2024, time.June, 15)

	first, err := Build(account, txs, asOf)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	second, err := Build(account, txs, asOf)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(first.Checkpoints) != len(second.Checkpoints) {
		t.Fatalf("checkpoint counts differ: %d vs %d", len(first.Checkpoints), len(second.Checkpoints))
	}
	for i := range first.Checkpoints {
		if first.Checkpoints[i].Label != second.Checkpoints[i].Label ||
			!first.Checkpoints[i].Value.Equal(second.Checkpoints[i].Value) {
			t.Errorf("checkpoint[%d] differs between runs", i)
		}
	}

	// The input slice keeps its original order.
	if txs[0].ID != "txn_2" || txs[1].ID != "txn_1" {
		t.Error("input slice was reordered")
	}
}

func TestBuildUnknownTypeRejected(t *testing.T) {
	account := models.Account{ID: "acc_1", Balance: dec("1000.00")}
	txs := []models.Transaction{
		{
			ID:        "txn_1",
			AccountID: "acc_1",
			Type:      "transfer",
			Amount:    dec("10.00"),
			Date:      date(2024, time.June, 3),
		},
	}

	_, err := Build(account, txs, date(2024, time.June, 15))
	if !errors.Is(err, ErrInconsistentLedger) {
		t.Fatalf("Build error = %v, want ErrInconsistentLedger", err)
	}
}

func TestBuildNegativeOpeningRejected(t *testing.T) {
	// Balance 100 with 500 income this month implies -400 at the start
	// of the month.
	account := models.Account{ID: "acc_1", Balance: dec("100.00")}
	txs := []models.Transaction{
		income("txn_1", date(2024, time.June, 4), "500.00"),
	}

	_, err := Build(account, txs, date(2024, time.June, 15))
	if !errors.Is(err, ErrInconsistentLedger) {
		t.Fatalf("Build error = %v, want ErrInconsistentLedger", err)
	}
}

func TestBuildExactDecimalArithmetic(t *testing.T) {
	// 0.1 + 0.2 style amounts that drift under binary floats.
	account := models.Account{ID: "acc_1", Balance: dec("0.30")}
	txs := []models.Transaction{
		income("txn_1", date(2024, time.June, 1), "0.10"),
		income("txn_2", date(2024, time.June, 2), "0.20"),
	}

	bt, err := Build(account, txs, date(2024, time.June, 15))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !bt.OpeningBalance.IsZero() {
		t.Errorf("opening balance = %s, want 0", bt.OpeningBalance)
	}
	if got := bt.Checkpoints[2].Value.String(); got != "0.3" && got != "0.30" {
		t.Errorf("final checkpoint = %s, want 0.30", got)
	}
}

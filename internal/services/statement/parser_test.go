package statement

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/arvyo/arvyo-server/internal/models"
)

func TestParseStatement(t *testing.T) {
	text := `Statement for account 1234
Date Description Amount

03/06/2025 TESCO STORES 2041 -45.30
05/06/2025 SALARY ACME LTD 2,500.00
10/06/2025 COFFEE SHOP -3.20
some footer text
`
	rows := ParseStatement(text)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	first := rows[0]
	if first.Type != models.TransactionTypeExpense {
		t.Errorf("row 0 type = %s", first.Type)
	}
	if !first.Amount.Equal(decimal.RequireFromString("45.30")) {
		t.Errorf("row 0 amount = %s", first.Amount)
	}
	if first.Description != "TESCO STORES 2041" {
		t.Errorf("row 0 description = %q", first.Description)
	}
	if first.Date.Day() != 3 || int(first.Date.Month()) != 6 || first.Date.Year() != 2025 {
		t.Errorf("row 0 date = %s", first.Date)
	}

	second := rows[1]
	if second.Type != models.TransactionTypeIncome {
		t.Errorf("row 1 type = %s", second.Type)
	}
	if !second.Amount.Equal(decimal.RequireFromString("2500.00")) {
		t.Errorf("row 1 amount = %s (thousands separator)", second.Amount)
	}
}

func TestParseStatementSkipsBadLines(t *testing.T) {
	text := `99/99/2025 impossible date -1.00
03/06/2025 no amount here
03/06/2025 zero amount 0.00
`
	rows := ParseStatement(text)
	if len(rows) != 0 {
		t.Fatalf("got %d rows, want 0", len(rows))
	}
}

func TestParseStatementEmpty(t *testing.T) {
	if rows := ParseStatement(""); len(rows) != 0 {
		t.Fatalf("got %d rows from empty text", len(rows))
	}
}

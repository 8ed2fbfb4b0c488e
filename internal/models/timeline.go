package models

import (
	"github.com/shopspring/decimal"
)

// Checkpoint is one point on a balance timeline: the balance Value as
// of the day named by Label ("DD/MM").
type Checkpoint struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// BalanceTimeline is the balance history of one account over one month,
// reconstructed backward from the account's current balance. The first
// checkpoint is the opening balance on the 1st; every transaction in
// the month adds one more checkpoint dated to its day.
type BalanceTimeline struct {
	AccountID       string          `json:"account_id"`
	Month           string          `json:"month"` // "YYYY-MM"
	OpeningBalance  decimal.Decimal `json:"opening_balance"`
	NetChange       decimal.Decimal `json:"net_change"`
	MonthlyIncome   decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	Checkpoints     []Checkpoint    `json:"checkpoints"`
}

// ClosingBalance returns the balance at the last checkpoint. For an
// empty timeline it returns zero.
func (bt *BalanceTimeline) ClosingBalance() decimal.Decimal {
	if len(bt.Checkpoints) == 0 {
		return decimal.Zero
	}
	return bt.Checkpoints[len(bt.Checkpoints)-1].Value
}

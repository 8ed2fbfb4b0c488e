package models

import (
	"github.com/shopspring/decimal"
)

// DashboardSummary aggregates a user's position for the dashboard
// landing view: total balance across active accounts plus this month's
// income and expense totals.
type DashboardSummary struct {
	UserID             string          `json:"user_id"`
	Month              string          `json:"month"` // "YYYY-MM"
	TotalBalance       decimal.Decimal `json:"total_balance"`
	MonthlyIncome      decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses    decimal.Decimal `json:"monthly_expenses"`
	MonthlyNet         decimal.Decimal `json:"monthly_net"`
	AccountCount       int             `json:"account_count"`
	CardCount          int             `json:"card_count"`
	RecentTransactions []Transaction   `json:"recent_transactions"`
	Budgets            []BudgetStatus  `json:"budgets,omitempty"`
	Goals              []Goal          `json:"goals,omitempty"`
}

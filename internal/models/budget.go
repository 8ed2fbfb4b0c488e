package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Budget caps spending for one category over a date range.
type Budget struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	CategoryID string          `json:"category_id"`
	Amount     decimal.Decimal `json:"amount"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
	ModifiedAt time.Time       `json:"modified_at"`
}

// BudgetStatus is a budget enriched with spend-to-date figures.
type BudgetStatus struct {
	Budget
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

// Validate checks that a budget has valid field values.
func (b *Budget) Validate() error {
	if strings.TrimSpace(b.UserID) == "" {
		return fmt.Errorf("budget user_id is required")
	}
	if strings.TrimSpace(b.CategoryID) == "" {
		return fmt.Errorf("budget category_id is required")
	}
	if !b.Amount.IsPositive() {
		return fmt.Errorf("budget amount must be positive")
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return fmt.Errorf("budget start and end dates are required")
	}
	if b.EndDate.Before(b.StartDate) {
		return fmt.Errorf("budget end date precedes start date")
	}
	return nil
}

// Covers reports whether the given date falls inside the budget period.
func (b *Budget) Covers(date time.Time) bool {
	return !date.Before(b.StartDate) && !date.After(b.EndDate)
}

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings target the user contributes toward over time.
type Goal struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	DueDate       time.Time       `json:"due_date,omitempty"`
	IsCompleted   bool            `json:"is_completed"`
	CreatedAt     time.Time       `json:"created_at"`
	ModifiedAt    time.Time       `json:"modified_at"`
}

// Validate checks that a goal has valid field values.
func (g *Goal) Validate() error {
	if strings.TrimSpace(g.UserID) == "" {
		return fmt.Errorf("goal user_id is required")
	}
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("goal name is required")
	}
	if len(g.Name) > 100 {
		return fmt.Errorf("goal name exceeds 100 characters")
	}
	if !g.TargetAmount.IsPositive() {
		return fmt.Errorf("goal target amount must be positive")
	}
	if g.CurrentAmount.IsNegative() {
		return fmt.Errorf("goal current amount cannot be negative")
	}
	return nil
}

// ProgressPct returns contribution progress as a percentage, capped at 100.
func (g *Goal) ProgressPct() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100))
	hundred := decimal.NewFromInt(100)
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

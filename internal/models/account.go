package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a bank account owned by a user. Balance is the
// current balance and moves with every income/expense transaction
// recorded against the account.
type Account struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Name       string          `json:"name"`
	BankName   string          `json:"bank_name,omitempty"`
	Balance    decimal.Decimal `json:"balance"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
	ModifiedAt time.Time       `json:"modified_at"`
}

// Validate checks that an account has valid field values.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("account name is required")
	}
	if len(a.Name) > 100 {
		return fmt.Errorf("account name exceeds 100 characters")
	}
	if strings.TrimSpace(a.UserID) == "" {
		return fmt.Errorf("account user_id is required")
	}
	return nil
}

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a transaction as money in or money out.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// ValidTransactionType reports whether t is a known transaction type.
func ValidTransactionType(t TransactionType) bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents an income or expense entry. Amount is always
// positive; the type determines the sign of its effect on a balance.
// Exactly one of AccountID and CardID is set.
type Transaction struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	AccountID       string          `json:"account_id,omitempty"`
	CardID          string          `json:"card_id,omitempty"`
	Type            TransactionType `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	CategoryID      string          `json:"category_id,omitempty"`
	Date            time.Time       `json:"date"`
	IsFuturePayment bool            `json:"is_future_payment"`
	IsPaid          bool            `json:"is_paid"`
	CreatedAt       time.Time       `json:"created_at"`
	ModifiedAt      time.Time       `json:"modified_at"`
}

// SignedAmount returns the amount with the sign implied by the
// transaction type: positive for income, negative for expense.
// Unknown types return an error rather than a silently wrong sign.
func (t *Transaction) SignedAmount() (decimal.Decimal, error) {
	switch t.Type {
	case TransactionTypeIncome:
		return t.Amount, nil
	case TransactionTypeExpense:
		return t.Amount.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown transaction type %q", t.Type)
	}
}

// Validate checks that a transaction has valid field values.
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return fmt.Errorf("transaction user_id is required")
	}
	if !ValidTransactionType(t.Type) {
		return fmt.Errorf("transaction type must be income or expense, got %q", t.Type)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("transaction amount must be positive")
	}
	if (t.AccountID == "") == (t.CardID == "") {
		return fmt.Errorf("transaction must reference exactly one of account or card")
	}
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("transaction description is required")
	}
	if len(t.Description) > 255 {
		return fmt.Errorf("transaction description exceeds 255 characters")
	}
	if t.Date.IsZero() {
		return fmt.Errorf("transaction date is required")
	}
	return nil
}

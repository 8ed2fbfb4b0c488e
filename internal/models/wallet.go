package models

import (
	"github.com/shopspring/decimal"
)

// WalletAccount pairs an account with its reconstructed balance
// timeline and most recent transactions for the wallet overview.
type WalletAccount struct {
	Account            Account          `json:"account"`
	Timeline           *BalanceTimeline `json:"timeline"`
	RecentTransactions []Transaction    `json:"recent_transactions"`
}

// WalletCard pairs a card with its spend and remaining limit.
type WalletCard struct {
	Card           Card            `json:"card"`
	Expenses       decimal.Decimal `json:"expenses"`
	AvailableLimit decimal.Decimal `json:"available_limit"`
}

// WalletOverview is the full wallet view for one user: every account
// with its timeline, every card with its available limit.
type WalletOverview struct {
	UserID       string          `json:"user_id"`
	Month        string          `json:"month"` // "YYYY-MM"
	TotalBalance decimal.Decimal `json:"total_balance"`
	Accounts     []WalletAccount `json:"accounts"`
	Cards        []WalletCard    `json:"cards"`
}

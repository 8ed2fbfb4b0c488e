// Package timeline reconstructs an account's balance history for the
// current month from its stored balance and the month's transactions.
package timeline

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arvyo/arvyo-server/internal/models"
)

// ErrInconsistentLedger indicates the month's transactions cannot be
// reconciled with the account balance: an unrecognized transaction
// type, or sums implying a negative start-of-month balance.
var ErrInconsistentLedger = errors.New("inconsistent ledger")

// Build reconstructs the balance timeline for one account over the
// calendar month containing asOf. The account balance is taken as
// ground truth for "now"; the start-of-month balance is recovered by
// subtracting the month's net change, then re-derived forward into one
// checkpoint per transaction.
//
// Build is read-only and performs no I/O. The caller supplies the
// account's transactions dated within the asOf month; their order is
// preserved for same-date entries when sorting ascending by date.
func Build(account models.Account, txs []models.Transaction, asOf time.Time) (*models.BalanceTimeline, error) {
	monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location())

	// Net change is order-independent: one pass over the unsorted input.
	netChange := decimal.Zero
	income := decimal.Zero
	expenses := decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case models.TransactionTypeIncome:
			income = income.Add(tx.Amount)
			netChange = netChange.Add(tx.Amount)
		case models.TransactionTypeExpense:
			expenses = expenses.Add(tx.Amount)
			netChange = netChange.Sub(tx.Amount)
		default:
			return nil, fmt.Errorf("%w: transaction %s has unknown type %q", ErrInconsistentLedger, tx.ID, tx.Type)
		}
	}

	openingBalance := account.Balance.Sub(netChange)
	if openingBalance.IsNegative() {
		return nil, fmt.Errorf("%w: account %s implies negative start-of-month balance %s", ErrInconsistentLedger, account.ID, openingBalance)
	}

	// Sort a copy ascending by date. The stable sort keeps same-date
	// transactions in the order the store returned them.
	ordered := make([]models.Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	checkpoints := make([]models.Checkpoint, 0, len(ordered)+1)
	checkpoints = append(checkpoints, models.Checkpoint{
		Label: monthStart.Format("02/01"),
		Value: openingBalance,
	})

	running := openingBalance
	for _, tx := range ordered {
		signed, err := tx.SignedAmount()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInconsistentLedger, err)
		}
		running = running.Add(signed)
		checkpoints = append(checkpoints, models.Checkpoint{
			Label: tx.Date.Format("02/01"),
			Value: running,
		})
	}

	return &models.BalanceTimeline{
		AccountID:       account.ID,
		Month:           monthStart.Format("2006-01"),
		OpeningBalance:  openingBalance,
		NetChange:       netChange,
		MonthlyIncome:   income,
		MonthlyExpenses: expenses,
		Checkpoints:     checkpoints,
	}, nil
}

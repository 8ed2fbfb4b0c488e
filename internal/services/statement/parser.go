package statement

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arvyo/arvyo-server/internal/models"
)

// Row is one parsed statement line.
type Row struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        models.TransactionType
}

// rowPattern matches statement lines of the form
// "DD/MM/YYYY description -123.45". Thousands separators in the
// amount are tolerated.
var rowPattern = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+(.+?)\s+([+-]?\d[\d,]*\.\d{2})$`)

// ParseStatement scans statement text for transaction rows. Negative
// amounts become expenses, positive amounts income. Unparsable lines
// are skipped.
func ParseStatement(text string) []Row {
	var rows []Row
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := rowPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		date, err := time.Parse("02/01/2006", m[1])
		if err != nil {
			continue
		}
		amount, err := decimal.NewFromString(strings.ReplaceAll(m[3], ",", ""))
		if err != nil || amount.IsZero() {
			continue
		}

		txType := models.TransactionTypeIncome
		if amount.IsNegative() {
			txType = models.TransactionTypeExpense
			amount = amount.Abs()
		}

		rows = append(rows, Row{
			Date:        date,
			Description: strings.TrimSpace(m[2]),
			Amount:      amount,
			Type:        txType,
		})
	}
	return rows
}

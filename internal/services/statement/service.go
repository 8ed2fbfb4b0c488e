// Package statement imports transactions from bank statement PDFs.
package statement

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/arvyo/arvyo-server/internal/common"
	"github.com/arvyo/arvyo-server/internal/interfaces"
	"github.com/arvyo/arvyo-server/internal/models"
)

// Compile-time interface check
var _ interfaces.StatementService = (*Service)(nil)

// Service implements StatementService
type Service struct {
	ledger interfaces.LedgerService
	logger *common.Logger
}

// NewService creates a new statement service
func NewService(ledger interfaces.LedgerService, logger *common.Logger) *Service {
	return &Service{
		ledger: ledger,
		logger: logger,
	}
}

// ImportStatement parses a statement PDF and records its rows as
// transactions against the account. Rows that fail to parse are
// skipped; a statement with no parsable rows is an error.
func (s *Service) ImportStatement(ctx context.Context, userID, accountID string, pdfData []byte) ([]*models.Transaction, error) {
	text, err := extractText(pdfData)
	if err != nil {
		return nil, err
	}

	rows := ParseStatement(text)
	if len(rows) == 0 {
		return nil, fmt.Errorf("no transactions found in statement")
	}

	created := make([]*models.Transaction, 0, len(rows))
	for _, row := range rows {
		tx := &models.Transaction{
			UserID:      userID,
			AccountID:   accountID,
			Type:        row.Type,
			Amount:      row.Amount,
			Description: row.Description,
			Date:        row.Date,
			IsPaid:      true,
		}
		saved, err := s.ledger.CreateTransaction(ctx, tx)
		if err != nil {
			return nil, fmt.Errorf("failed to record statement row '%s': %w", row.Description, err)
		}
		created = append(created, saved)
	}

	s.logger.Info().
		Str("account_id", accountID).
		Int("transactions", len(created)).
		Msg("Statement imported")
	return created, nil
}

// extractText extracts plain text from every page of the PDF.
func extractText(pdfData []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	totalPages := r.NumPage()
	for i := 1; i <= totalPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

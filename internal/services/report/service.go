// Package report renders balance timelines as chart images.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/arvyo/arvyo-server/internal/common"
	"github.com/arvyo/arvyo-server/internal/interfaces"
)

// chartSubdir is the charts-area subdirectory for balance charts.
const chartSubdir = "balance"

// Compile-time interface check
var _ interfaces.ReportService = (*Service)(nil)

// Service implements ReportService
type Service struct {
	storage interfaces.StorageManager
	wallet  interfaces.WalletService
	logger  *common.Logger
}

// NewService creates a new report service
func NewService(storage interfaces.StorageManager, wallet interfaces.WalletService, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		wallet:  wallet,
		logger:  logger,
	}
}

// RenderBalanceChart renders the account's timeline for the month
// containing asOf as a PNG, stores it in the charts area, and returns
// the image bytes.
func (s *Service) RenderBalanceChart(ctx context.Context, userID, accountID string, asOf time.Time) ([]byte, error) {
	bt, err := s.wallet.GetAccountTimeline(ctx, userID, accountID, asOf)
	if err != nil {
		return nil, err
	}

	png, err := RenderTimelineChart(bt)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s-%s.png", accountID, bt.Month)
	if err := s.storage.WriteRaw(chartSubdir, key, png); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to persist chart")
	}

	s.logger.Debug().
		Str("account_id", accountID).
		Str("month", bt.Month).
		Int("bytes", len(png)).
		Msg("Balance chart rendered")
	return png, nil
}

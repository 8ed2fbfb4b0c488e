package storage

import (
	"fmt"

	"github.com/arvyo/arvyo-server/internal/common"
	"github.com/arvyo/arvyo-server/internal/interfaces"
	"github.com/arvyo/arvyo-server/internal/storage/financedb"
	"github.com/arvyo/arvyo-server/internal/storage/internaldb"
)

// Manager implements interfaces.StorageManager using 3 storage areas.
type Manager struct {
	internal *internaldb.Store
	finance  *financedb.Store
	charts   *chartFS
	logger   *common.Logger
}

// NewManager creates a new StorageManager with the 3 storage areas.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	internalStore, err := internaldb.NewStore(logger, config.Storage.Internal.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create internal store: %w", err)
	}

	financeStore, err := financedb.NewStore(logger, config.Storage.Finance.Path)
	if err != nil {
		internalStore.Close()
		return nil, fmt.Errorf("failed to create finance store: %w", err)
	}

	charts, err := newChartFS(config.Storage.Charts.Path)
	if err != nil {
		internalStore.Close()
		financeStore.Close()
		return nil, fmt.Errorf("failed to create charts store: %w", err)
	}

	logger.Info().
		Str("internal", config.Storage.Internal.Path).
		Str("finance", config.Storage.Finance.Path).
		Str("charts", config.Storage.Charts.Path).
		Msg("Storage manager initialized (3 areas)")

	return &Manager{
		internal: internalStore,
		finance:  financeStore,
		charts:   charts,
		logger:   logger,
	}, nil
}

func (m *Manager) InternalStore() interfaces.InternalStore {
	return m.internal
}

func (m *Manager) FinanceStore() interfaces.FinanceStore {
	return m.finance
}

func (m *Manager) WriteRaw(subdir, key string, data []byte) error {
	return m.charts.WriteRaw(subdir, key, data)
}

func (m *Manager) ReadRaw(subdir, key string) ([]byte, error) {
	return m.charts.ReadRaw(subdir, key)
}

func (m *Manager) Close() error {
	var firstErr error
	if err := m.internal.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := m.finance.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)

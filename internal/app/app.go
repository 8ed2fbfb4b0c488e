// Package app wires configuration, storage, clients, and services into
// a single application core shared by cmd/arvyo-server and tests.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arvyo/arvyo-server/internal/clients/gemini"
	"github.com/arvyo/arvyo-server/internal/common"
	"github.com/arvyo/arvyo-server/internal/interfaces"
	"github.com/arvyo/arvyo-server/internal/services/dashboard"
	"github.com/arvyo/arvyo-server/internal/services/ledger"
	"github.com/arvyo/arvyo-server/internal/services/report"
	"github.com/arvyo/arvyo-server/internal/services/statement"
	"github.com/arvyo/arvyo-server/internal/services/user"
	"github.com/arvyo/arvyo-server/internal/services/wallet"
	"github.com/arvyo/arvyo-server/internal/storage"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	GeminiClient     interfaces.GeminiClient
	UserService      interfaces.UserService
	LedgerService    interfaces.LedgerService
	WalletService    interfaces.WalletService
	DashboardService interfaces.DashboardService
	ReportService    interfaces.ReportService
	StatementService interfaces.StatementService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and all services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Load configuration - check provided path, ARVYO_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("ARVYO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "arvyo.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/arvyo.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage paths to the binary directory
	for _, area := range []*common.AreaConfig{
		&config.Storage.Internal,
		&config.Storage.Finance,
		&config.Storage.Charts,
	} {
		if area.Path != "" && !filepath.IsAbs(area.Path) {
			area.Path = filepath.Join(binDir, area.Path)
		}
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	app := &App{
		Config:      config,
		Logger:      logger,
		Storage:     storageManager,
		StartupTime: time.Now(),
	}

	// Gemini is optional. Without a key, category suggestions are unavailable.
	if config.Clients.Gemini.APIKey != "" {
		client, err := gemini.NewClient(context.Background(), config.Clients.Gemini.APIKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Gemini client unavailable - category suggestions disabled")
		} else {
			app.GeminiClient = client
		}
	} else {
		logger.Info().Msg("Gemini API key not configured - category suggestions disabled")
	}

	app.UserService = user.NewService(storageManager, logger)
	app.LedgerService = ledger.NewService(storageManager, logger)
	app.WalletService = wallet.NewService(storageManager, logger)
	app.DashboardService = dashboard.NewService(storageManager, app.LedgerService, logger)
	app.ReportService = report.NewService(storageManager, app.WalletService, logger)
	app.StatementService = statement.NewService(app.LedgerService, logger)

	logger.Info().
		Str("version", common.GetFullVersion()).
		Dur("startup", time.Since(startupStart)).
		Msg("Application initialized")

	return app, nil
}

// Close releases storage and client resources.
func (a *App) Close() error {
	if a.GeminiClient != nil {
		if err := a.GeminiClient.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close Gemini client")
		}
	}
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}

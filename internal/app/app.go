package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/andolan/internal/common"
	"github.com/bobmcallan/andolan/internal/interfaces"
	"github.com/bobmcallan/andolan/internal/services/member"
	"github.com/bobmcallan/andolan/internal/services/milestone"
	"github.com/bobmcallan/andolan/internal/storage"
)

// App holds the initialized storage and services shared by the server
// binary and its tests.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	Storage         interfaces.StorageManager
	TimelineService interfaces.TimelineService
	MemberService   interfaces.MemberService
	StartupTime     time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ResolveConfigPath picks the config file: the given path, ANDOLAN_CONFIG,
// andolan.toml next to the binary, then config/andolan.toml.
func ResolveConfigPath(configPath string) string {
	if configPath == "" {
		configPath = os.Getenv("ANDOLAN_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "andolan.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/andolan.toml" // fallback for development
		}
	}
	return configPath
}

// NewApp loads configuration and initializes storage and services.
// configPath may be empty, in which case ResolveConfigPath decides.
func NewApp(configPath string) (*App, error) {
	config, err := common.LoadConfig(ResolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)
	return NewAppWithConfig(context.Background(), config, logger)
}

// NewAppWithConfig initializes the App from an already loaded config.
func NewAppWithConfig(ctx context.Context, config *common.Config, logger *common.Logger) (*App, error) {
	startupStart := time.Now()

	storageManager, err := storage.NewStorageManager(ctx, logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	a := &App{
		Config:          config,
		Logger:          logger,
		Storage:         storageManager,
		TimelineService: milestone.NewService(storageManager.TimelineStore(), logger),
		MemberService:   member.NewService(storageManager.MemberStore(), logger),
		StartupTime:     startupStart,
	}

	if config.Storage.SeedFile != "" {
		imported, skipped, err := ImportTimelineFromFile(ctx, storageManager.TimelineStore(), logger, config.Storage.SeedFile)
		if err != nil {
			logger.Warn().Err(err).Str("file", config.Storage.SeedFile).Msg("Timeline seed import failed")
		} else {
			logger.Info().Int("imported", imported).Int("skipped", skipped).Msg("Timeline seed imported")
		}
	}

	logger.Info().
		Str("backend", storageManager.Backend()).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
		a.Storage = nil
	}
}

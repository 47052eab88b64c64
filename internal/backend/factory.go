package backend

import (
	"fmt"
	"log/slog"

	"noirbudget/internal/config"
	"noirbudget/internal/storage"
)

// New builds the store selected by cfg.
func New(cfg Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Type {
	case JSONBackend:
		if cfg.DataFile == "" {
			return nil, fmt.Errorf("data file path is required for the json backend")
		}
		logger.Info("Initialized JSON backend", "path", cfg.DataFile)
		return storage.NewJSONStore(cfg.DataFile), nil
	case SQLiteBackend:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return store, nil
	case MemoryBackend:
		logger.Info("Initialized memory backend")
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}
}

// FromAppConfig converts the application config to a backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	t := Type(appConfig.DataBackend)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}
	return Config{
		Type:         t,
		DataFile:     appConfig.DataFile,
		SQLiteDBPath: appConfig.SQLiteDBPath,
	}, nil
}

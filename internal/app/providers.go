package app

import (
	"errors"
	"time"

	"github.com/avast/retry-go/v5"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"mcpsettings/internal/config"
	"mcpsettings/internal/domain"
	"mcpsettings/internal/infra/secrets"
	"mcpsettings/internal/infra/serverstore"
	"mcpsettings/internal/infra/settings"
)

// Both stores take an exclusive file lock, so a second process (the CLI next
// to the desktop app) waits a few lock timeouts before giving up.
const (
	storeOpenAttempts = 3
	storeOpenDelay    = 250 * time.Millisecond
)

func openWithRetry[T any](open func() (T, error)) (T, error) {
	var store T
	err := retry.New(
		retry.Attempts(storeOpenAttempts),
		retry.Delay(storeOpenDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, bolt.ErrTimeout)
		}),
	).Do(func() error {
		var err error
		store, err = open()
		return err
	})
	return store, err
}

func NewServerStore(cfg config.Config, logger *zap.Logger) (*serverstore.Store, func(), error) {
	store, err := openWithRetry(func() (*serverstore.Store, error) {
		return serverstore.OpenStore(cfg.ServersPath())
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("servers store opened", zap.String("path", store.Path()))
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("close servers store", zap.Error(err))
		}
	}
	return store, cleanup, nil
}

func NewSettingsStore(cfg config.Config, logger *zap.Logger) (*settings.Store, func(), error) {
	store, err := openWithRetry(func() (*settings.Store, error) {
		return settings.OpenStore(cfg.SettingsPath())
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("settings store opened", zap.String("path", store.Path()))
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("close settings store", zap.Error(err))
		}
	}
	return store, cleanup, nil
}

func NewSecretStore(cfg config.Config, logger *zap.Logger) (secrets.Store, error) {
	store, err := secrets.New(cfg.Secrets.Backend)
	if err != nil {
		return nil, err
	}
	if secrets.Inline(store) {
		logger.Warn("secret backend disabled; secret values are stored in the servers file")
	}
	return store, nil
}

func NewServerRepository(store *serverstore.Store) domain.ServerRepository {
	return store
}

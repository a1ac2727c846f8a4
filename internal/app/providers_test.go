package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"mcpsettings/internal/infra/serverstore"
)

func TestOpenWithRetryRetriesLockTimeouts(t *testing.T) {
	calls := 0
	got, err := openWithRetry(func() (int, error) {
		calls++
		if calls < storeOpenAttempts {
			return 0, fmt.Errorf("open servers db: %w", bolt.ErrTimeout)
		}
		return 42, nil
	})
	require.NoError(t, err)
	require.Equal(t, 42, got)
	require.Equal(t, storeOpenAttempts, calls)
}

func TestOpenWithRetryStopsOnOtherErrors(t *testing.T) {
	calls := 0
	boom := errors.New("unsupported servers document version 99")
	_, err := openWithRetry(func() (int, error) {
		calls++
		return 0, boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, calls)
}

func TestNewServerStoreFailsWhileLocked(t *testing.T) {
	cfg := testConfig(t)
	held, err := serverstore.OpenStore(cfg.ServersPath())
	require.NoError(t, err)
	defer func() {
		require.NoError(t, held.Close())
	}()

	_, _, err = NewServerStore(cfg, zap.NewNop())
	require.ErrorIs(t, err, bolt.ErrTimeout)
}

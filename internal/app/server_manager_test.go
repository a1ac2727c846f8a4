package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
	"go.uber.org/zap"

	"mcpsettings/internal/domain"
	"mcpsettings/internal/infra/secrets"
	"mcpsettings/internal/infra/serverstore"
	"mcpsettings/internal/infra/transfer"
)

func newTestManager(t *testing.T, secretStore secrets.Store) (*ServerManager, *serverstore.Store) {
	t.Helper()
	store, err := serverstore.OpenStore(filepath.Join(t.TempDir(), serverstore.DefaultFileName))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return NewServerManager(store, secretStore, zap.NewNop()), store
}

func githubServer(id string) domain.ServerConfig {
	return domain.ServerConfig{
		ID:      id,
		Name:    "GitHub",
		Type:    domain.ServerTypeLocal,
		Command: []string{"npx", "-y", "@modelcontextprotocol/server-github"},
		Enabled: true,
		Environment: []domain.EnvVar{
			{Key: "GITHUB_PERSONAL_ACCESS_TOKEN", Value: "ghp_secret", IsSecret: true},
			{Key: "LOG_LEVEL", Value: "debug"},
		},
	}
}

func TestManagerAddMovesSecretsToKeychain(t *testing.T) {
	keyring.MockInit()
	manager, store := newTestManager(t, secrets.NewKeychainStore())
	ctx := context.Background()

	added, err := manager.Add(ctx, githubServer("s1"))
	require.NoError(t, err)
	require.Equal(t, "", added.Environment[0].Value)

	persisted, ok, err := store.Get("s1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, domain.EnvVar{Key: "GITHUB_PERSONAL_ACCESS_TOKEN", IsSecret: true}, persisted.Environment[0])
	require.Equal(t, "debug", persisted.Environment[1].Value)

	value, err := keyring.Get("mcpsettings", secrets.ServerEnvKey("s1", "GITHUB_PERSONAL_ACCESS_TOKEN"))
	require.NoError(t, err)
	require.Equal(t, "ghp_secret", value)

	env, err := manager.ResolveEnvironment(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "ghp_secret", env[0].Value)
	require.Equal(t, "debug", env[1].Value)
}

func TestManagerAddAssignsID(t *testing.T) {
	manager, _ := newTestManager(t, secrets.NopStore{})

	added, err := manager.Add(context.Background(), githubServer(""))
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^mcp_\d+_[0-9a-f]{5}$`), added.ID)
}

func TestManagerAddDuplicateKeepsExistingSecret(t *testing.T) {
	keyring.MockInit()
	manager, _ := newTestManager(t, secrets.NewKeychainStore())
	ctx := context.Background()

	_, err := manager.Add(ctx, githubServer("s1"))
	require.NoError(t, err)

	second := githubServer("s1")
	second.Environment[0].Value = "ghp_other"
	_, err = manager.Add(ctx, second)
	require.ErrorIs(t, err, domain.ErrDuplicateID)

	env, err := manager.ResolveEnvironment(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "ghp_secret", env[0].Value)
}

func TestManagerAddRollsBackOnSecretFailure(t *testing.T) {
	keyring.MockInitWithError(errors.New("dbus: connection refused"))
	t.Cleanup(keyring.MockInit)
	manager, store := newTestManager(t, secrets.NewKeychainStore())

	_, err := manager.Add(context.Background(), githubServer("s1"))
	require.ErrorIs(t, err, secrets.ErrBackendUnavailable)

	servers, err := store.List()
	require.NoError(t, err)
	require.Empty(t, servers)
}

func TestManagerUpdateSecretHandling(t *testing.T) {
	keyring.MockInit()
	manager, _ := newTestManager(t, secrets.NewKeychainStore())
	ctx := context.Background()

	cfg := githubServer("s1")
	cfg.Environment = append(cfg.Environment, domain.EnvVar{Key: "OLD_SECRET", Value: "old", IsSecret: true})
	_, err := manager.Add(ctx, cfg)
	require.NoError(t, err)

	env := []domain.EnvVar{
		{Key: "GITHUB_PERSONAL_ACCESS_TOKEN", IsSecret: true},
		{Key: "NEW_SECRET", Value: "new", IsSecret: true},
	}
	require.NoError(t, manager.Update(ctx, "s1", domain.ServerPatch{Environment: &env}))

	resolved, err := manager.ResolveEnvironment(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, []domain.EnvVar{
		{Key: "GITHUB_PERSONAL_ACCESS_TOKEN", Value: "ghp_secret", IsSecret: true},
		{Key: "NEW_SECRET", Value: "new", IsSecret: true},
	}, resolved)

	_, err = keyring.Get("mcpsettings", secrets.ServerEnvKey("s1", "OLD_SECRET"))
	require.ErrorIs(t, err, keyring.ErrNotFound)
}

func TestManagerUpdateMissing(t *testing.T) {
	keyring.MockInit()
	manager, _ := newTestManager(t, secrets.NewKeychainStore())
	ctx := context.Background()

	env := []domain.EnvVar{{Key: "A", Value: "1"}}
	err := manager.Update(ctx, "missing", domain.ServerPatch{Environment: &env})
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = manager.Toggle(ctx, "missing", false)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = manager.ResolveEnvironment(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestManagerRemoveDeletesSecrets(t *testing.T) {
	keyring.MockInit()
	manager, store := newTestManager(t, secrets.NewKeychainStore())
	ctx := context.Background()

	_, err := manager.Add(ctx, githubServer("s1"))
	require.NoError(t, err)
	require.NoError(t, manager.Remove(ctx, "s1"))
	require.NoError(t, manager.Remove(ctx, "s1"))

	servers, err := store.List()
	require.NoError(t, err)
	require.Empty(t, servers)
	_, err = keyring.Get("mcpsettings", secrets.ServerEnvKey("s1", "GITHUB_PERSONAL_ACCESS_TOKEN"))
	require.ErrorIs(t, err, keyring.ErrNotFound)
}

func TestManagerInlineSecretsStayInDocument(t *testing.T) {
	manager, store := newTestManager(t, secrets.NopStore{})
	ctx := context.Background()

	_, err := manager.Add(ctx, githubServer("s1"))
	require.NoError(t, err)

	persisted, _, err := store.Get("s1")
	require.NoError(t, err)
	require.Equal(t, "ghp_secret", persisted.Environment[0].Value)

	env, err := manager.ResolveEnvironment(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, persisted.Environment, env)
}

func TestManagerToggleAndClear(t *testing.T) {
	manager, _ := newTestManager(t, secrets.NopStore{})
	ctx := context.Background()

	_, err := manager.Add(ctx, githubServer("a"))
	require.NoError(t, err)
	_, err = manager.Add(ctx, githubServer("b"))
	require.NoError(t, err)
	require.NoError(t, manager.Toggle(ctx, "a", false))

	enabled, err := manager.ListEnabled()
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	require.Equal(t, "b", enabled[0].ID)

	require.NoError(t, manager.Clear(ctx))
	servers, err := manager.List()
	require.NoError(t, err)
	require.Empty(t, servers)
}

func TestManagerImport(t *testing.T) {
	manager, _ := newTestManager(t, secrets.NopStore{})
	ctx := context.Background()

	_, err := manager.Add(ctx, githubServer("s1"))
	require.NoError(t, err)

	result := transfer.Result{
		Source: transfer.SourceClaude,
		Servers: []domain.ServerConfig{
			{Name: "GitHub", Type: domain.ServerTypeLocal, Command: []string{"node"}, Enabled: true},
			{Name: "Files", Type: domain.ServerTypeLocal, Command: []string{"npx", "fs"}, Enabled: true},
			{Name: "Broken", Type: domain.ServerTypeRemote, URL: "not a url", Enabled: true},
		},
		Issues: []transfer.Issue{{Name: "odd", Kind: transfer.IssueInvalid, Message: "entry must be an object"}},
	}
	report, err := manager.Import(ctx, result)
	require.NoError(t, err)
	require.Len(t, report.Added, 1)
	require.Equal(t, "Files", report.Added[0].Name)
	require.NotEmpty(t, report.Added[0].ID)

	kinds := make(map[string]string, len(report.Issues))
	for _, issue := range report.Issues {
		kinds[issue.Name] = issue.Kind
	}
	require.Equal(t, map[string]string{
		"odd":    transfer.IssueInvalid,
		"GitHub": transfer.IssueDuplicate,
		"Broken": transfer.IssueInvalid,
	}, kinds)

	servers, err := manager.List()
	require.NoError(t, err)
	require.Len(t, servers, 2)
}

func TestManagerInlineBlankSecretKeepsValue(t *testing.T) {
	manager, store := newTestManager(t, secrets.NopStore{})
	ctx := context.Background()

	_, err := manager.Add(ctx, githubServer("s1"))
	require.NoError(t, err)

	env := []domain.EnvVar{
		{Key: "GITHUB_PERSONAL_ACCESS_TOKEN", IsSecret: true},
		{Key: "LOG_LEVEL", Value: "info"},
	}
	require.NoError(t, manager.Update(ctx, "s1", domain.ServerPatch{Environment: &env}))

	persisted, _, err := store.Get("s1")
	require.NoError(t, err)
	require.Equal(t, "ghp_secret", persisted.Environment[0].Value)
	require.Equal(t, "info", persisted.Environment[1].Value)
}

func TestManagerUpdateKeepsRecordOnSecretFailure(t *testing.T) {
	keyring.MockInit()
	manager, store := newTestManager(t, secrets.NewKeychainStore())
	ctx := context.Background()
	_, err := manager.Add(ctx, githubServer("s1"))
	require.NoError(t, err)
	before, _, err := store.Get("s1")
	require.NoError(t, err)

	keyring.MockInitWithError(errors.New("dbus: connection refused"))
	t.Cleanup(keyring.MockInit)

	name := "Renamed"
	env := []domain.EnvVar{
		{Key: "GITHUB_PERSONAL_ACCESS_TOKEN", Value: "ghp_rotated", IsSecret: true},
		{Key: "LOG_LEVEL", Value: "info"},
	}
	err = manager.Update(ctx, "s1", domain.ServerPatch{Name: &name, Environment: &env})
	require.ErrorIs(t, err, secrets.ErrBackendUnavailable)

	after, ok, err := store.Get("s1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, before, after)
}

func TestManagerUpdateBlankSecretSkipsKeychain(t *testing.T) {
	keyring.MockInit()
	manager, store := newTestManager(t, secrets.NewKeychainStore())
	ctx := context.Background()
	_, err := manager.Add(ctx, githubServer("s1"))
	require.NoError(t, err)

	keyring.MockInitWithError(errors.New("dbus: connection refused"))
	t.Cleanup(keyring.MockInit)

	env := []domain.EnvVar{
		{Key: "GITHUB_PERSONAL_ACCESS_TOKEN", IsSecret: true},
		{Key: "LOG_LEVEL", Value: "info"},
	}
	require.NoError(t, manager.Update(ctx, "s1", domain.ServerPatch{Environment: &env}))

	persisted, _, err := store.Get("s1")
	require.NoError(t, err)
	require.Equal(t, env, persisted.Environment)
}

func TestManagerUpdateRestoresSecretsWhenRecordRejected(t *testing.T) {
	keyring.MockInit()
	manager, store := newTestManager(t, secrets.NewKeychainStore())
	ctx := context.Background()
	_, err := manager.Add(ctx, githubServer("s1"))
	require.NoError(t, err)

	remote := domain.ServerTypeRemote
	env := []domain.EnvVar{
		{Key: "GITHUB_PERSONAL_ACCESS_TOKEN", Value: "ghp_rotated", IsSecret: true},
		{Key: "NEW_SECRET", Value: "new", IsSecret: true},
	}
	err = manager.Update(ctx, "s1", domain.ServerPatch{Type: &remote, Environment: &env})
	require.ErrorIs(t, err, domain.ErrInvalidConfig)

	persisted, _, err := store.Get("s1")
	require.NoError(t, err)
	require.Equal(t, domain.ServerTypeLocal, persisted.Type)

	resolved, err := manager.ResolveEnvironment(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "ghp_secret", resolved[0].Value)

	_, err = keyring.Get("mcpsettings", secrets.ServerEnvKey("s1", "NEW_SECRET"))
	require.ErrorIs(t, err, keyring.ErrNotFound)
}

func TestManagerMissingIDLeavesStoreUnchanged(t *testing.T) {
	keyring.MockInit()
	manager, store := newTestManager(t, secrets.NewKeychainStore())
	ctx := context.Background()
	_, err := manager.Add(ctx, githubServer("s1"))
	require.NoError(t, err)
	before, err := store.List()
	require.NoError(t, err)

	name := "Ghost"
	require.ErrorIs(t, manager.Update(ctx, "missing", domain.ServerPatch{Name: &name}), domain.ErrNotFound)
	require.ErrorIs(t, manager.Toggle(ctx, "missing", false), domain.ErrNotFound)
	require.NoError(t, manager.Remove(ctx, "missing"))

	after, err := store.List()
	require.NoError(t, err)
	require.Equal(t, before, after)

	env, err := manager.ResolveEnvironment(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "ghp_secret", env[0].Value)
}

func TestManagerRemoveWithKeychainDown(t *testing.T) {
	keyring.MockInit()
	manager, store := newTestManager(t, secrets.NewKeychainStore())
	ctx := context.Background()
	_, err := manager.Add(ctx, githubServer("s1"))
	require.NoError(t, err)

	keyring.MockInitWithError(errors.New("dbus: connection refused"))
	t.Cleanup(keyring.MockInit)

	require.NoError(t, manager.Remove(ctx, "s1"))
	servers, err := store.List()
	require.NoError(t, err)
	require.Empty(t, servers)
}

func TestManagerConcurrentUpdatesKeepSecretAndRecordInStep(t *testing.T) {
	keyring.MockInit()
	manager, store := newTestManager(t, secrets.NewKeychainStore())
	ctx := context.Background()
	_, err := manager.Add(ctx, githubServer("s1"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("GitHub %d", i)
			env := []domain.EnvVar{{Key: "TOKEN", Value: fmt.Sprintf("ghp_%d", i), IsSecret: true}}
			assert.NoError(t, manager.Update(ctx, "s1", domain.ServerPatch{Name: &name, Environment: &env}))
		}(i)
	}
	wg.Wait()

	persisted, _, err := store.Get("s1")
	require.NoError(t, err)
	env, err := manager.ResolveEnvironment(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "ghp_"+strings.TrimPrefix(persisted.Name, "GitHub "), env[0].Value)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"mcpsettings/internal/domain"
	"mcpsettings/internal/infra/secrets"
	"mcpsettings/internal/infra/telemetry"
	"mcpsettings/internal/infra/transfer"
)

// ServerManager applies server mutations and keeps secret environment values
// in the secret store. Records returned by the manager carry blank values for
// secret entries unless the secret store keeps them inline. Mutations are
// serialized so a record and its secrets change together.
type ServerManager struct {
	mu      sync.Mutex
	store   domain.ServerRepository
	secrets secrets.Store
	logger  *zap.Logger
	now     func() time.Time
}

// ImportReport lists what an import added and what it skipped.
type ImportReport struct {
	Added  []domain.ServerConfig
	Issues []transfer.Issue
}

func NewServerManager(store domain.ServerRepository, secretStore secrets.Store, logger *zap.Logger) *ServerManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if secretStore == nil {
		secretStore = secrets.NopStore{}
	}
	return &ServerManager{
		store:   store,
		secrets: secretStore,
		logger:  logger.Named("servers"),
		now:     time.Now,
	}
}

func (m *ServerManager) List() ([]domain.ServerConfig, error) {
	return m.store.List()
}

func (m *ServerManager) Get(id string) (domain.ServerConfig, bool, error) {
	return m.store.Get(id)
}

func (m *ServerManager) ListEnabled() ([]domain.ServerConfig, error) {
	return m.store.ListEnabled()
}

// NewServerID returns an id of the form mcp_<unix millis>_<5 random chars>.
func (m *ServerManager) NewServerID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
	return fmt.Sprintf("mcp_%d_%s", m.now().UnixMilli(), suffix)
}

// Add persists cfg and returns the stored record. A blank id is replaced with
// a generated one.
func (m *ServerManager) Add(ctx context.Context, cfg domain.ServerConfig) (domain.ServerConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.add(ctx, cfg)
}

func (m *ServerManager) add(ctx context.Context, cfg domain.ServerConfig) (domain.ServerConfig, error) {
	cfg = cfg.Clone()
	if strings.TrimSpace(cfg.ID) == "" {
		cfg.ID = m.NewServerID()
	}
	stripped, pending := m.splitSecrets(cfg.Environment)
	cfg.Environment = stripped
	if err := m.store.Add(cfg); err != nil {
		return domain.ServerConfig{}, err
	}
	if err := m.writeSecrets(ctx, cfg.ID, pending); err != nil {
		if removeErr := m.store.Remove(cfg.ID); removeErr != nil {
			m.logger.Error("rollback after secret failure", telemetry.ServerIDField(cfg.ID), zap.Error(removeErr))
		}
		m.deleteSecrets(ctx, cfg.ID, lo.Keys(pending))
		return domain.ServerConfig{}, err
	}
	m.logger.Info("server added",
		telemetry.ServerIDField(cfg.ID),
		telemetry.OpField(telemetry.OpAdd),
		zap.String("type", string(cfg.Type)),
	)
	return cfg, nil
}

// Update merges patch onto the server. When the patch replaces the
// environment, non-empty secret values are written to the secret store, blank
// secret values keep the stored secret, and secrets for keys that are no
// longer secret entries are deleted. Secrets are written before the record;
// if either step fails the previous secret values are restored and the stored
// record is left as it was.
func (m *ServerManager) Update(ctx context.Context, id string, patch domain.ServerPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var (
		pending map[string]string
		dropped []string
	)
	if patch.Environment != nil {
		current, ok, err := m.store.Get(id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %q", domain.ErrNotFound, id)
		}
		env := *patch.Environment
		if secrets.Inline(m.secrets) {
			env = keepInlineSecrets(current.Environment, env)
		}
		var stripped []domain.EnvVar
		stripped, pending = m.splitSecrets(env)
		patch.Environment = &stripped
		dropped = droppedSecretKeys(current.Environment, stripped)
	}
	previous, err := m.snapshotSecrets(ctx, id, lo.Keys(pending))
	if err != nil {
		return err
	}
	if err := m.writeSecrets(ctx, id, pending); err != nil {
		m.restoreSecrets(ctx, id, previous)
		return err
	}
	if err := m.store.Update(id, patch); err != nil {
		m.restoreSecrets(ctx, id, previous)
		return err
	}
	m.deleteSecrets(ctx, id, dropped)
	m.logger.Info("server updated", telemetry.ServerIDField(id), telemetry.OpField(telemetry.OpUpdate))
	return nil
}

// Toggle sets the enabled flag.
func (m *ServerManager) Toggle(_ context.Context, id string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Toggle(id, enabled); err != nil {
		return err
	}
	m.logger.Info("server toggled",
		telemetry.ServerIDField(id),
		telemetry.OpField(telemetry.OpToggle),
		zap.Bool("enabled", enabled),
	)
	return nil
}

// Remove deletes the server and then its secrets. Removing a missing id
// succeeds.
func (m *ServerManager) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok, err := m.store.Get(id)
	if err != nil {
		return err
	}
	if err := m.store.Remove(id); err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if current.HasSecrets() {
		m.deleteSecrets(ctx, id, secretKeys(current.Environment))
	}
	m.logger.Info("server removed", telemetry.ServerIDField(id), telemetry.OpField(telemetry.OpRemove))
	return nil
}

// Clear removes every server and its secrets.
func (m *ServerManager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	servers, err := m.store.List()
	if err != nil {
		return err
	}
	if err := m.store.Clear(); err != nil {
		return err
	}
	for _, server := range lo.Filter(servers, func(item domain.ServerConfig, _ int) bool { return item.HasSecrets() }) {
		m.deleteSecrets(ctx, server.ID, secretKeys(server.Environment))
	}
	m.logger.Info("servers cleared", telemetry.OpField(telemetry.OpClear), zap.Int(telemetry.FieldCount, len(servers)))
	return nil
}

// ResolveEnvironment returns the environment of a server with secret values
// read back from the secret store. A secret with no stored value stays blank.
func (m *ServerManager) ResolveEnvironment(ctx context.Context, id string) ([]domain.EnvVar, error) {
	cfg, ok, err := m.store.Get(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrNotFound, id)
	}
	env := append([]domain.EnvVar(nil), cfg.Environment...)
	if secrets.Inline(m.secrets) {
		return env, nil
	}
	for i, entry := range env {
		if !entry.IsSecret || entry.Value != "" {
			continue
		}
		value, err := m.secrets.Get(ctx, secrets.ServerEnvKey(id, entry.Key))
		if errors.Is(err, secrets.ErrSecretNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		env[i].Value = value
	}
	return env, nil
}

// Import adds the servers of a transfer result under fresh ids. Servers whose
// name is already configured are skipped and reported as duplicates; servers
// that fail validation are reported as invalid.
func (m *ServerManager) Import(ctx context.Context, result transfer.Result) (ImportReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := m.now()
	existing, err := m.store.List()
	if err != nil {
		return ImportReport{}, err
	}
	names := lo.SliceToMap(existing, func(item domain.ServerConfig) (string, struct{}) {
		return item.Name, struct{}{}
	})
	report := ImportReport{Issues: append([]transfer.Issue(nil), result.Issues...)}
	for _, server := range result.Servers {
		if _, exists := names[server.Name]; exists {
			report.Issues = append(report.Issues, transfer.Issue{
				Name:    server.Name,
				Kind:    transfer.IssueDuplicate,
				Message: "a server with this name already exists",
			})
			continue
		}
		server.ID = ""
		added, err := m.add(ctx, server)
		if errors.Is(err, domain.ErrInvalidConfig) {
			report.Issues = append(report.Issues, transfer.Issue{
				Name:    server.Name,
				Kind:    transfer.IssueInvalid,
				Message: err.Error(),
			})
			continue
		}
		if err != nil {
			return report, err
		}
		names[added.Name] = struct{}{}
		report.Added = append(report.Added, added)
	}
	m.logger.Info("servers imported",
		telemetry.OpField(telemetry.OpImport),
		zap.String(telemetry.FieldSource, string(result.Source)),
		zap.Int(telemetry.FieldCount, len(report.Added)),
		telemetry.DurationField(m.now().Sub(start)),
	)
	return report, nil
}

// splitSecrets blanks non-empty secret values and returns them by env key.
// With an inline secret store the environment is returned unchanged.
func (m *ServerManager) splitSecrets(env []domain.EnvVar) ([]domain.EnvVar, map[string]string) {
	if env == nil {
		return nil, nil
	}
	out := append([]domain.EnvVar(nil), env...)
	if secrets.Inline(m.secrets) {
		return out, nil
	}
	pending := make(map[string]string)
	for i, entry := range out {
		if !entry.IsSecret || entry.Value == "" {
			continue
		}
		pending[entry.Key] = entry.Value
		out[i].Value = ""
	}
	return out, pending
}

func (m *ServerManager) writeSecrets(ctx context.Context, id string, pending map[string]string) error {
	for key, value := range pending {
		if err := m.secrets.Set(ctx, secrets.ServerEnvKey(id, key), value); err != nil {
			return fmt.Errorf("store secret %s: %w", key, err)
		}
	}
	return nil
}

// snapshotSecrets reads the stored values of keys. A key with no stored value
// maps to nil.
func (m *ServerManager) snapshotSecrets(ctx context.Context, id string, keys []string) (map[string]*string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	out := make(map[string]*string, len(keys))
	for _, key := range keys {
		value, err := m.secrets.Get(ctx, secrets.ServerEnvKey(id, key))
		if errors.Is(err, secrets.ErrSecretNotFound) {
			out[key] = nil
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read secret %s: %w", key, err)
		}
		out[key] = &value
	}
	return out, nil
}

// restoreSecrets puts back the values captured by snapshotSecrets.
func (m *ServerManager) restoreSecrets(ctx context.Context, id string, previous map[string]*string) {
	for key, value := range previous {
		var err error
		if value == nil {
			err = m.secrets.Delete(ctx, secrets.ServerEnvKey(id, key))
		} else {
			err = m.secrets.Set(ctx, secrets.ServerEnvKey(id, key), *value)
		}
		if err != nil {
			m.logger.Error("restore secret failed",
				telemetry.ServerIDField(id),
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
}

func (m *ServerManager) deleteSecrets(ctx context.Context, id string, keys []string) {
	if secrets.Inline(m.secrets) {
		return
	}
	for _, key := range keys {
		if err := m.secrets.Delete(ctx, secrets.ServerEnvKey(id, key)); err != nil {
			m.logger.Warn("delete secret failed",
				telemetry.ServerIDField(id),
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
}

// keepInlineSecrets fills blank secret values from the stored environment.
func keepInlineSecrets(before, after []domain.EnvVar) []domain.EnvVar {
	stored := lo.SliceToMap(lo.Filter(before, func(entry domain.EnvVar, _ int) bool {
		return entry.IsSecret
	}), func(entry domain.EnvVar) (string, string) {
		return entry.Key, entry.Value
	})
	out := append([]domain.EnvVar(nil), after...)
	for i, entry := range out {
		if entry.IsSecret && entry.Value == "" {
			out[i].Value = stored[entry.Key]
		}
	}
	return out
}

func secretKeys(env []domain.EnvVar) []string {
	return lo.FilterMap(env, func(entry domain.EnvVar, _ int) (string, bool) {
		return entry.Key, entry.IsSecret
	})
}

func droppedSecretKeys(before, after []domain.EnvVar) []string {
	kept := lo.SliceToMap(secretKeys(after), func(key string) (string, struct{}) {
		return key, struct{}{}
	})
	return lo.Filter(secretKeys(before), func(key string, _ int) bool {
		_, ok := kept[key]
		return !ok
	})
}

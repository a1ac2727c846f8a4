package serverstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	bolt "go.etcd.io/bbolt"

	"mcpsettings/internal/domain"
)

// DefaultFileName is the database file name used inside the data directory.
const DefaultFileName = "mcp-servers.db"

var ErrStoreClosed = errors.New("server store is closed")

// Store persists the MCP server collection as a single versioned document.
// Every read decodes the stored document and every mutation rewrites it inside
// one read-write transaction, so the existence checks in Add and Update are
// atomic with the write that follows them.
type Store struct {
	mu     sync.RWMutex
	db     *bolt.DB
	path   string
	closed bool
}

func OpenStore(path string) (*Store, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("servers store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("ensure servers store dir: %w", err)
	}
	options := &bolt.Options{Timeout: time.Second}
	base, err := bolt.Open(trimmed, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("open servers db: %w", err)
	}
	if err := ensureSchema(base); err != nil {
		_ = base.Close()
		return nil, err
	}
	return &Store{db: base, path: trimmed}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// List returns every stored server in insertion order.
func (s *Store) List() ([]domain.ServerConfig, error) {
	var doc domain.ServersDocument
	err := s.view(func(tx *bolt.Tx) error {
		var err error
		doc, err = readDocument(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc.Servers, nil
}

// Get returns the first server with the given id. A missing id is reported
// through the boolean, never as an error.
func (s *Store) Get(id string) (domain.ServerConfig, bool, error) {
	servers, err := s.List()
	if err != nil {
		return domain.ServerConfig{}, false, err
	}
	server, ok := lo.Find(servers, func(item domain.ServerConfig) bool {
		return item.ID == id
	})
	return server, ok, nil
}

// ListEnabled returns the enabled servers in insertion order.
func (s *Store) ListEnabled() ([]domain.ServerConfig, error) {
	servers, err := s.List()
	if err != nil {
		return nil, err
	}
	return lo.Filter(servers, func(item domain.ServerConfig, _ int) bool {
		return item.Enabled
	}), nil
}

// Version returns the version tag of the stored document.
func (s *Store) Version() (int, error) {
	var version int
	err := s.view(func(tx *bolt.Tx) error {
		doc, err := readDocument(tx)
		if err != nil {
			return err
		}
		version = doc.Version
		return nil
	})
	return version, err
}

// Add appends cfg. It fails with domain.ErrDuplicateID when the id is taken.
func (s *Store) Add(cfg domain.ServerConfig) error {
	return s.mutate(func(servers []domain.ServerConfig) ([]domain.ServerConfig, error) {
		// A taken id wins over any problem with the body.
		if lo.ContainsBy(servers, func(item domain.ServerConfig) bool { return item.ID == cfg.ID }) {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateID, cfg.ID)
		}
		if err := domain.ValidateServerConfig(cfg); err != nil {
			return nil, err
		}
		return append(servers, cfg.Clone()), nil
	})
}

// Update merges patch onto the server with the given id. It fails with
// domain.ErrNotFound when no server has that id.
func (s *Store) Update(id string, patch domain.ServerPatch) error {
	return s.mutate(func(servers []domain.ServerConfig) ([]domain.ServerConfig, error) {
		current, idx, ok := lo.FindIndexOf(servers, func(item domain.ServerConfig) bool {
			return item.ID == id
		})
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrNotFound, id)
		}
		merged := patch.Apply(current)
		if err := domain.ValidateServerConfig(merged); err != nil {
			return nil, err
		}
		servers[idx] = merged
		return servers, nil
	})
}

// Toggle sets the enabled flag. It is Update with only Enabled set.
func (s *Store) Toggle(id string, enabled bool) error {
	return s.Update(id, domain.ServerPatch{Enabled: &enabled})
}

// Remove deletes every server with the given id. A missing id is not an error.
func (s *Store) Remove(id string) error {
	return s.mutate(func(servers []domain.ServerConfig) ([]domain.ServerConfig, error) {
		return lo.Reject(servers, func(item domain.ServerConfig, _ int) bool {
			return item.ID == id
		}), nil
	})
}

// Clear empties the collection. The version tag is kept.
func (s *Store) Clear() error {
	return s.mutate(func([]domain.ServerConfig) ([]domain.ServerConfig, error) {
		return []domain.ServerConfig{}, nil
	})
}

func (s *Store) mutate(fn func([]domain.ServerConfig) ([]domain.ServerConfig, error)) error {
	return s.update(func(tx *bolt.Tx) error {
		doc, err := readDocument(tx)
		if err != nil {
			return err
		}
		servers, err := fn(doc.Servers)
		if err != nil {
			return err
		}
		doc.Servers = servers
		return writeDocument(tx, doc)
	})
}

func (s *Store) view(fn func(*bolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.db.View(fn)
}

func (s *Store) update(fn func(*bolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.db.Update(fn)
}

package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	bolt "go.etcd.io/bbolt"
)

// DefaultFileName is the settings database file name inside the data directory.
const DefaultFileName = "settings.db"

const (
	updatedAtKey   = "__updated_at"
	reservedPrefix = "__"
)

var (
	ErrStoreClosed       = errors.New("settings store is closed")
	ErrInvalidSectionKey = errors.New("invalid section key")
	ErrSectionNotFound   = errors.New("settings section not found")
	ErrInvalidSection    = errors.New("section value is not valid JSON")
)

// Snapshot is every stored section at one point in time.
type Snapshot struct {
	Version   int
	UpdatedAt string
	Sections  map[string]json.RawMessage
}

// Store keeps application settings as named JSON sections.
type Store struct {
	mu     sync.RWMutex
	db     *bolt.DB
	path   string
	closed bool
}

func OpenStore(path string) (*Store, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("settings path is required")
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("ensure settings dir: %w", err)
	}
	options := &bolt.Options{Timeout: time.Second}
	base, err := bolt.Open(trimmed, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
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

// Snapshot returns all sections.
func (s *Store) Snapshot() (Snapshot, error) {
	var snapshot Snapshot
	err := s.view(func(tx *bolt.Tx) error {
		version, err := readVersion(tx)
		if err != nil {
			return err
		}
		bucket, err := sectionsBucket(tx)
		if err != nil {
			return err
		}
		snapshot = Snapshot{
			Version:   version,
			UpdatedAt: readUpdatedAt(bucket),
			Sections:  map[string]json.RawMessage{},
		}
		return bucket.ForEach(func(key, value []byte) error {
			if value == nil || isReservedKey(key) {
				return nil
			}
			snapshot.Sections[string(key)] = append([]byte(nil), value...)
			return nil
		})
	})
	return snapshot, err
}

// Get returns the raw JSON of one section, or ErrSectionNotFound.
func (s *Store) Get(section string) ([]byte, error) {
	if err := validateSectionKey(section); err != nil {
		return nil, err
	}
	var raw []byte
	err := s.view(func(tx *bolt.Tx) error {
		bucket, err := sectionsBucket(tx)
		if err != nil {
			return err
		}
		value := bucket.Get([]byte(section))
		if value == nil {
			return fmt.Errorf("%w: %s", ErrSectionNotFound, section)
		}
		raw = append([]byte(nil), value...)
		return nil
	})
	return raw, err
}

// Put replaces one section. raw must be valid JSON.
func (s *Store) Put(section string, raw []byte) error {
	if err := validateSectionKey(section); err != nil {
		return err
	}
	if !sonic.ConfigStd.Valid(raw) {
		return fmt.Errorf("%w: %s", ErrInvalidSection, section)
	}
	return s.update(func(tx *bolt.Tx) error {
		bucket, err := sectionsBucket(tx)
		if err != nil {
			return err
		}
		if err := bucket.Put([]byte(section), raw); err != nil {
			return fmt.Errorf("write section %s: %w", section, err)
		}
		return writeUpdatedAt(bucket)
	})
}

// Delete removes one section. A missing section is not an error.
func (s *Store) Delete(section string) error {
	if err := validateSectionKey(section); err != nil {
		return err
	}
	return s.update(func(tx *bolt.Tx) error {
		bucket, err := sectionsBucket(tx)
		if err != nil {
			return err
		}
		if err := bucket.Delete([]byte(section)); err != nil {
			return fmt.Errorf("delete section %s: %w", section, err)
		}
		return writeUpdatedAt(bucket)
	})
}

// Update writes updates and deletes removes in one transaction. Keys are
// validated before anything is written.
func (s *Store) Update(updates map[string]json.RawMessage, removes []string) error {
	for key, raw := range updates {
		if err := validateSectionKey(key); err != nil {
			return err
		}
		if !sonic.ConfigStd.Valid(raw) {
			return fmt.Errorf("%w: %s", ErrInvalidSection, key)
		}
	}
	for _, key := range removes {
		if err := validateSectionKey(key); err != nil {
			return err
		}
	}
	if len(updates) == 0 && len(removes) == 0 {
		return nil
	}
	return s.update(func(tx *bolt.Tx) error {
		bucket, err := sectionsBucket(tx)
		if err != nil {
			return err
		}
		for key, raw := range updates {
			if err := bucket.Put([]byte(key), raw); err != nil {
				return fmt.Errorf("write section %s: %w", key, err)
			}
		}
		for _, key := range removes {
			if err := bucket.Delete([]byte(key)); err != nil {
				return fmt.Errorf("delete section %s: %w", key, err)
			}
		}
		return writeUpdatedAt(bucket)
	})
}

// Reset drops every section. The schema version is kept.
func (s *Store) Reset() error {
	return s.update(func(tx *bolt.Tx) error {
		bucket, err := sectionsBucket(tx)
		if err != nil {
			return err
		}
		return clearBucket(bucket)
	})
}

// GetJSON decodes a section into out.
func (s *Store) GetJSON(section string, out any) error {
	raw, err := s.Get(section)
	if err != nil {
		return err
	}
	if err := sonic.ConfigStd.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode section %s: %w", section, err)
	}
	return nil
}

// PutJSON encodes value and stores it as a section.
func (s *Store) PutJSON(section string, value any) error {
	raw, err := sonic.ConfigStd.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode section %s: %w", section, err)
	}
	return s.Put(section, raw)
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

func validateSectionKey(key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" || trimmed != key || strings.HasPrefix(trimmed, reservedPrefix) {
		return fmt.Errorf("%w: %q", ErrInvalidSectionKey, key)
	}
	return nil
}

func readUpdatedAt(bucket *bolt.Bucket) string {
	value := bucket.Get([]byte(updatedAtKey))
	if len(value) == 0 {
		return ""
	}
	return string(value)
}

func writeUpdatedAt(bucket *bolt.Bucket) error {
	value := time.Now().UTC().Format(time.RFC3339Nano)
	return bucket.Put([]byte(updatedAtKey), []byte(value))
}

func isReservedKey(key []byte) bool {
	return strings.HasPrefix(string(key), reservedPrefix)
}

func clearBucket(bucket *bolt.Bucket) error {
	var keys [][]byte
	if err := bucket.ForEach(func(key, _ []byte) error {
		keys = append(keys, append([]byte(nil), key...))
		return nil
	}); err != nil {
		return err
	}
	for _, key := range keys {
		if err := bucket.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

package secrets

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrSecretNotFound is returned by Get when no value is stored for the key.
	ErrSecretNotFound = errors.New("secret not found")
	// ErrBackendUnavailable is returned when the backing keychain cannot be reached.
	ErrBackendUnavailable = errors.New("secret backend unavailable")
)

const (
	BackendKeychain = "keychain"
	BackendNone     = "none"
)

// Store holds secret values outside the servers document.
type Store interface {
	Name() string
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key succeeds.
	Delete(ctx context.Context, key string) error
}

// ServerEnvKey builds the secret key for an environment entry of a server.
func ServerEnvKey(serverID, envKey string) string {
	return "mcp-server/" + strings.TrimSpace(serverID) + "/" + strings.TrimSpace(envKey)
}

// New returns the store for the named backend.
func New(backend string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendKeychain:
		return NewKeychainStore(), nil
	case BackendNone:
		return NopStore{}, nil
	default:
		return nil, errors.New("unknown secret backend: " + backend)
	}
}

// NopStore keeps no secrets. With it, secret values stay inline in the servers document.
type NopStore struct{}

func (NopStore) Name() string { return BackendNone }

func (NopStore) Get(context.Context, string) (string, error) { return "", ErrSecretNotFound }

func (NopStore) Set(context.Context, string, string) error { return nil }

func (NopStore) Delete(context.Context, string) error { return nil }

// Inline reports whether secret values must stay in the document.
func Inline(store Store) bool {
	if store == nil {
		return true
	}
	_, ok := store.(NopStore)
	return ok
}

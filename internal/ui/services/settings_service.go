package services

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"mcpsettings/internal/infra/settings"
	"mcpsettings/internal/ui"
)

// SettingsService exposes the general settings sections to the frontend.
type SettingsService struct {
	deps   *ServiceDeps
	logger *zap.Logger
}

func NewSettingsService(deps *ServiceDeps) *SettingsService {
	return &SettingsService{
		deps:   deps,
		logger: deps.loggerNamed("settings-service"),
	}
}

// GetSettings returns every stored section.
func (s *SettingsService) GetSettings(_ context.Context) (SettingsSnapshot, error) {
	store, err := s.deps.settings()
	if err != nil {
		return SettingsSnapshot{}, err
	}
	return s.snapshot(store)
}

// UpdateSettings writes and removes sections in one step.
func (s *SettingsService) UpdateSettings(_ context.Context, req UpdateSettingsRequest) (SettingsSnapshot, error) {
	store, err := s.deps.settings()
	if err != nil {
		return SettingsSnapshot{}, err
	}
	if err := store.Update(normalizeUpdates(req.Updates), req.Removes); err != nil {
		return SettingsSnapshot{}, s.mapError("update settings failed", err)
	}
	return s.snapshot(store)
}

// ResetSettings clears every section, including the selected model.
func (s *SettingsService) ResetSettings(_ context.Context) (SettingsSnapshot, error) {
	store, err := s.deps.settings()
	if err != nil {
		return SettingsSnapshot{}, err
	}
	if err := store.Reset(); err != nil {
		return SettingsSnapshot{}, s.mapError("reset settings failed", err)
	}
	return s.snapshot(store)
}

func (s *SettingsService) snapshot(store *settings.Store) (SettingsSnapshot, error) {
	snapshot, err := store.Snapshot()
	if err != nil {
		return SettingsSnapshot{}, s.mapError("read settings failed", err)
	}
	return mapSnapshot(snapshot), nil
}

func (s *SettingsService) mapError(message string, err error) error {
	if errors.Is(err, settings.ErrInvalidSectionKey) || errors.Is(err, settings.ErrInvalidSection) {
		return ui.NewError(ui.ErrCodeInvalidRequest, err.Error())
	}
	s.logger.Error(message, zap.Error(err))
	return ui.NewErrorWithDetails(ui.ErrCodeInternal, "Settings storage failed", err.Error())
}

func normalizeUpdates(raw map[string]json.RawMessage) map[string]json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]json.RawMessage, len(raw))
	for key, value := range raw {
		out[key] = append([]byte(nil), value...)
	}
	return out
}

func mapSnapshot(snapshot settings.Snapshot) SettingsSnapshot {
	sections := make(map[string]json.RawMessage, len(snapshot.Sections))
	for key, value := range snapshot.Sections {
		sections[key] = append([]byte(nil), value...)
	}
	return SettingsSnapshot{
		Version:   snapshot.Version,
		UpdatedAt: snapshot.UpdatedAt,
		Sections:  sections,
	}
}

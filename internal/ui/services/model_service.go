package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"mcpsettings/internal/domain"
	"mcpsettings/internal/presets"
	"mcpsettings/internal/ui"
)

// ModelService exposes the provider catalog and the selected model.
type ModelService struct {
	deps   *ServiceDeps
	logger *zap.Logger
}

func NewModelService(deps *ServiceDeps) *ModelService {
	return &ModelService{
		deps:   deps,
		logger: deps.loggerNamed("model-service"),
	}
}

func (s *ModelService) ListProviders(_ context.Context) ([]domain.ProviderConfig, error) {
	return presets.DefaultProviders(), nil
}

func (s *ModelService) GetSelectedModel(_ context.Context) (domain.SelectedModel, error) {
	store, err := s.deps.settings()
	if err != nil {
		return domain.SelectedModel{}, err
	}
	selected, err := store.GetSelectedModel()
	if err != nil {
		s.logger.Error("read selected model failed", zap.Error(err))
		return domain.SelectedModel{}, ui.MapDomainError(err)
	}
	return selected, nil
}

// SetSelectedModel stores the model with the given full id, e.g. "anthropic/claude-sonnet-4-5".
func (s *ModelService) SetSelectedModel(_ context.Context, fullID string) (domain.SelectedModel, error) {
	fullID = strings.TrimSpace(fullID)
	if fullID == "" {
		return domain.SelectedModel{}, ui.NewError(ui.ErrCodeInvalidRequest, "Model id is required")
	}
	store, err := s.deps.settings()
	if err != nil {
		return domain.SelectedModel{}, err
	}
	selected, err := store.SetSelectedModel(fullID)
	if err != nil {
		return domain.SelectedModel{}, ui.MapDomainError(err)
	}
	return selected, nil
}

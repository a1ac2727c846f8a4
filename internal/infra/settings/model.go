package settings

import (
	"errors"
	"fmt"

	"mcpsettings/internal/domain"
	"mcpsettings/internal/presets"
)

// SelectedModelSection holds the user's model choice.
const SelectedModelSection = "selectedModel"

// GetSelectedModel returns the stored model choice, or presets.DefaultModel
// when none was saved or the saved model left the catalog.
func (s *Store) GetSelectedModel() (domain.SelectedModel, error) {
	var selected domain.SelectedModel
	err := s.GetJSON(SelectedModelSection, &selected)
	if errors.Is(err, ErrSectionNotFound) {
		return presets.DefaultModel, nil
	}
	if err != nil {
		return domain.SelectedModel{}, err
	}
	if _, ok := presets.ModelByFullID(selected.Model); !ok {
		return presets.DefaultModel, nil
	}
	return selected, nil
}

// SetSelectedModel stores the model identified by its full id. The provider is
// taken from the catalog.
func (s *Store) SetSelectedModel(fullID string) (domain.SelectedModel, error) {
	model, ok := presets.ModelByFullID(fullID)
	if !ok {
		return domain.SelectedModel{}, fmt.Errorf("%w: %q", domain.ErrUnknownModel, fullID)
	}
	selected := domain.SelectedModel{Provider: model.Provider, Model: model.FullID}
	if err := s.PutJSON(SelectedModelSection, selected); err != nil {
		return domain.SelectedModel{}, err
	}
	return selected, nil
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"mcpsettings/internal/domain"
	"mcpsettings/internal/presets"
	"mcpsettings/internal/ui"
)

func TestModelService(t *testing.T) {
	registry := newTestRegistry(t)
	svc := registry.Model
	ctx := context.Background()

	providers, err := svc.ListProviders(ctx)
	require.NoError(t, err)
	require.Len(t, providers, 7)

	selected, err := svc.GetSelectedModel(ctx)
	require.NoError(t, err)
	require.Equal(t, presets.DefaultModel, selected)

	selected, err = svc.SetSelectedModel(ctx, "zai/glm-4.6")
	require.NoError(t, err)
	require.Equal(t, domain.SelectedModel{Provider: domain.ProviderZAI, Model: "zai/glm-4.6"}, selected)

	selected, err = svc.GetSelectedModel(ctx)
	require.NoError(t, err)
	require.Equal(t, "zai/glm-4.6", selected.Model)

	_, err = svc.SetSelectedModel(ctx, "zai/glm-1")
	requireUICode(t, err, ui.ErrCodeInvalidRequest)
	_, err = svc.SetSelectedModel(ctx, "")
	requireUICode(t, err, ui.ErrCodeInvalidRequest)
}

package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mcpsettings/internal/config"
	"mcpsettings/internal/infra/serverstore"
	"mcpsettings/internal/infra/settings"
	"mcpsettings/internal/presets"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Config{
		DataDir:      t.TempDir(),
		ServersFile:  serverstore.DefaultFileName,
		SettingsFile: settings.DefaultFileName,
		LogLevel:     "info",
		Secrets:      config.SecretsConfig{Backend: "none"},
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestInitializeApplication(t *testing.T) {
	application, cleanup, err := InitializeApplication(testConfig(t), LoggingConfig{Logger: zap.NewNop()})
	require.NoError(t, err)
	defer cleanup()

	tmpl, ok := presets.TemplateByID("filesystem")
	require.True(t, ok)
	added, err := application.Servers().Add(context.Background(), presets.NewServerFromTemplate(tmpl, ""))
	require.NoError(t, err)

	got, ok, err := application.Servers().Get(added.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "filesystem", got.TemplateID)

	selected, err := application.Settings().GetSelectedModel()
	require.NoError(t, err)
	require.Equal(t, presets.DefaultModel, selected)
}

func TestInitializeApplicationReleasesStores(t *testing.T) {
	cfg := testConfig(t)
	_, cleanup, err := InitializeApplication(cfg, LoggingConfig{})
	require.NoError(t, err)
	cleanup()

	application, cleanup, err := InitializeApplication(cfg, LoggingConfig{})
	require.NoError(t, err)
	defer cleanup()
	require.Equal(t, cfg.ServersPath(), application.Config().ServersPath())
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("")
	require.NoError(t, err)
	require.Equal(t, zap.InfoLevel, level)

	level, err = ParseLogLevel("debug")
	require.NoError(t, err)
	require.Equal(t, zap.DebugLevel, level)

	_, err = ParseLogLevel("loud")
	require.Error(t, err)
}

package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mcpsettings/internal/app"
	"mcpsettings/internal/config"
	"mcpsettings/internal/domain"
	"mcpsettings/internal/ui"
)

func newTestRegistry(t *testing.T) *ServiceRegistry {
	t.Helper()
	cfg := config.Config{
		DataDir:      t.TempDir(),
		ServersFile:  "mcp-servers.db",
		SettingsFile: "settings.db",
		Secrets:      config.SecretsConfig{Backend: "none"},
	}
	coreApp, cleanup, err := app.InitializeApplication(cfg, app.LoggingConfig{Logger: zap.NewNop()})
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return NewServiceRegistry(coreApp, zap.NewNop())
}

func requireUICode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	uiErr, ok := err.(*ui.Error)
	require.True(t, ok, "expected *ui.Error, got %T", err)
	require.Equal(t, code, uiErr.Code)
}

func TestMcpServerServiceLifecycle(t *testing.T) {
	registry := newTestRegistry(t)
	svc := registry.McpServer
	ctx := context.Background()

	added, err := svc.AddMcpServer(ctx, NewMcpServer{
		ID:      "s1",
		Name:    "Notion",
		Type:    domain.ServerTypeLocal,
		Command: []string{"npx", "-y", "pkg"},
		Enabled: lo.ToPtr(true),
		Environment: []domain.EnvVar{
			{Key: "NOTION_TOKEN", Value: "ntn_secret", IsSecret: true},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "s1", added.ID)
	require.Equal(t, "npx -y pkg", added.DisplayTarget)
	require.Equal(t, domain.DefaultServerTimeoutMs, added.Timeout)
	require.Equal(t, EnvVarEntry{Key: "NOTION_TOKEN", IsSecret: true}, added.Environment[0])

	servers, err := svc.ListMcpServers(ctx)
	require.NoError(t, err)
	require.Len(t, servers, 1)

	require.NoError(t, svc.ToggleMcpServer(ctx, "s1", false))
	name := "Notion Work"
	require.NoError(t, svc.UpdateMcpServer(ctx, "s1", McpServerPatch{Name: &name}))

	got, err := svc.GetMcpServer(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.False(t, got.Enabled)
	require.Equal(t, "Notion Work", got.Name)

	require.NoError(t, svc.RemoveMcpServer(ctx, "s1"))
	require.NoError(t, svc.RemoveMcpServer(ctx, "s1"))
	got, err = svc.GetMcpServer(ctx, "s1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMcpServerServiceAddDefaultsEnabled(t *testing.T) {
	registry := newTestRegistry(t)
	svc := registry.McpServer
	ctx := context.Background()

	var payload NewMcpServer
	require.NoError(t, sonic.ConfigStd.Unmarshal([]byte(`{"id":"s1","name":"Files","type":"local","command":["node","fs.js"]}`), &payload))
	require.Nil(t, payload.Enabled)

	added, err := svc.AddMcpServer(ctx, payload)
	require.NoError(t, err)
	require.True(t, added.Enabled)

	added, err = svc.AddMcpServer(ctx, NewMcpServer{
		ID:      "s2",
		Name:    "Web",
		Type:    domain.ServerTypeRemote,
		URL:     "https://example.com/mcp",
		Enabled: lo.ToPtr(false),
	})
	require.NoError(t, err)
	require.False(t, added.Enabled)

	servers, err := svc.ListMcpServers(ctx)
	require.NoError(t, err)
	require.Equal(t, []bool{true, false}, lo.Map(servers, func(item McpServer, _ int) bool { return item.Enabled }))
}

func TestMcpServerServiceErrors(t *testing.T) {
	registry := newTestRegistry(t)
	svc := registry.McpServer
	ctx := context.Background()

	cfg := NewMcpServer{ID: "s1", Name: "A", Type: domain.ServerTypeLocal, Command: []string{"node"}}
	_, err := svc.AddMcpServer(ctx, cfg)
	require.NoError(t, err)

	_, err = svc.AddMcpServer(ctx, cfg)
	requireUICode(t, err, ui.ErrCodeDuplicateID)

	requireUICode(t, svc.ToggleMcpServer(ctx, "missing", true), ui.ErrCodeNotFound)

	remote := domain.ServerTypeRemote
	requireUICode(t, svc.UpdateMcpServer(ctx, "s1", McpServerPatch{Type: &remote}), ui.ErrCodeInvalidConfig)
	requireUICode(t, svc.UpdateMcpServer(ctx, " ", McpServerPatch{}), ui.ErrCodeInvalidRequest)

	_, err = svc.AddMcpServer(ctx, NewMcpServer{ID: "s2", Type: domain.ServerTypeLocal, Command: []string{"node"}})
	requireUICode(t, err, ui.ErrCodeInvalidConfig)
}

func TestMcpServerServiceTemplates(t *testing.T) {
	registry := newTestRegistry(t)
	svc := registry.McpServer
	ctx := context.Background()

	templates, err := svc.ListMcpServerTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 8)

	cfg, err := svc.NewMcpServerFromTemplate(ctx, NewFromTemplateRequest{TemplateID: "slack"})
	require.NoError(t, err)
	require.Equal(t, "slack", cfg.TemplateID)
	require.NotEmpty(t, cfg.ID)

	_, err = svc.NewMcpServerFromTemplate(ctx, NewFromTemplateRequest{TemplateID: "nope"})
	requireUICode(t, err, ui.ErrCodeNotFound)
}

func TestMcpServerServiceImportExport(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, ".claude.json"), []byte(`{
  "mcpServers": {
    "alpha": {"command": "node", "args": ["server.js"]},
    "web": {"type": "http", "url": "https://example.com/mcp"}
  }
}`), 0o600))

	registry := newTestRegistry(t)
	svc := registry.McpServer
	ctx := context.Background()

	result, err := svc.ImportMcpServers(ctx, ImportRequest{Source: "claude"})
	require.NoError(t, err)
	require.Len(t, result.Imported, 2)
	require.Empty(t, result.Issues)

	again, err := svc.ImportMcpServers(ctx, ImportRequest{Source: "claude"})
	require.NoError(t, err)
	require.Empty(t, again.Imported)
	require.Len(t, again.Issues, 2)

	_, err = svc.ImportMcpServers(ctx, ImportRequest{Source: "gemini"})
	requireUICode(t, err, ui.ErrCodeNotFound)
	_, err = svc.ImportMcpServers(ctx, ImportRequest{Source: "vscode"})
	requireUICode(t, err, ui.ErrCodeInvalidRequest)

	exported, err := svc.ExportMcpServers(ctx, ExportRequest{Format: "json"})
	require.NoError(t, err)
	require.Equal(t, "json", exported.Format)
	require.Contains(t, exported.Content, "https://example.com/mcp")

	_, err = svc.ExportMcpServers(ctx, ExportRequest{Format: "xml"})
	requireUICode(t, err, ui.ErrCodeInvalidRequest)
}

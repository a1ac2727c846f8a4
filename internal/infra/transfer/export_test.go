package transfer

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"mcpsettings/internal/domain"
)

func exportFixture() []domain.ServerConfig {
	return []domain.ServerConfig{
		{
			ID:      "mcp_1",
			Name:    "GitHub",
			Type:    domain.ServerTypeLocal,
			Command: []string{"npx", "-y", "@modelcontextprotocol/server-github"},
			Enabled: true,
			Environment: []domain.EnvVar{
				{Key: "GITHUB_PERSONAL_ACCESS_TOKEN", Value: "ghp_x", IsSecret: true},
				{Key: "LOG_LEVEL", Value: "debug"},
			},
		},
		{
			ID:   "mcp_2",
			Name: "Remote",
			Type: domain.ServerTypeRemote,
			URL:  "https://example.com/mcp",
		},
	}
}

func TestExportYAML(t *testing.T) {
	data, err := Export(exportFixture(), FormatYAML)
	require.NoError(t, err)
	require.NotContains(t, string(data), "ghp_x")

	var doc exportDocument
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Equal(t, domain.ServersDocumentVersion, doc.Version)
	require.Len(t, doc.Servers, 2)
	require.Equal(t, "GitHub", doc.Servers[0].Name)
	require.Equal(t, exportEnv{Key: "GITHUB_PERSONAL_ACCESS_TOKEN", IsSecret: true}, doc.Servers[0].Environment[0])
	require.Equal(t, "https://example.com/mcp", doc.Servers[1].URL)
}

func TestExportJSON(t *testing.T) {
	data, err := Export(exportFixture(), FormatJSON)
	require.NoError(t, err)
	require.NotContains(t, string(data), "ghp_x")

	var doc exportDocument
	require.NoError(t, sonic.ConfigStd.Unmarshal(data, &doc))
	require.Len(t, doc.Servers, 2)
	require.Equal(t, "local", doc.Servers[0].Type)
}

func TestExportClaudeRoundTrip(t *testing.T) {
	data, err := Export(exportFixture(), FormatClaude)
	require.NoError(t, err)
	require.NotContains(t, string(data), "ghp_x")

	result, err := Parse(SourceClaude, data)
	require.NoError(t, err)
	require.Len(t, result.Servers, 2)
	require.Equal(t, "GitHub", result.Servers[0].Name)
	require.Equal(t, []string{"npx", "-y", "@modelcontextprotocol/server-github"}, result.Servers[0].Command)
	require.Equal(t, []domain.EnvVar{{Key: "LOG_LEVEL", Value: "debug"}}, result.Servers[0].Environment)
	require.Equal(t, domain.ServerTypeRemote, result.Servers[1].Type)
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatYAML, format)

	format, err = ParseFormat("JSON")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, format)

	_, err = ParseFormat("xml")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

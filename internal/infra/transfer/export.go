package transfer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"mcpsettings/internal/domain"
)

// Format selects the export encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	// FormatClaude writes an mcpServers map that Claude-compatible clients read.
	FormatClaude Format = "claude"
)

// ParseFormat converts a raw string into a Format. An empty string selects YAML.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatYAML, "yml":
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatClaude:
		return FormatClaude, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
	}
}

type exportDocument struct {
	Version int            `json:"version" yaml:"version"`
	Servers []exportServer `json:"servers" yaml:"servers"`
}

type exportServer struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Type        string      `json:"type" yaml:"type"`
	Command     []string    `json:"command,omitempty" yaml:"command,omitempty"`
	URL         string      `json:"url,omitempty" yaml:"url,omitempty"`
	Enabled     bool        `json:"enabled" yaml:"enabled"`
	Environment []exportEnv `json:"environment,omitempty" yaml:"environment,omitempty"`
	Timeout     int         `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Icon        string      `json:"icon,omitempty" yaml:"icon,omitempty"`
	TemplateID  string      `json:"templateId,omitempty" yaml:"templateId,omitempty"`
}

type exportEnv struct {
	Key      string `json:"key" yaml:"key"`
	Value    string `json:"value,omitempty" yaml:"value,omitempty"`
	IsSecret bool   `json:"isSecret,omitempty" yaml:"isSecret,omitempty"`
}

type claudeServer struct {
	Type    string            `json:"type,omitempty"`
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	URL     string            `json:"url,omitempty"`
}

// Export encodes servers. Secret values are never written.
func Export(servers []domain.ServerConfig, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(toExportDocument(servers)); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := sonic.ConfigStd.MarshalIndent(toExportDocument(servers), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return data, nil
	case FormatClaude:
		data, err := sonic.ConfigStd.MarshalIndent(map[string]any{"mcpServers": toClaudeServers(servers)}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func toExportDocument(servers []domain.ServerConfig) exportDocument {
	doc := exportDocument{
		Version: domain.ServersDocumentVersion,
		Servers: make([]exportServer, 0, len(servers)),
	}
	for _, server := range servers {
		out := exportServer{
			ID:          server.ID,
			Name:        server.Name,
			Description: server.Description,
			Type:        string(server.Type),
			Command:     server.Command,
			URL:         server.URL,
			Enabled:     server.Enabled,
			Timeout:     server.Timeout,
			Icon:        server.Icon,
			TemplateID:  server.TemplateID,
		}
		for _, env := range server.Environment {
			entry := exportEnv{Key: env.Key, IsSecret: env.IsSecret}
			if !env.IsSecret {
				entry.Value = env.Value
			}
			out.Environment = append(out.Environment, entry)
		}
		doc.Servers = append(doc.Servers, out)
	}
	return doc
}

// toClaudeServers keys servers by name. A later server with a name already
// used is written under "<name>-<id>".
func toClaudeServers(servers []domain.ServerConfig) map[string]claudeServer {
	out := make(map[string]claudeServer, len(servers))
	for _, server := range servers {
		entry := claudeServer{}
		switch server.Type {
		case domain.ServerTypeRemote:
			entry.Type = "http"
			entry.URL = server.URL
		default:
			if len(server.Command) > 0 {
				entry.Command = server.Command[0]
				entry.Args = append([]string(nil), server.Command[1:]...)
			}
			for _, env := range server.Environment {
				if env.IsSecret {
					continue
				}
				if entry.Env == nil {
					entry.Env = map[string]string{}
				}
				entry.Env[env.Key] = env.Value
			}
		}
		name := server.Name
		if _, exists := out[name]; exists {
			name = fmt.Sprintf("%s-%s", server.Name, server.ID)
		}
		out[name] = entry
	}
	return out
}

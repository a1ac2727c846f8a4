package services

import (
	"encoding/json"

	"mcpsettings/internal/domain"
)

// McpServer is a configured server as shown in the settings panel.
type McpServer struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Type          domain.ServerType `json:"type"`
	Command       []string          `json:"command,omitempty"`
	URL           string            `json:"url,omitempty"`
	Enabled       bool              `json:"enabled"`
	Environment   []EnvVarEntry     `json:"environment,omitempty"`
	Timeout       int               `json:"timeout,omitempty"`
	Icon          string            `json:"icon,omitempty"`
	TemplateID    string            `json:"templateId,omitempty"`
	DisplayTarget string            `json:"displayTarget"`
}

// EnvVarEntry is one environment entry. Secret values are never sent to the frontend.
type EnvVarEntry struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	IsSecret bool   `json:"isSecret"`
}

// NewMcpServer is the payload of AddMcpServer. A missing enabled flag means
// enabled.
type NewMcpServer struct {
	ID          string            `json:"id,omitempty"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Type        domain.ServerType `json:"type"`
	Command     []string          `json:"command,omitempty"`
	URL         string            `json:"url,omitempty"`
	Enabled     *bool             `json:"enabled,omitempty"`
	Environment []domain.EnvVar   `json:"environment,omitempty"`
	Timeout     int               `json:"timeout,omitempty"`
	Icon        string            `json:"icon,omitempty"`
	TemplateID  string            `json:"templateId,omitempty"`
}

// McpServerPatch carries the fields to change. Absent fields are kept.
type McpServerPatch struct {
	Name        *string            `json:"name,omitempty"`
	Description *string            `json:"description,omitempty"`
	Type        *domain.ServerType `json:"type,omitempty"`
	Command     *[]string          `json:"command,omitempty"`
	URL         *string            `json:"url,omitempty"`
	Enabled     *bool              `json:"enabled,omitempty"`
	Environment *[]domain.EnvVar   `json:"environment,omitempty"`
	Timeout     *int               `json:"timeout,omitempty"`
	Icon        *string            `json:"icon,omitempty"`
	TemplateID  *string            `json:"templateId,omitempty"`
}

type NewFromTemplateRequest struct {
	TemplateID string `json:"templateId"`
}

type ImportRequest struct {
	Source string `json:"source"`
}

type TransferIssue struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type ImportResult struct {
	Source   string          `json:"source"`
	Path     string          `json:"path"`
	Imported []McpServer     `json:"imported"`
	Issues   []TransferIssue `json:"issues"`
}

type ExportRequest struct {
	Format string `json:"format"`
}

type ExportResult struct {
	Format  string `json:"format"`
	Content string `json:"content"`
}

type SettingsSnapshot struct {
	Version   int                        `json:"version"`
	UpdatedAt string                     `json:"updatedAt"`
	Sections  map[string]json.RawMessage `json:"sections"`
}

type UpdateSettingsRequest struct {
	Updates map[string]json.RawMessage `json:"updates"`
	Removes []string                   `json:"removes,omitempty"`
}

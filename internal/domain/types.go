package domain

import "strings"

// ServerType selects how a configured MCP server is reached.
type ServerType string

const (
	// ServerTypeLocal servers are launched as a local process from Command.
	ServerTypeLocal ServerType = "local"
	// ServerTypeRemote servers are reached at URL.
	ServerTypeRemote ServerType = "remote"
)

// EnvVar is a single environment entry passed to a server.
// IsSecret marks values that belong in the secret store rather than the servers document.
type EnvVar struct {
	Key      string `json:"key" validate:"required"`
	Value    string `json:"value"`
	IsSecret bool   `json:"isSecret,omitempty"`
}

// ServerConfig is the persisted configuration of one MCP server.
type ServerConfig struct {
	ID          string     `json:"id" validate:"required"`
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description,omitempty"`
	Type        ServerType `json:"type" validate:"required,oneof=local remote"`
	Command     []string   `json:"command,omitempty"`
	URL         string     `json:"url,omitempty" validate:"omitempty,url"`
	Enabled     bool       `json:"enabled"`
	Environment []EnvVar   `json:"environment,omitempty" validate:"dive"`
	// Timeout is in milliseconds.
	Timeout    int    `json:"timeout,omitempty" validate:"gte=0"`
	Icon       string `json:"icon,omitempty"`
	TemplateID string `json:"templateId,omitempty"`
}

// Clone returns a copy that shares no slices with c.
func (c ServerConfig) Clone() ServerConfig {
	out := c
	if c.Command != nil {
		out.Command = append([]string(nil), c.Command...)
	}
	if c.Environment != nil {
		out.Environment = append([]EnvVar(nil), c.Environment...)
	}
	return out
}

// EffectiveTimeout returns the timeout in milliseconds, falling back to the default.
func (c ServerConfig) EffectiveTimeout() int {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultServerTimeoutMs
}

// DisplayTarget returns the command line for local servers and the URL for remote ones.
func (c ServerConfig) DisplayTarget() string {
	if len(c.Command) > 0 {
		return strings.Join(c.Command, " ")
	}
	return c.URL
}

// HasSecrets reports whether any environment entry is flagged secret.
func (c ServerConfig) HasSecrets() bool {
	for _, env := range c.Environment {
		if env.IsSecret {
			return true
		}
	}
	return false
}

// ServersDocument is the persisted shape of the server collection.
type ServersDocument struct {
	Servers []ServerConfig `json:"servers"`
	Version int            `json:"version"`
}

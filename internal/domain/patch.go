package domain

// ServerPatch is a partial update of a ServerConfig. A nil field is left
// untouched; a non-nil field replaces the stored value, so a pointer to the
// zero value clears an optional field. Slices are replaced wholesale.
type ServerPatch struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	Type        *ServerType `json:"type,omitempty"`
	Command     *[]string   `json:"command,omitempty"`
	URL         *string     `json:"url,omitempty"`
	Enabled     *bool       `json:"enabled,omitempty"`
	Environment *[]EnvVar   `json:"environment,omitempty"`
	Timeout     *int        `json:"timeout,omitempty"`
	Icon        *string     `json:"icon,omitempty"`
	TemplateID  *string     `json:"templateId,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ServerPatch) IsEmpty() bool {
	return p.Name == nil &&
		p.Description == nil &&
		p.Type == nil &&
		p.Command == nil &&
		p.URL == nil &&
		p.Enabled == nil &&
		p.Environment == nil &&
		p.Timeout == nil &&
		p.Icon == nil &&
		p.TemplateID == nil
}

// Apply merges p onto cfg and returns the result. cfg is not modified.
func (p ServerPatch) Apply(cfg ServerConfig) ServerConfig {
	out := cfg.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Command != nil {
		out.Command = cloneStrings(*p.Command)
	}
	if p.URL != nil {
		out.URL = *p.URL
	}
	if p.Enabled != nil {
		out.Enabled = *p.Enabled
	}
	if p.Environment != nil {
		out.Environment = cloneEnv(*p.Environment)
	}
	if p.Timeout != nil {
		out.Timeout = *p.Timeout
	}
	if p.Icon != nil {
		out.Icon = *p.Icon
	}
	if p.TemplateID != nil {
		out.TemplateID = *p.TemplateID
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneEnv(in []EnvVar) []EnvVar {
	if in == nil {
		return nil
	}
	return append([]EnvVar(nil), in...)
}

package presets

import (
	"strings"

	"mcpsettings/internal/domain"
)

// NewServerFromTemplate pre-fills a server configuration the way the settings
// panel does when a template is picked. Required variables start empty so the
// user must supply them; optional variables carry their defaults.
func NewServerFromTemplate(tmpl domain.ServerTemplate, id string) domain.ServerConfig {
	env := make([]domain.EnvVar, 0, len(tmpl.RequiredEnvVars)+len(tmpl.OptionalEnvVars))
	for _, v := range tmpl.RequiredEnvVars {
		env = append(env, domain.EnvVar{Key: v.Key, IsSecret: v.IsSecret})
	}
	for _, v := range tmpl.OptionalEnvVars {
		env = append(env, domain.EnvVar{Key: v.Key, Value: v.DefaultValue, IsSecret: v.IsSecret})
	}
	icon := tmpl.Icon
	if icon == "" {
		icon = domain.DefaultServerIcon
	}
	return domain.ServerConfig{
		ID:          id,
		Name:        tmpl.Name,
		Description: tmpl.Description,
		Type:        domain.ServerTypeLocal,
		Command:     LaunchCommand(tmpl.NpmPackage),
		Enabled:     true,
		Environment: env,
		Timeout:     domain.DefaultServerTimeoutMs,
		Icon:        icon,
		TemplateID:  tmpl.ID,
	}
}

// LaunchCommand returns the npx invocation for an npm package.
func LaunchCommand(npmPackage string) []string {
	return []string{domain.DefaultLaunchCommand, "-y", npmPackage}
}

// SplitCommand splits a command line on whitespace, dropping empty parts.
func SplitCommand(line string) []string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// FilledEnvironment drops entries without a value.
func FilledEnvironment(env []domain.EnvVar) []domain.EnvVar {
	out := make([]domain.EnvVar, 0, len(env))
	for _, v := range env {
		if v.Value == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

// MissingRequired returns the required template keys that have no value in env.
func MissingRequired(tmpl domain.ServerTemplate, env []domain.EnvVar) []string {
	values := make(map[string]string, len(env))
	for _, v := range env {
		values[v.Key] = v.Value
	}
	var missing []string
	for _, v := range tmpl.RequiredEnvVars {
		if strings.TrimSpace(values[v.Key]) == "" {
			missing = append(missing, v.Key)
		}
	}
	return missing
}

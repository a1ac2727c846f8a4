package services

import (
	"github.com/samber/lo"

	"mcpsettings/internal/domain"
	"mcpsettings/internal/infra/transfer"
)

func mapServer(cfg domain.ServerConfig) McpServer {
	return McpServer{
		ID:            cfg.ID,
		Name:          cfg.Name,
		Description:   cfg.Description,
		Type:          cfg.Type,
		Command:       append([]string(nil), cfg.Command...),
		URL:           cfg.URL,
		Enabled:       cfg.Enabled,
		Environment:   lo.Map(cfg.Environment, func(env domain.EnvVar, _ int) EnvVarEntry { return mapEnv(env) }),
		Timeout:       cfg.EffectiveTimeout(),
		Icon:          cfg.Icon,
		TemplateID:    cfg.TemplateID,
		DisplayTarget: cfg.DisplayTarget(),
	}
}

func mapServers(servers []domain.ServerConfig) []McpServer {
	out := make([]McpServer, 0, len(servers))
	for _, server := range servers {
		out = append(out, mapServer(server))
	}
	return out
}

// mapEnv blanks secret values. The panel sends a blank secret back to keep
// the stored one.
func mapEnv(env domain.EnvVar) EnvVarEntry {
	entry := EnvVarEntry{Key: env.Key, IsSecret: env.IsSecret}
	if !env.IsSecret {
		entry.Value = env.Value
	}
	return entry
}

func mapNewServer(in NewMcpServer) domain.ServerConfig {
	return domain.ServerConfig{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		Type:        in.Type,
		Command:     in.Command,
		URL:         in.URL,
		Enabled:     lo.FromPtrOr(in.Enabled, true),
		Environment: in.Environment,
		Timeout:     in.Timeout,
		Icon:        in.Icon,
		TemplateID:  in.TemplateID,
	}
}

func mapPatch(patch McpServerPatch) domain.ServerPatch {
	return domain.ServerPatch{
		Name:        patch.Name,
		Description: patch.Description,
		Type:        patch.Type,
		Command:     patch.Command,
		URL:         patch.URL,
		Enabled:     patch.Enabled,
		Environment: patch.Environment,
		Timeout:     patch.Timeout,
		Icon:        patch.Icon,
		TemplateID:  patch.TemplateID,
	}
}

func mapIssues(issues []transfer.Issue) []TransferIssue {
	return lo.Map(issues, func(issue transfer.Issue, _ int) TransferIssue {
		return TransferIssue{Name: issue.Name, Kind: issue.Kind, Message: issue.Message}
	})
}

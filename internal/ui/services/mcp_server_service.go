package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"mcpsettings/internal/domain"
	"mcpsettings/internal/infra/transfer"
	"mcpsettings/internal/presets"
	"mcpsettings/internal/ui"
)

// McpServerService exposes MCP server configuration APIs for Wails.
type McpServerService struct {
	deps   *ServiceDeps
	logger *zap.Logger
}

func NewMcpServerService(deps *ServiceDeps) *McpServerService {
	return &McpServerService{
		deps:   deps,
		logger: deps.loggerNamed("mcp-server-service"),
	}
}

// ListMcpServers returns every configured server in storage order.
func (s *McpServerService) ListMcpServers(_ context.Context) ([]McpServer, error) {
	manager, err := s.deps.servers()
	if err != nil {
		return nil, err
	}
	servers, err := manager.List()
	if err != nil {
		return nil, s.mapError("list servers", err)
	}
	return mapServers(servers), nil
}

// GetMcpServer returns one server, or nil when the id is unknown.
func (s *McpServerService) GetMcpServer(_ context.Context, id string) (*McpServer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ui.NewError(ui.ErrCodeInvalidRequest, "Server id is required")
	}
	manager, err := s.deps.servers()
	if err != nil {
		return nil, err
	}
	cfg, ok, err := manager.Get(id)
	if err != nil {
		return nil, s.mapError("get server", err)
	}
	if !ok {
		return nil, nil
	}
	server := mapServer(cfg)
	return &server, nil
}

// AddMcpServer stores a new server. A blank id is generated and a missing
// enabled flag stores the server enabled.
func (s *McpServerService) AddMcpServer(ctx context.Context, config NewMcpServer) (McpServer, error) {
	manager, err := s.deps.servers()
	if err != nil {
		return McpServer{}, err
	}
	added, err := manager.Add(ctx, mapNewServer(config))
	if err != nil {
		return McpServer{}, s.mapError("add server", err)
	}
	return mapServer(added), nil
}

// UpdateMcpServer merges patch onto the server with the given id.
func (s *McpServerService) UpdateMcpServer(ctx context.Context, id string, patch McpServerPatch) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ui.NewError(ui.ErrCodeInvalidRequest, "Server id is required")
	}
	manager, err := s.deps.servers()
	if err != nil {
		return err
	}
	if err := manager.Update(ctx, id, mapPatch(patch)); err != nil {
		return s.mapError("update server", err)
	}
	return nil
}

// RemoveMcpServer deletes a server. Unknown ids succeed.
func (s *McpServerService) RemoveMcpServer(ctx context.Context, id string) error {
	manager, err := s.deps.servers()
	if err != nil {
		return err
	}
	if err := manager.Remove(ctx, id); err != nil {
		return s.mapError("remove server", err)
	}
	return nil
}

// ToggleMcpServer sets the enabled flag.
func (s *McpServerService) ToggleMcpServer(ctx context.Context, id string, enabled bool) error {
	manager, err := s.deps.servers()
	if err != nil {
		return err
	}
	if err := manager.Toggle(ctx, id, enabled); err != nil {
		return s.mapError("toggle server", err)
	}
	return nil
}

// ListMcpServerTemplates returns the built-in templates.
func (s *McpServerService) ListMcpServerTemplates(_ context.Context) ([]domain.ServerTemplate, error) {
	return presets.Templates(), nil
}

// NewMcpServerFromTemplate returns an unsaved server pre-filled from a template.
func (s *McpServerService) NewMcpServerFromTemplate(_ context.Context, req NewFromTemplateRequest) (domain.ServerConfig, error) {
	tmpl, ok := presets.TemplateByID(strings.TrimSpace(req.TemplateID))
	if !ok {
		return domain.ServerConfig{}, ui.NewError(ui.ErrCodeNotFound, "Template not found")
	}
	manager, err := s.deps.servers()
	if err != nil {
		return domain.ServerConfig{}, err
	}
	return presets.NewServerFromTemplate(tmpl, manager.NewServerID()), nil
}

// ImportMcpServers copies servers from another client's config.
func (s *McpServerService) ImportMcpServers(ctx context.Context, req ImportRequest) (ImportResult, error) {
	source, err := transfer.ParseSource(req.Source)
	if err != nil {
		return ImportResult{}, ui.NewError(ui.ErrCodeInvalidRequest, "Unsupported transfer source")
	}
	result, err := transfer.ReadSource(source)
	if err != nil {
		switch {
		case errors.Is(err, transfer.ErrNotFound):
			return ImportResult{}, ui.NewError(ui.ErrCodeNotFound, "Source config not found")
		case errors.Is(err, transfer.ErrUnknownSource):
			return ImportResult{}, ui.NewError(ui.ErrCodeInvalidRequest, "Unsupported transfer source")
		default:
			return ImportResult{}, ui.NewErrorWithDetails(ui.ErrCodeInvalidConfig, "Failed to parse source config", err.Error())
		}
	}
	manager, err := s.deps.servers()
	if err != nil {
		return ImportResult{}, err
	}
	report, err := manager.Import(ctx, result)
	if err != nil {
		return ImportResult{}, s.mapError("import servers", err)
	}
	return ImportResult{
		Source:   string(source),
		Path:     result.Path,
		Imported: mapServers(report.Added),
		Issues:   mapIssues(report.Issues),
	}, nil
}

// ExportMcpServers encodes the configured servers without secret values.
func (s *McpServerService) ExportMcpServers(_ context.Context, req ExportRequest) (ExportResult, error) {
	format, err := transfer.ParseFormat(req.Format)
	if err != nil {
		return ExportResult{}, ui.NewError(ui.ErrCodeInvalidRequest, "Unsupported export format")
	}
	manager, err := s.deps.servers()
	if err != nil {
		return ExportResult{}, err
	}
	servers, err := manager.List()
	if err != nil {
		return ExportResult{}, s.mapError("list servers", err)
	}
	data, err := transfer.Export(servers, format)
	if err != nil {
		return ExportResult{}, s.mapError("export servers", err)
	}
	return ExportResult{Format: string(format), Content: string(data)}, nil
}

func (s *McpServerService) mapError(op string, err error) error {
	uiErr := ui.MapDomainError(err)
	if uiErr.Code == ui.ErrCodeInternal {
		s.logger.Error(op+" failed", zap.Error(err))
	}
	return uiErr
}

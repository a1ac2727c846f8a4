package services

import (
	"github.com/wailsapp/wails/v3/pkg/application"
	"go.uber.org/zap"

	"mcpsettings/internal/app"
)

// ServiceRegistry wires all Wails services together.
type ServiceRegistry struct {
	deps *ServiceDeps

	McpServer *McpServerService
	Model     *ModelService
	Settings  *SettingsService
}

func NewServiceRegistry(coreApp *app.Application, logger *zap.Logger) *ServiceRegistry {
	deps := NewServiceDeps(coreApp, logger)
	return &ServiceRegistry{
		deps:      deps,
		McpServer: NewMcpServerService(deps),
		Model:     NewModelService(deps),
		Settings:  NewSettingsService(deps),
	}
}

func (r *ServiceRegistry) Services() []application.Service {
	return []application.Service{
		application.NewService(r.McpServer),
		application.NewService(r.Model),
		application.NewService(r.Settings),
	}
}

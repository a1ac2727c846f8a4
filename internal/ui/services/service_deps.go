package services

import (
	"strings"

	"go.uber.org/zap"

	"mcpsettings/internal/app"
	"mcpsettings/internal/infra/settings"
	"mcpsettings/internal/ui"
)

// ServiceDeps holds shared dependencies for Wails services.
type ServiceDeps struct {
	coreApp *app.Application
	logger  *zap.Logger
}

func NewServiceDeps(coreApp *app.Application, logger *zap.Logger) *ServiceDeps {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceDeps{
		coreApp: coreApp,
		logger:  logger,
	}
}

func (d *ServiceDeps) loggerNamed(name string) *zap.Logger {
	if d == nil || d.logger == nil {
		return zap.NewNop()
	}
	if strings.TrimSpace(name) == "" {
		return d.logger
	}
	return d.logger.Named(name)
}

func (d *ServiceDeps) servers() (*app.ServerManager, error) {
	if d == nil || d.coreApp == nil || d.coreApp.Servers() == nil {
		return nil, ui.NewError(ui.ErrCodeInternal, "Application not initialized")
	}
	return d.coreApp.Servers(), nil
}

func (d *ServiceDeps) settings() (*settings.Store, error) {
	if d == nil || d.coreApp == nil || d.coreApp.Settings() == nil {
		return nil, ui.NewError(ui.ErrCodeInternal, "Application not initialized")
	}
	return d.coreApp.Settings(), nil
}

package app

import (
	"go.uber.org/zap"

	"mcpsettings/internal/config"
	"mcpsettings/internal/infra/settings"
)

// Application holds the opened stores and the services built on them.
type Application struct {
	config   config.Config
	logger   *zap.Logger
	servers  *ServerManager
	settings *settings.Store
}

// ApplicationOptions captures dependencies for Application.
type ApplicationOptions struct {
	Config   config.Config
	Logger   *zap.Logger
	Servers  *ServerManager
	Settings *settings.Store
}

func NewApplication(opts ApplicationOptions) *Application {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Application{
		config:   opts.Config,
		logger:   logger,
		servers:  opts.Servers,
		settings: opts.Settings,
	}
}

func (a *Application) Config() config.Config {
	return a.config
}

func (a *Application) Logger() *zap.Logger {
	return a.logger
}

func (a *Application) Servers() *ServerManager {
	return a.servers
}

func (a *Application) Settings() *settings.Store {
	return a.settings
}

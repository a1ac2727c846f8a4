//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"mcpsettings/internal/config"
)

func InitializeApplication(cfg config.Config, logging LoggingConfig) (*Application, func(), error) {
	wire.Build(AppSet)
	return nil, nil, nil
}

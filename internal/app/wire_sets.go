//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
)

var CoreInfraSet = wire.NewSet(
	NewLogging,
	NewLogger,
	NewServerStore,
	NewSettingsStore,
	NewSecretStore,
	NewServerRepository,
)

var AppSet = wire.NewSet(
	CoreInfraSet,
	NewServerManager,
	wire.Struct(new(ApplicationOptions), "*"),
	NewApplication,
)

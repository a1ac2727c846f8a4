package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"
	"go.uber.org/zap"

	"mcpsettings/internal/app"
	"mcpsettings/internal/config"
	"mcpsettings/internal/infra/telemetry"
	"mcpsettings/internal/ui/services"
)

func main() {
	cfg, err := config.Load(os.Getenv(config.EnvPrefix + "_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := app.NewDevelopmentLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	coreApp, cleanup, err := app.InitializeApplication(cfg, app.LoggingConfig{
		Logger: logger,
		Source: telemetry.LogSourceCore,
	})
	if err != nil {
		logger.Fatal("failed to open settings stores", zap.Error(err), zap.String("dataDir", cfg.DataDir))
	}

	uiLogger := logger.With(telemetry.LogSourceField(telemetry.LogSourceUI))
	serviceRegistry := services.NewServiceRegistry(coreApp, uiLogger)

	wailsApp := application.New(application.Options{
		Name:        "mcpsettings",
		Description: "MCP Server Settings",
		Services:    serviceRegistry.Services(),
		Assets: application.AssetOptions{
			Handler: application.AssetFileServerFS(Assets),
		},
		Mac: application.MacOptions{
			ApplicationShouldTerminateAfterLastWindowClosed: true,
		},
		LogLevel: slog.LevelInfo,
		OnShutdown: func() {
			cleanup()
		},
	})

	window := wailsApp.Window.NewWithOptions(application.WebviewWindowOptions{
		Title:            "MCP Settings",
		Width:            960,
		Height:           720,
		BackgroundColour: application.NewRGB(255, 255, 255),
		URL:              "/",
		Mac: application.MacWindow{
			InvisibleTitleBarHeight: 50,
			Backdrop:                application.MacBackdropTranslucent,
			TitleBar:                application.MacTitleBarHiddenInset,
		},
	})

	window.RegisterHook(events.Common.WindowClosing, func(*application.WindowEvent) {
		uiLogger.Debug("settings window closing")
	})

	uiLogger.Info("starting settings application",
		zap.String("servers", cfg.ServersPath()),
		zap.String("settings", cfg.SettingsPath()),
	)
	if err := wailsApp.Run(); err != nil {
		logger.Error("wails run failed", zap.Error(err))
		return
	}
}

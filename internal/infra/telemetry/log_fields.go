package telemetry

import (
	"time"

	"go.uber.org/zap"
)

const (
	FieldServerID   = "server_id"
	FieldOp         = "op"
	FieldDurationMs = "duration_ms"
	FieldLogSource  = "log_source"
	FieldSource     = "source"
	FieldCount      = "count"
)

const (
	OpAdd    = "add"
	OpUpdate = "update"
	OpRemove = "remove"
	OpToggle = "toggle"
	OpImport = "import"
	OpClear  = "clear"
)

const (
	LogSourceCore = "core"
	LogSourceUI   = "ui"
	LogSourceCLI  = "cli"
)

func ServerIDField(id string) zap.Field {
	return zap.String(FieldServerID, id)
}

func OpField(op string) zap.Field {
	return zap.String(FieldOp, op)
}

func DurationField(duration time.Duration) zap.Field {
	return zap.Int64(FieldDurationMs, duration.Milliseconds())
}

func LogSourceField(source string) zap.Field {
	return zap.String(FieldLogSource, source)
}

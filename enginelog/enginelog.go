// Package enginelog provides the structured logging surface used by
// cmd/exec-engine: an explicit, constructed Logger (never a package-level
// global) carrying the process name and level filter the way the
// standalone driver's LogSettings did, backed by zap.
package enginelog

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors the standalone driver's fatal/error/warning/info/debug
// filter, expressed as a zapcore.Level so LogSettings can drive zap's own
// level-enabling logic directly.
type Level = zapcore.Level

const (
	LevelDebug Level = zapcore.DebugLevel
	LevelInfo  Level = zapcore.InfoLevel
	LevelWarn  Level = zapcore.WarnLevel
	LevelError Level = zapcore.ErrorLevel
	LevelFatal Level = zapcore.FatalLevel
)

// ParseLevel accepts the same vocabulary as the driver's --loglevel flag
// ("fatal", "error", "warning", "info", "debug"), defaulting to Info for
// an empty or unrecognized string rather than failing startup over a
// cosmetic flag.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fatal":
		return LevelFatal
	case "error":
		return LevelError
	case "warning", "warn":
		return LevelWarn
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Settings is the explicit, non-global configuration a Logger is built
// from, standing in for the driver's process-wide LogSettings value.
type Settings struct {
	ProcessName string
	Level       Level
}

// Logger wraps a zap.Logger scoped to a process name, with a Details
// helper that mirrors the driver's log_details(level, template,
// properties) call shape for structured per-deploy reporting.
type Logger struct {
	z *zap.Logger
}

// New builds a Logger writing structured, leveled output to stderr. It
// never panics on a bad level string; use ParseLevel first if the level
// comes from user input.
func New(settings Settings) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(settings.Level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.InitialFields = map[string]interface{}{"process": settings.ProcessName}

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{z: z}, nil
}

func (l *Logger) Info(msg string)  { l.z.Info(msg) }
func (l *Logger) Fatal(msg string) { l.z.Error(msg) } // process exit is the caller's call, not the logger's
func (l *Logger) Sync() error      { return l.z.Sync() }

// Details logs a single deploy outcome with its full property set,
// matching the driver's pattern of attaching a pre-state hash, a
// wasm/program path, a gas cost, and a success/error pair to every
// reported deploy.
func (l *Logger) Details(level Level, message string, properties map[string]string) {
	fields := make([]zap.Field, 0, len(properties))
	for k, v := range properties {
		fields = append(fields, zap.String(k, v))
	}
	if ce := l.z.Check(level, message); ce != nil {
		ce.Write(fields...)
	}
}

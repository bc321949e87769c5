package logging

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/andrescamacho/edsm-checker-go/internal/application/common"
	"github.com/andrescamacho/edsm-checker-go/internal/infrastructure/config"
)

// ZapLogger adapts a zap logger to the common.Logger port
type ZapLogger struct {
	logger *zap.Logger
}

var _ common.Logger = (*ZapLogger)(nil)

// NewZapLogger builds a zap logger from the logging configuration
func NewZapLogger(cfg config.LoggingConfig) (*ZapLogger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.Development = false
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.DisableCaller = !cfg.IncludeCaller
	zcfg.Sampling = nil

	switch cfg.Output {
	case "file":
		zcfg.OutputPaths = []string{cfg.FilePath}
	case "stdout":
		zcfg.OutputPaths = []string{"stdout"}
	default:
		zcfg.OutputPaths = []string{"stderr"}
	}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return NewZapLoggerFrom(logger), nil
}

// NewZapLoggerFrom wraps an existing zap logger
func NewZapLoggerFrom(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: logger}
}

// Log writes one entry. Unknown levels are logged at info.
func (l *ZapLogger) Log(level, message string, metadata map[string]interface{}) {
	lvl := toZapLevel(level)
	if ce := l.logger.Check(lvl, message); ce != nil {
		ce.Write(fields(metadata)...)
	}
}

// Zap returns the underlying zap logger
func (l *ZapLogger) Zap() *zap.Logger {
	return l.logger
}

// Sync flushes buffered entries
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

func toZapLevel(level string) zapcore.Level {
	switch level {
	case common.LevelDebug:
		return zapcore.DebugLevel
	case common.LevelWarning:
		return zapcore.WarnLevel
	case common.LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// fields converts metadata to zap fields in key order so output is stable
func fields(metadata map[string]interface{}) []zap.Field {
	if len(metadata) == 0 {
		return nil
	}
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, metadata[k]))
	}
	return out
}

package observability

import (
	"fmt"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/katalvlaran/knitgraph/config"
)

var globalLogger atomic.Pointer[zap.Logger]

// NewLogger builds a zap logger from cfg writing to console, plus a rotating
// JSON file when cfg.LogFile is set. A nil console means stderr.
func NewLogger(cfg config.LoggerConfig, console zapcore.WriteSyncer) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("observability: level %q: %w", cfg.Level, err)
	}
	if console == nil {
		console = zapcore.Lock(os.Stderr)
	}

	cores := []zapcore.Core{zapcore.NewCore(encoder(cfg.Format), console, level)}
	if cfg.LogFile != "" {
		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
		// the file is always JSON
		cores = append(cores, zapcore.NewCore(encoder("json"), file, level))
	}

	options := []zap.Option{zap.AddStacktrace(zap.ErrorLevel)}
	if cfg.AddCaller {
		options = append(options, zap.AddCaller())
	}
	logger := zap.New(zapcore.NewTee(cores...), options...)
	if cfg.ServiceName != "" {
		logger = logger.Named(cfg.ServiceName)
	}

	return logger, nil
}

func encoder(format string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	if format == "console" {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	ec.EncodeLevel = zapcore.CapitalLevelEncoder

	return zapcore.NewJSONEncoder(ec)
}

// InitLogger builds the process logger and stores it for Logger.
func InitLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	l, err := NewLogger(cfg, nil)
	if err != nil {
		return nil, err
	}
	SetLogger(l)

	return l, nil
}

// SetLogger replaces the process logger. nil resets it.
func SetLogger(l *zap.Logger) { globalLogger.Store(l) }

// Logger returns the process logger, or a no-op logger before InitLogger.
func Logger() *zap.Logger {
	if l := globalLogger.Load(); l != nil {
		return l
	}

	return zap.NewNop()
}

// Sync flushes the process logger.
func Sync() error {
	if l := globalLogger.Load(); l != nil {
		return l.Sync()
	}

	return nil
}

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects where log records go.
type Options struct {
	Path  string
	Level string
	// Console receives human readable records when Path is empty. A nil
	// Console with an empty Path yields a no-op logger.
	Console io.Writer
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// New builds a logger. With a Path, records are JSON encoded into a rotated
// file; otherwise they are console encoded to Console.
func New(opts Options) (*zap.Logger, error) {
	var level zapcore.Level
	if opts.Level == "" {
		level = zapcore.InfoLevel
	} else if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", opts.Level, err)
	}

	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    5,
			MaxBackups: 3,
			MaxAge:     30,
		}
		core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(rotator), level)
		return zap.New(core, zap.AddCaller()), nil
	}

	if opts.Console == nil {
		return zap.NewNop(), nil
	}
	cfg := encoderConfig()
	cfg.TimeKey = ""
	cfg.CallerKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(opts.Console), level)
	return zap.New(core), nil
}

// Package logging builds the zap logger used across turknet-query.
//
// Console output goes to stderr so it never mixes with query results on
// stdout. An optional file sink writes JSON lines rotated by lumberjack.
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

// Options controls logger construction.
type Options struct {
	// Verbose lowers the console level from warn to debug.
	Verbose bool

	// File, when non-empty, adds a rotated JSON file sink at debug level.
	File string

	// Console is the console sink. Defaults to os.Stderr.
	Console io.Writer
}

// New builds a logger from opts. The returned logger should be synced
// before the process exits.
func New(opts Options) (*zap.Logger, error) {
	consoleLevel := zapcore.WarnLevel
	if opts.Verbose {
		consoleLevel = zapcore.DebugLevel
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		// Fixed width level formatting for alignment
		enc.AppendString(fmt.Sprintf("%-5s", level.CapitalString()))
	}
	encCfg.EncodeDuration = zapcore.MillisDurationEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(console), consoleLevel),
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.TimeKey = "timestamp"
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		fileCfg.EncodeDuration = zapcore.MillisDurationEncoder

		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     30, // days
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), w, zapcore.DebugLevel))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

// Package logging builds the zap logger shared by the CLI commands.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level maps the CLI verbosity flags to a zap level. Warnings and errors
// are always shown; --verbose adds progress, --debug adds per-trial detail.
func Level(verbose, debug bool) zapcore.Level {
	switch {
	case debug:
		return zapcore.DebugLevel
	case verbose:
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}

// New returns a console logger writing to stderr. Stdout stays reserved
// for command output.
func New(verbose, debug bool) (*zap.Logger, error) {
	encoder := zap.NewDevelopmentEncoderConfig()
	encoder.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoder.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")

	config := zap.Config{
		Level:             zap.NewAtomicLevelAt(Level(verbose, debug)),
		Development:       debug,
		DisableStacktrace: !debug,
		Encoding:          "console",
		EncoderConfig:     encoder,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
	return config.Build()
}

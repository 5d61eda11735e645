// Package logging builds the process logger from config.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Conf struct {
	Level       string `json:"level"`  // debug, info, warn, error; default info
	Format      string `json:"format"` // json, console; default by Development
	Output      string `json:"output"` // stdout, stderr or a file path; default stderr
	Development bool   `json:"development"`
}

// New returns a production (json) or development (console) logger tagged
// with the app name
func New(appName string, c Conf) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if c.Level != "" {
		l, err := zapcore.ParseLevel(c.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		level = l
	}

	var zc zap.Config
	if c.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	switch strings.ToLower(c.Format) {
	case "json", "console":
		zc.Encoding = strings.ToLower(c.Format)
	case "":
	default:
		return nil, fmt.Errorf("invalid log format %q", c.Format)
	}
	if c.Output != "" {
		zc.OutputPaths = []string{c.Output}
	}
	if appName != "" {
		zc.InitialFields = map[string]any{"app": appName}
	}

	logger, err := zc.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

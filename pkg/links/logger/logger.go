// Package logger builds the zap loggers used by the service.
package logger

import (
	"os"
	"path/filepath"

	"github.com/AR-26710/plugin-links/pkg/links/config"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Bootstrap returns a console logger for use before the configuration is
// loaded. DEBUG in the environment lowers the level to debug.
func Bootstrap() *zap.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.InfoLevel
	if os.Getenv("DEBUG") != "" {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stderr), level)
	return zap.New(core, zap.AddCaller())
}

// New builds the service logger from cfg. Production selects JSON output,
// otherwise a human readable console encoding is used. The returned func
// closes the log file and must be called once the logger is done.
func New(cfg config.LogConfig) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "parse log level %q", cfg.Level)
	}

	var encoder zapcore.Encoder
	if cfg.Production {
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	path := "stderr"
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, errors.Wrap(err, "create log dir")
		}
		path = cfg.File
	}
	writer, closeFn, err := zap.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open log output")
	}

	return zap.New(zapcore.NewCore(encoder, writer, level), zap.AddCaller()), closeFn, nil
}

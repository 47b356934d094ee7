package logger

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"Alumni_Network/internal/config"
)

func levelFromString(l string) zapcore.Level {
	switch l {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// rotationPattern turns a plain file name into a dated strftime pattern,
// logs/alumni.log → logs/alumni.%Y%m%d.log, and keeps the plain name as a
// symlink to the current file. Names that already carry a pattern are used
// as is, without a link.
func rotationPattern(file string) (pattern, link string) {
	if strings.Contains(file, "%") {
		return file, ""
	}
	ext := filepath.Ext(file)
	return strings.TrimSuffix(file, ext) + ".%Y%m%d" + ext, file
}

// New builds the process logger. Development mode uses zap's console
// config; otherwise JSON goes to stdout and, if configured, a daily-rotated file.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	lvl := levelFromString(cfg.Level)
	if cfg.Dev {
		c := zap.NewDevelopmentConfig()
		c.Level = zap.NewAtomicLevelAt(lvl)
		return c.Build()
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	sinks := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, err
		}
		pattern, link := rotationPattern(cfg.File)
		opts := []rotatelogs.Option{
			rotatelogs.WithMaxAge(7 * 24 * time.Hour),
			rotatelogs.WithRotationTime(24 * time.Hour),
		}
		if link != "" {
			opts = append(opts, rotatelogs.WithLinkName(link))
		}
		rl, err := rotatelogs.New(pattern, opts...)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, zapcore.AddSync(rl))
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.NewMultiWriteSyncer(sinks...), lvl)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

package logging

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

var (
	level = zap.NewAtomicLevelAt(zap.InfoLevel)
	root  = newRoot()
)

func newRoot() *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	cfg := zap.Config{
		Level:            level,
		Encoding:         "console",
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// SetLevel changes the level of every package logger. Unknown names fall back to info.
func SetLevel(name string) {
	level.SetLevel(parseLevel(name))
}

// GetPackageLogger returns a named logger sharing the process-wide level.
func GetPackageLogger(name string) *zap.SugaredLogger {
	return root.Named(name).Sugar()
}

// Sync flushes buffered log entries.
func Sync() {
	_ = root.Sync()
}

func parseLevel(name string) zapcore.Level {
	switch strings.ToLower(name) {
	case "debug":
		return zap.DebugLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// gormWriter adapts a sugared logger to the Printf writer GORM's logger expects.
type gormWriter struct {
	log *zap.SugaredLogger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Infof(format, args...)
}

// GormLogger builds a GORM logger that writes SQL traces through zap.
func GormLogger(name string) gormlogger.Interface {
	var lvl gormlogger.LogLevel
	switch strings.ToLower(name) {
	case "silent":
		lvl = gormlogger.Silent
	case "error":
		lvl = gormlogger.Error
	case "info":
		lvl = gormlogger.Info
	default:
		lvl = gormlogger.Warn
	}

	return gormlogger.New(gormWriter{log: GetPackageLogger("gorm")}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

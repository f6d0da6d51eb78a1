package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger
var sugar *zap.SugaredLogger

// Init initializes the global logger.
// Environment can be "dev", "uat", or "prod". Logs are written to stderr so
// that stdout carries only rendered output.
func Init(service, env, level string) *zap.Logger {
	var cfg zap.Config

	if env == "dev" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	// Level override
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build(zap.AddCaller())
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	logger = logger.With(zap.String("service", service))

	log = logger
	sugar = logger.Sugar()

	sugar.Debugw("logger initialized",
		"env", env,
		"level", level,
	)
	return logger
}

// L returns the base structured Zap logger.
func L() *zap.Logger {
	if log == nil {
		Init("repurposectl", "dev", "warn")
	}
	return log
}

// S returns the Sugared logger.
func S() *zap.SugaredLogger {
	if sugar == nil {
		Init("repurposectl", "dev", "warn")
	}
	return sugar
}

// Sync flushes any buffered logs (defer this in main()).
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}

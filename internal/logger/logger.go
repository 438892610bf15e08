package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	globalLogger *zap.Logger
	once         sync.Once
)

// Config defines logger configuration
type Config struct {
	Environment string // "development" or "production"
	Level       string // "debug", "info", "warn", "error"
	// File logging (production only)
	Filename   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// DefaultConfig returns the logger configuration for an environment
func DefaultConfig(env string) *Config {
	switch env {
	case "production", "prod":
		return &Config{
			Environment: "production",
			Level:       "info",
			Filename:    "logs/taskman.log",
			MaxSize:     100,
			MaxBackups:  5,
			MaxAge:      30,
			Compress:    true,
		}
	default:
		return &Config{
			Environment: "development",
			Level:       "debug",
		}
	}
}

// Init initializes the global logger. Safe to call more than once; only
// the first call takes effect.
func Init(cfg *Config) error {
	var err error
	once.Do(func() {
		err = initLogger(cfg)
	})
	return err
}

// InitFromEnv initializes the global logger from APP_ENV / LOG_LEVEL.
func InitFromEnv() error {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	cfg := DefaultConfig(env)
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Level = level
	}
	return Init(cfg)
}

func initLogger(cfg *Config) error {
	var logger *zap.Logger
	var err error

	level := parseLogLevel(cfg.Level)
	if cfg.Environment == "production" {
		logger, err = newProductionLogger(cfg, level)
	} else {
		logger, err = newDevelopmentLogger(level)
	}
	if err != nil {
		return err
	}

	globalLogger = logger
	return nil
}

// newProductionLogger writes JSON to a rotated file via lumberjack.
func newProductionLogger(cfg *Config, level zapcore.Level) (*zap.Logger, error) {
	writer := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(writer), level)

	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service", "taskman")),
	), nil
}

// newDevelopmentLogger writes colored console output.
func newDevelopmentLogger(level zapcore.Level) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(level)
	return config.Build()
}

func parseLogLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Get returns the global logger, or a no-op logger if Init was never
// called (keeps library code usable in tests).
func Get() *zap.Logger {
	if globalLogger != nil {
		return globalLogger
	}
	return zap.NewNop()
}

// Named returns a named child of the global logger
func Named(name string) *zap.Logger {
	return Get().Named(name)
}

// Sync flushes any buffered log entries
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

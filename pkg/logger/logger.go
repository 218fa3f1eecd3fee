package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logging interface used across the module.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	With(fields ...Field) Logger
	Named(name string) Logger

	Sync() error
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"BEANS_LOG_LEVEL"`
	Format string `yaml:"format" env:"BEANS_LOG_FORMAT"`
	Output string `yaml:"output" env:"BEANS_LOG_OUTPUT"`
}

// logger implements the Logger interface using zap
type logger struct {
	zap *zap.Logger
}

// noopLogger implements Logger interface but does nothing
type noopLogger struct{}

// NewLogger creates a new logger with the given configuration
func NewLogger(config LoggingConfig) Logger {
	logLevel := zapcore.InfoLevel
	switch strings.ToLower(config.Level) {
	case "debug":
		logLevel = zapcore.DebugLevel
	case "info":
		logLevel = zapcore.InfoLevel
	case "warn", "warning":
		logLevel = zapcore.WarnLevel
	case "error":
		logLevel = zapcore.ErrorLevel
	case "fatal":
		logLevel = zapcore.FatalLevel
	}

	var zapConfig zap.Config
	if strings.ToLower(config.Format) == "console" {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(logLevel)
	if config.Output != "" {
		zapConfig.OutputPaths = []string{config.Output}
	}

	zapLogger, err := zapConfig.Build(zap.AddCallerSkip(1))
	if err != nil {
		zapLogger = zap.NewNop()
	}

	return &logger{zap: zapLogger}
}

// NewDevelopmentLogger creates a console logger for local development.
func NewDevelopmentLogger() Logger {
	zapLogger, err := zap.NewDevelopment(zap.AddCallerSkip(1))
	if err != nil {
		zapLogger = zap.NewNop()
	}
	return &logger{zap: zapLogger}
}

// NewProductionLogger creates a JSON logger for production use.
func NewProductionLogger() Logger {
	zapLogger, err := zap.NewProduction(zap.AddCallerSkip(1))
	if err != nil {
		zapLogger = zap.NewNop()
	}
	return &logger{zap: zapLogger}
}

// NewNoopLogger creates a logger that discards everything.
func NewNoopLogger() Logger {
	return &noopLogger{}
}

func (l *logger) Debug(msg string, fields ...Field) {
	l.zap.Debug(msg, toZapFields(fields)...)
}

func (l *logger) Info(msg string, fields ...Field) {
	l.zap.Info(msg, toZapFields(fields)...)
}

func (l *logger) Warn(msg string, fields ...Field) {
	l.zap.Warn(msg, toZapFields(fields)...)
}

func (l *logger) Error(msg string, fields ...Field) {
	l.zap.Error(msg, toZapFields(fields)...)
}

func (l *logger) Fatal(msg string, fields ...Field) {
	l.zap.Fatal(msg, toZapFields(fields)...)
}

func (l *logger) With(fields ...Field) Logger {
	return &logger{zap: l.zap.With(toZapFields(fields)...)}
}

func (l *logger) Named(name string) Logger {
	return &logger{zap: l.zap.Named(name)}
}

func (l *logger) Sync() error {
	return l.zap.Sync()
}

func (n *noopLogger) Debug(msg string, fields ...Field) {}
func (n *noopLogger) Info(msg string, fields ...Field)  {}
func (n *noopLogger) Warn(msg string, fields ...Field)  {}
func (n *noopLogger) Error(msg string, fields ...Field) {}
func (n *noopLogger) Fatal(msg string, fields ...Field) {}
func (n *noopLogger) With(fields ...Field) Logger       { return n }
func (n *noopLogger) Named(name string) Logger          { return n }
func (n *noopLogger) Sync() error                       { return nil }

func toZapFields(fields []Field) []zap.Field {
	zapFields := make([]zap.Field, len(fields))
	for i, field := range fields {
		zapFields[i] = field.ZapField()
	}
	return zapFields
}

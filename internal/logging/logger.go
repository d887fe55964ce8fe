package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger defines the common structured-logging methods used across the
// pipeline. Implemented by the JSON stdout fallback and the OTLP logger.
type Logger interface {
	WithService(serviceName string) *slog.Logger
	WithComponent(componentName string) *slog.Logger
	WithOperation(operationName string) *slog.Logger
	WithRequestID(requestID string) *slog.Logger
	WithSheet(sheetName string) *slog.Logger
	WithColumn(columnName string) *slog.Logger
	WithError(err error) *slog.Logger
	LogStartup(serviceName string, version string)
	LogShutdown(serviceName string, reason string)
	LogFetchAttempt(strategy string, url string, status int, bytes int)
	LogAnalysisEvent(eventType string, details map[string]interface{})
	LogResourceStats(serviceName string, stats map[string]interface{})
	Logger() *slog.Logger
}

// StandardLogger provides a standardized logging interface.
type StandardLogger struct {
	logger Logger
}

// NewStandardLogger creates a new standardized logger writing JSON to stdout.
func NewStandardLogger(logLevel string) *StandardLogger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: getSlogLevel(logLevel),
	}))
	return &StandardLogger{logger: &fallbackLogger{logger: logger}}
}

// NewStandardOTLPLogger creates a new standardized logger with OTLP support.
// Falls back to the stdout logger if the exporter cannot be created.
func NewStandardOTLPLogger(config OTLPConfig) *StandardLogger {
	otlpLogger, err := NewOTLPLogger(config)
	if err != nil {
		return NewStandardLogger(config.LogLevel)
	}
	return &StandardLogger{logger: &otlpWrapper{logger: otlpLogger}}
}

// SetLogger sets the underlying logger implementation.
func (l *StandardLogger) SetLogger(logger Logger) {
	l.logger = logger
}

// WithService creates a logger with service context.
func (l *StandardLogger) WithService(serviceName string) *slog.Logger {
	return l.logger.WithService(serviceName)
}

// WithComponent creates a logger with component context.
func (l *StandardLogger) WithComponent(componentName string) *slog.Logger {
	return l.logger.WithComponent(componentName)
}

// WithOperation creates a logger with operation context.
func (l *StandardLogger) WithOperation(operationName string) *slog.Logger {
	return l.logger.WithOperation(operationName)
}

// WithRequestID creates a logger with request ID context.
func (l *StandardLogger) WithRequestID(requestID string) *slog.Logger {
	return l.logger.WithRequestID(requestID)
}

// WithSheet creates a logger with sheet context.
func (l *StandardLogger) WithSheet(sheetName string) *slog.Logger {
	return l.logger.WithSheet(sheetName)
}

// WithColumn creates a logger with column context.
func (l *StandardLogger) WithColumn(columnName string) *slog.Logger {
	return l.logger.WithColumn(columnName)
}

// WithError creates a logger with error context.
func (l *StandardLogger) WithError(err error) *slog.Logger {
	return l.logger.WithError(err)
}

// LogStartup logs application startup information.
func (l *StandardLogger) LogStartup(serviceName string, version string) {
	l.logger.LogStartup(serviceName, version)
}

// LogShutdown logs application shutdown information.
func (l *StandardLogger) LogShutdown(serviceName string, reason string) {
	l.logger.LogShutdown(serviceName, reason)
}

// LogFetchAttempt logs one fetch-strategy attempt in a standardized format.
func (l *StandardLogger) LogFetchAttempt(strategy string, url string, status int, bytes int) {
	l.logger.LogFetchAttempt(strategy, url, status, bytes)
}

// LogAnalysisEvent logs pipeline analysis events in a standardized format.
func (l *StandardLogger) LogAnalysisEvent(eventType string, details map[string]interface{}) {
	l.logger.LogAnalysisEvent(eventType, details)
}

// LogResourceStats logs resource statistics in a standardized format.
func (l *StandardLogger) LogResourceStats(serviceName string, stats map[string]interface{}) {
	l.logger.LogResourceStats(serviceName, stats)
}

// Logger returns the underlying *slog.Logger.
func (l *StandardLogger) Logger() *slog.Logger {
	return l.logger.Logger()
}

// getSlogLevel converts string level to slog.Level.
func getSlogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLogrusLevel converts string level to logrus.Level for the
// service-level logrus logger injected into pipeline components.
func ParseLogrusLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// NewServiceLogger builds the logrus logger shared by pipeline components.
func NewServiceLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(ParseLogrusLevel(level))
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger
}

// otlpWrapper wraps OTLPLogger to implement the Logger interface.
type otlpWrapper struct {
	logger *OTLPLogger
}

func (o *otlpWrapper) WithService(serviceName string) *slog.Logger {
	return o.logger.logger.With("service", serviceName)
}

func (o *otlpWrapper) WithComponent(componentName string) *slog.Logger {
	return o.logger.logger.With("component", componentName)
}

func (o *otlpWrapper) WithOperation(operationName string) *slog.Logger {
	return o.logger.logger.With("operation", operationName)
}

func (o *otlpWrapper) WithRequestID(requestID string) *slog.Logger {
	return o.logger.logger.With("request_id", requestID)
}

func (o *otlpWrapper) WithSheet(sheetName string) *slog.Logger {
	return o.logger.logger.With("sheet", sheetName)
}

func (o *otlpWrapper) WithColumn(columnName string) *slog.Logger {
	return o.logger.logger.With("column", columnName)
}

func (o *otlpWrapper) WithError(err error) *slog.Logger {
	return o.logger.logger.With("error", err.Error())
}

func (o *otlpWrapper) LogStartup(serviceName string, version string) {
	o.logger.logger.Info("Application startup",
		"service", serviceName,
		"version", version,
		"event", "startup",
	)
}

func (o *otlpWrapper) LogShutdown(serviceName string, reason string) {
	o.logger.logger.Info("Application shutdown",
		"service", serviceName,
		"reason", reason,
		"event", "shutdown",
	)
}

func (o *otlpWrapper) LogFetchAttempt(strategy string, url string, status int, bytes int) {
	o.logger.logger.Info("Fetch attempt",
		"strategy", strategy,
		"url", url,
		"status", status,
		"bytes", bytes,
		"event", "fetch",
	)
}

func (o *otlpWrapper) LogAnalysisEvent(eventType string, details map[string]interface{}) {
	o.logger.logger.Info("Analysis event",
		"event_type", eventType,
		"details", details,
		"event", "analysis",
	)
}

func (o *otlpWrapper) LogResourceStats(serviceName string, stats map[string]interface{}) {
	o.logger.logger.Info("Resource statistics",
		"service", serviceName,
		"stats", stats,
		"event", "resource",
	)
}

func (o *otlpWrapper) Logger() *slog.Logger {
	return o.logger.logger
}

// fallbackLogger is a simple implementation that uses slog directly.
// Used when OTLP is not configured.
type fallbackLogger struct {
	logger *slog.Logger
}

func (f *fallbackLogger) WithService(serviceName string) *slog.Logger {
	return f.logger.With("service", serviceName)
}

func (f *fallbackLogger) WithComponent(componentName string) *slog.Logger {
	return f.logger.With("component", componentName)
}

func (f *fallbackLogger) WithOperation(operationName string) *slog.Logger {
	return f.logger.With("operation", operationName)
}

func (f *fallbackLogger) WithRequestID(requestID string) *slog.Logger {
	return f.logger.With("request_id", requestID)
}

func (f *fallbackLogger) WithSheet(sheetName string) *slog.Logger {
	return f.logger.With("sheet", sheetName)
}

func (f *fallbackLogger) WithColumn(columnName string) *slog.Logger {
	return f.logger.With("column", columnName)
}

func (f *fallbackLogger) WithError(err error) *slog.Logger {
	return f.logger.With("error", err.Error())
}

func (f *fallbackLogger) LogStartup(serviceName string, version string) {
	f.logger.Info("Application startup",
		"service", serviceName,
		"version", version,
		"event", "startup",
	)
}

func (f *fallbackLogger) LogShutdown(serviceName string, reason string) {
	f.logger.Info("Application shutdown",
		"service", serviceName,
		"reason", reason,
		"event", "shutdown",
	)
}

func (f *fallbackLogger) LogFetchAttempt(strategy string, url string, status int, bytes int) {
	f.logger.Info("Fetch attempt",
		"strategy", strategy,
		"url", url,
		"status", status,
		"bytes", bytes,
		"event", "fetch",
	)
}

func (f *fallbackLogger) LogAnalysisEvent(eventType string, details map[string]interface{}) {
	f.logger.Info("Analysis event",
		"event_type", eventType,
		"details", details,
		"event", "analysis",
	)
}

func (f *fallbackLogger) LogResourceStats(serviceName string, stats map[string]interface{}) {
	f.logger.Info("Resource statistics",
		"service", serviceName,
		"stats", stats,
		"event", "resource",
	)
}

func (f *fallbackLogger) Logger() *slog.Logger {
	return f.logger
}

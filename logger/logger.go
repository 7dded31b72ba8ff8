package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Supported output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
	FormatPretty  = "pretty"
)

// Logger wraps zerolog.Logger with a service name and component scoping.
type Logger struct {
	logger  zerolog.Logger
	service string
}

var (
	globalMu     sync.RWMutex
	globalLogger = NewDefault("voicedoc")
)

// Init configures the global logger.
func Init(cfg Config, serviceName string) {
	l := New(&cfg, serviceName)
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// Get returns the global logger.
func Get() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// New creates a logger writing to the configured output.
func New(cfg *Config, serviceName string) *Logger {
	return NewWithWriter(cfg, serviceName, outputWriter(cfg.Output))
}

// NewWithWriter creates a logger writing to w. Tests use it to capture output.
func NewWithWriter(cfg *Config, serviceName string, w io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	format := strings.ToLower(cfg.Format)
	if format == FormatConsole || format == FormatPretty {
		w = zerolog.ConsoleWriter{Out: w, NoColor: cfg.NoColor, TimeFormat: "15:04:05.000"}
	}

	zc := zerolog.New(w).Level(level).With()
	if serviceName != "" {
		zc = zc.Str("service", serviceName)
	}
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	return &Logger{logger: zc.Logger(), service: serviceName}
}

// NewDefault creates a console logger at info level.
func NewDefault(serviceName string) *Logger {
	cfg := &Config{Level: "info", Format: FormatConsole, Output: "stdout", Timestamp: true}
	return New(cfg, serviceName)
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

// Service returns the service name the logger was created for.
func (l *Logger) Service() string {
	return l.service
}

// WithComponent returns a logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		logger:  l.logger.With().Str(FieldComponent, name).Logger(),
		service: l.service,
	}
}

// WithFields returns a logger with additional fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	zc := l.logger.With()
	for k, v := range fields {
		zc = zc.Interface(k, v)
	}
	return &Logger{logger: zc.Logger(), service: l.service}
}

// WithError returns a logger with an error field.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		logger:  l.logger.With().Err(err).Logger(),
		service: l.service,
	}
}

// Zerolog returns the underlying zerolog.Logger.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.logger
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	write(l.logger.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	write(l.logger.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	write(l.logger.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	write(l.logger.Error(), msg, fields)
}

// Fatal logs and exits the process.
func (l *Logger) Fatal(msg string, fields ...map[string]interface{}) {
	write(l.logger.Fatal(), msg, fields)
}

func write(event *zerolog.Event, msg string, fields []map[string]interface{}) {
	for _, f := range fields {
		for k, v := range f {
			event = event.Interface(k, v)
		}
	}
	event.Msg(msg)
}

func outputWriter(output string) io.Writer {
	if output == "stderr" {
		return os.Stderr
	}
	return os.Stdout
}

// Package-level helpers delegating to the global logger.

func WithComponent(name string) *Logger { return Get().WithComponent(name) }

func Debug(msg string, fields ...map[string]interface{}) { Get().Debug(msg, fields...) }

func Info(msg string, fields ...map[string]interface{}) { Get().Info(msg, fields...) }

func Warn(msg string, fields ...map[string]interface{}) { Get().Warn(msg, fields...) }

func Error(msg string, fields ...map[string]interface{}) { Get().Error(msg, fields...) }

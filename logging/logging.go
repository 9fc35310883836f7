package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	waLog "go.mau.fi/whatsmeow/util/log"
)

// Options configures the per-module log levels. Empty strings and nil
// leave the current value unchanged so the host can update one module
// at a time.
type Options struct {
	Database string `json:"database" yaml:"database"`
	Client   string `json:"client" yaml:"client"`
	Color    *bool  `json:"color" yaml:"color"`
}

type settings struct {
	database string
	client   string
	color    bool
}

var (
	mu      sync.RWMutex
	current = settings{database: "DEBUG", client: "DEBUG", color: true}
)

// SetOptions applies a partial update to the logging configuration.
// Loggers created afterwards pick up the new levels; already-created
// loggers keep theirs, matching the wrapped library's contract of one
// logger per container/client instance.
func SetOptions(opts Options) {
	mu.Lock()
	if opts.Database != "" {
		current.database = opts.Database
	}
	if opts.Client != "" {
		current.client = opts.Client
	}
	if opts.Color != nil {
		current.color = *opts.Color
	}
	mu.Unlock()
}

// Database returns the logger handed to storage containers.
func Database() waLog.Logger {
	mu.RLock()
	s := current
	mu.RUnlock()
	return New("Database", s.database, s.color)
}

// Client returns the logger handed to client instances.
func Client() waLog.Logger {
	mu.RLock()
	s := current
	mu.RUnlock()
	return New("Client", s.client, s.color)
}

// New builds a module logger at the given level. Level "none" disables
// the module entirely; unknown levels fall back to INFO.
func New(module, level string, color bool) waLog.Logger {
	if strings.EqualFold(level, "none") {
		return waLog.Noop
	}
	return &zapLogger{log: Zap(module, level, color).Sugar()}
}

// Zap builds the underlying zap logger for a module. Bridge packages
// use this directly; the wrapped library goes through New.
func Zap(module, level string, color bool) *zap.Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	if color {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(os.Stdout),
		parseLevel(level),
	)
	return zap.New(core).Named(module)
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// zapLogger adapts a zap sugared logger to the wrapped library's
// logging interface.
type zapLogger struct {
	log *zap.SugaredLogger
}

func (l *zapLogger) Errorf(msg string, args ...interface{}) { l.log.Errorf(msg, args...) }
func (l *zapLogger) Warnf(msg string, args ...interface{})  { l.log.Warnf(msg, args...) }
func (l *zapLogger) Infof(msg string, args ...interface{})  { l.log.Infof(msg, args...) }
func (l *zapLogger) Debugf(msg string, args ...interface{}) { l.log.Debugf(msg, args...) }

func (l *zapLogger) Sub(module string) waLog.Logger {
	return &zapLogger{log: l.log.Named(module)}
}

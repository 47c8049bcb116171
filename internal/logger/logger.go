package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"reprasp/internal/config"
)

const filePrefix = "reprasp"

var (
	mu     sync.RWMutex
	base   = zap.NewNop()
	sugar  = base.Sugar()
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	closer func() error
)

// createLogFilePath generates a log file path with the current date
func createLogFilePath(logDir, prefix string) string {
	currentDate := time.Now().Format("2006-01-02")
	return filepath.Join(logDir, fmt.Sprintf("%s-%s.log", prefix, currentDate))
}

// createRotatingLogger creates a lumberjack rotating logger
func createRotatingLogger(logFilePath string, cfg *config.Config) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    cfg.Logger.Rotation.MaxSize,
		MaxBackups: cfg.Logger.Rotation.MaxBackups,
		MaxAge:     cfg.Logger.Rotation.MaxAge,
		Compress:   cfg.Logger.Rotation.Compress,
	}
}

func newEncoder(format string) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if format == "json" {
		return zapcore.NewJSONEncoder(encCfg)
	}
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(encCfg)
}

// ParseLevel accepts zap level names plus the "WARNING" spelling.
func ParseLevel(s string) (zapcore.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	return zapcore.ParseLevel(s)
}

// Setup configures logging to output to both stdout and a rotating log file
func Setup(cfg *config.Config) error {
	lvl, err := ParseLevel(cfg.Logger.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Logger.Level, err)
	}

	logDir := cfg.Logger.Directory
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFilePath := createLogFilePath(logDir, filePrefix)
	rotatingLogger := createRotatingLogger(logFilePath, cfg)

	level.SetLevel(lvl)
	core := zapcore.NewCore(
		newEncoder(cfg.Logger.Format),
		zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout), zapcore.AddSync(rotatingLogger)),
		level,
	)

	replace(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)), rotatingLogger.Close)

	Infof("Logging initialized: writing to %s", logFilePath)
	return nil
}

// UseLogger installs an externally built logger, mainly for tests.
func UseLogger(l *zap.Logger) {
	replace(l.WithOptions(zap.AddCallerSkip(1)), nil)
}

func replace(l *zap.Logger, c func() error) {
	mu.Lock()
	defer mu.Unlock()
	_ = base.Sync()
	if closer != nil {
		_ = closer()
	}
	base = l
	sugar = l.Sugar()
	closer = c
}

// SetLevel changes the level of the running logger.
func SetLevel(s string) error {
	lvl, err := ParseLevel(s)
	if err != nil {
		return err
	}
	if lvl != level.Level() {
		level.SetLevel(lvl)
		Infof("Log level changed to %s", lvl)
	}
	return nil
}

// L returns the structured logger without the helper caller skip.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.WithOptions(zap.AddCallerSkip(-1))
}

// Sync flushes buffered entries and closes the log file.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	_ = base.Sync()
	if closer != nil {
		_ = closer()
		closer = nil
	}
}

func s() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func Debugf(format string, args ...interface{}) { s().Debugf(format, args...) }

func Infof(format string, args ...interface{}) { s().Infof(format, args...) }

func Warningf(format string, args ...interface{}) { s().Warnf(format, args...) }

func Errorf(format string, args ...interface{}) { s().Errorf(format, args...) }

// Fatalf logs and exits the process.
func Fatalf(format string, args ...interface{}) { s().Fatalf(format, args...) }

func Info(args ...interface{}) { s().Info(args...) }

func Warning(args ...interface{}) { s().Warn(args...) }

func Error(args ...interface{}) { s().Error(args...) }

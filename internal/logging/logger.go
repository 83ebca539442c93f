// Package logging provides config-driven categorized logging for folio.
// Logs go to a single rotating file (lumberjack) through a shared zap core,
// one named logger per category. When debug mode is off every logger is a
// no-op, which keeps the terminal UI free of log noise.
package logging

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
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup and shutdown
	CategorySession Category = "session" // Terminal session events
	CategoryStore   Category = "store"   // Resume loading
	CategoryCommand Category = "command" // Command resolution
	CategoryServer  Category = "server"  // HTTP and websocket serving
	CategorySite    Category = "site"    // HTML page generation
	CategoryUI      Category = "ui"      // TUI rendering, scroll controller
	CategoryMCP     Category = "mcp"     // MCP tool server
)

// AllCategories lists every category in display order.
var AllCategories = []Category{
	CategoryBoot, CategorySession, CategoryStore, CategoryCommand,
	CategoryServer, CategorySite, CategoryUI, CategoryMCP,
}

// Options mirrors config.LoggingConfig to avoid an import cycle.
type Options struct {
	DebugMode  bool
	Level      string
	JSONFormat bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	Categories map[string]bool
}

// Logger is a category-scoped printf-style logger.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	mu         sync.RWMutex
	opts       Options
	base       *zap.Logger
	level      = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	loggers    = make(map[Category]*Logger)
	rotateFile *lumberjack.Logger
)

// Initialize configures logging. With DebugMode off it is a silent no-op.
// dir is used when o.File is relative or empty.
func Initialize(o Options, dir string) error {
	if !o.DebugMode {
		install(o, nil, nil)
		return nil
	}

	file := o.File
	if file == "" {
		file = "folio.log"
	}
	if !filepath.IsAbs(file) && dir != "" {
		file = filepath.Join(dir, file)
	}
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	maxSize := o.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	maxBackups := o.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 3
	}
	lj := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    maxSize, // megabytes
		MaxBackups: maxBackups,
		MaxAge:     28, // days
		Compress:   true,
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if o.JSONFormat {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	install(o, zapcore.NewCore(enc, zapcore.AddSync(lj), level), lj)

	boot := Get(CategoryBoot)
	boot.Info("=== folio logging initialized ===")
	boot.Info("Log file: %s", file)
	boot.Info("Log level: %s", level.Level())
	return nil
}

// install swaps the active core. A nil core disables logging.
func install(o Options, core zapcore.Core, lj *lumberjack.Logger) {
	mu.Lock()
	defer mu.Unlock()

	if base != nil {
		_ = base.Sync()
	}
	if rotateFile != nil {
		_ = rotateFile.Close()
	}

	opts = o
	level.SetLevel(parseLevel(o.Level))
	loggers = make(map[Category]*Logger)
	rotateFile = lj
	if core == nil {
		base = nil
		return
	}
	base = zap.New(core)
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
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

// IsDebugMode returns whether debug logging is enabled
func IsDebugMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return opts.DebugMode && base != nil
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()

	if !opts.DebugMode || base == nil {
		return false
	}
	if opts.Categories == nil {
		return true
	}
	enabled, exists := opts.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode is disabled or category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category}
	}

	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	if base == nil {
		return &Logger{category: category}
	}
	l := &Logger{
		category: category,
		sugar:    base.Named(string(category)).Sugar(),
	}
	loggers[category] = l
	return l
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Debugf(format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Errorf(format, args...)
}

// With returns a logger carrying structured key/value context.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	if l.sugar == nil {
		return l
	}
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

// CloseAll flushes and closes the log file (call at shutdown)
func CloseAll() {
	install(Options{}, nil, nil)
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// These are no-ops if the category is disabled
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...interface{}) { Get(CategoryBoot).Info(format, args...) }

// BootDebug logs debug to the boot category
func BootDebug(format string, args ...interface{}) { Get(CategoryBoot).Debug(format, args...) }

// BootError logs an error to the boot category
func BootError(format string, args ...interface{}) { Get(CategoryBoot).Error(format, args...) }

// Session logs to the session category
func Session(format string, args ...interface{}) { Get(CategorySession).Info(format, args...) }

// SessionDebug logs debug to the session category
func SessionDebug(format string, args ...interface{}) { Get(CategorySession).Debug(format, args...) }

// Store logs to the store category
func Store(format string, args ...interface{}) { Get(CategoryStore).Info(format, args...) }

// StoreError logs an error to the store category
func StoreError(format string, args ...interface{}) { Get(CategoryStore).Error(format, args...) }

// CommandDebug logs debug to the command category
func CommandDebug(format string, args ...interface{}) { Get(CategoryCommand).Debug(format, args...) }

// Server logs to the server category
func Server(format string, args ...interface{}) { Get(CategoryServer).Info(format, args...) }

// ServerWarn logs a warning to the server category
func ServerWarn(format string, args ...interface{}) { Get(CategoryServer).Warn(format, args...) }

// ServerError logs an error to the server category
func ServerError(format string, args ...interface{}) { Get(CategoryServer).Error(format, args...) }

// Site logs to the site category
func Site(format string, args ...interface{}) { Get(CategorySite).Info(format, args...) }

// UIDebug logs debug to the ui category
func UIDebug(format string, args ...interface{}) { Get(CategoryUI).Debug(format, args...) }

// MCP logs to the mcp category
func MCP(format string, args ...interface{}) { Get(CategoryMCP).Info(format, args...) }

// =============================================================================
// TIMING HELPERS - For performance logging
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}

package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// LogLevel represents different log levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelSuccess
	LevelError
)

var levelNames = map[LogLevel]string{
	LevelDebug:   "DEBUG",
	LevelInfo:    "INFO",
	LevelWarn:    "WARN",
	LevelError:   "ERROR",
	LevelSuccess: "SUCCESS",
}

var levelColors = map[LogLevel]*color.Color{
	LevelDebug:   color.New(color.FgCyan),
	LevelInfo:    color.New(color.FgGreen),
	LevelWarn:    color.New(color.FgYellow),
	LevelError:   color.New(color.FgRed),
	LevelSuccess: color.New(color.FgGreen, color.Bold),
}

var levelEmojis = map[LogLevel]string{
	LevelDebug:   "🐛",
	LevelInfo:    "ℹ️",
	LevelWarn:    "⚠️",
	LevelError:   "❌",
	LevelSuccess: "✅",
}

var (
	globalMu    sync.RWMutex
	globalLevel = LevelInfo
	globalOut   io.Writer = os.Stdout
)

// SetGlobalLevel sets the minimum level for every package logger, including
// ones created before the call.
func SetGlobalLevel(level LogLevel) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLevel = level
}

// SetGlobalOutput redirects every package logger that has no explicit output.
func SetGlobalOutput(w io.Writer) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalOut = w
}

// Logger is the main logger struct
type Logger struct {
	mu      sync.Mutex
	display string
	out     io.Writer
	flags   int
}

// New creates a new Logger writing to out. A nil out follows the global output.
func New(out io.Writer, display string) *Logger {
	return &Logger{
		display: display,
		out:     out,
		flags:   log.Ltime,
	}
}

// PackageLogger creates a logger tagged with a package display name
func PackageLogger(pkgName string, displayName string) *Logger {
	if displayName == "" {
		displayName = pkgName
	}
	return New(nil, displayName)
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *Logger {
	return New(io.Discard, "")
}

func (l *Logger) writer() io.Writer {
	if l.out != nil {
		return l.out
	}
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalOut
}

func enabled(level LogLevel) bool {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return level >= globalLevel
}

// Log logs a message at a specific level
func (l *Logger) Log(level LogLevel, msg string, args ...interface{}) {
	if !enabled(level) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var pkgDisplay string
	if l.display != "" {
		pkgDisplay = l.display + " "
	}

	formattedMsg := fmt.Sprintf(msg, args...)
	logLine := fmt.Sprintf("%s %s %s%s",
		levelColors[level].Sprint(levelNames[level]),
		levelEmojis[level],
		pkgDisplay,
		formattedMsg)

	log.New(l.writer(), "", l.flags).Println(logLine)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.Log(LevelDebug, msg, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...interface{}) {
	l.Log(LevelInfo, msg, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.Log(LevelWarn, msg, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...interface{}) {
	l.Log(LevelError, msg, args...)
}

// Success logs a success message
func (l *Logger) Success(msg string, args ...interface{}) {
	l.Log(LevelSuccess, msg, args...)
}

// Timed logs the duration of a function execution
func (l *Logger) Timed(label string, fn func() error) error {
	start := time.Now()
	l.Debug("⏳ Starting %s...", label)
	err := fn()
	if err != nil {
		l.Debug("%s failed after %v", label, time.Since(start).Round(time.Millisecond))
		return err
	}
	l.Debug("Completed %s in %v", label, time.Since(start).Round(time.Millisecond))
	return nil
}

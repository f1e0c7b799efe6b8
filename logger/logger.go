package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger writes timestamped lines to a dated log file and, optionally, to a
// mirror writer.
type Logger struct {
	file   *os.File
	mirror io.Writer
	mu     sync.Mutex
	now    func() time.Time
}

// NewLogger creates a new Logger instance
func NewLogger() *Logger {
	return &Logger{now: time.Now}
}

// Init opens slideshow_YYYY-MM-DD_N.log in logDir, where N counts the runs
// of the day.
func (l *Logger) Init(logDir string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	dateStr := l.clock().Format("2006-01-02")
	pattern := filepath.Join(logDir, fmt.Sprintf("slideshow_%s_*.log", dateStr))
	matches, _ := filepath.Glob(pattern)
	runCount := len(matches) + 1
	filename := filepath.Join(logDir, fmt.Sprintf("slideshow_%s_%d.log", dateStr, runCount))

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.file = f
	l.logInternal("Slideshow started")
	return nil
}

// Path returns the current log file name, or "" before Init.
func (l *Logger) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return ""
	}
	return l.file.Name()
}

// SetOutput mirrors every line to w; nil disables mirroring.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mirror = w
}

// Log writes a message to the log file
func (l *Logger) Log(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logInternal(message)
}

// Logf writes a formatted message to the log file
func (l *Logger) Logf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logInternal(fmt.Sprintf(format, args...))
}

func (l *Logger) clock() time.Time {
	if l.now == nil {
		return time.Now()
	}
	return l.now()
}

func (l *Logger) logInternal(message string) {
	if l.file == nil && l.mirror == nil {
		return
	}
	line := fmt.Sprintf("[%s] %s\n", l.clock().Format("15:04:05.000"), message)
	if l.file != nil {
		l.file.WriteString(line)
	}
	if l.mirror != nil {
		io.WriteString(l.mirror, line)
	}
}

// Close closes the log file
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.logInternal("Slideshow stopped")
		l.file.Close()
		l.file = nil
	}
}

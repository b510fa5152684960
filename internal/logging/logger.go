// Package logging writes the run journal under .genesis/logs/genesis.log so
// users can inspect a build after the console session is gone. Components
// get their own tagged view of the shared file via Component, which keeps
// the caller side down to the one-method Printf interface the rest of the
// codebase depends on.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/genesisforge/genesis/internal/config"
)

type sink struct {
	mu   sync.Mutex
	file *os.File
}

// Logger is one component's tagged view of the shared log file.
type Logger struct {
	sink      *sink
	component string
}

// New creates (or reuses) the log file for the current project directory.
func New(projectDir string) (*Logger, error) {
	logDir := filepath.Join(projectDir, config.GenesisDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logDir, "genesis.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return &Logger{sink: &sink{file: f}}, nil
}

// Component returns a logger tagging every line with the given name while
// sharing the underlying file.
func (l *Logger) Component(name string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{sink: l.sink, component: name}
}

// Close releases the shared file handle.
func (l *Logger) Close() error {
	if l == nil || l.sink == nil || l.sink.file == nil {
		return nil
	}
	return l.sink.file.Close()
}

// Printf writes one INFO line.
func (l *Logger) Printf(format string, args ...any) {
	l.write("INFO", format, args...)
}

// Warnf writes one WARN line.
func (l *Logger) Warnf(format string, args ...any) {
	l.write("WARN", format, args...)
}

func (l *Logger) write(level, format string, args ...any) {
	if l == nil || l.sink == nil || l.sink.file == nil {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	tag := ""
	if l.component != "" {
		tag = l.component + ": "
	}
	timestamp := time.Now().Format(time.RFC3339)

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	fmt.Fprintf(l.sink.file, "[%s] %s %s%s\n", timestamp, level, tag, line)
}

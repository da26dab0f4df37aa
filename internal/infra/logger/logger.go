package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var prefixStyles = map[Level]lipgloss.Style{
	LevelDebug: lipgloss.NewStyle().Faint(true),
	LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	LevelFatal: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

var progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

type Logger struct {
	mu            sync.Mutex
	fileLogger    *log.Logger
	closer        io.Closer
	console       io.Writer
	level         Level
	includeStdout bool

	// progressWidth is the length of the replaceable line currently on the console
	progressWidth int
}

// New opens filePath for appending. An empty path disables the file log.
func New(filePath string, level Level, includeStdout bool) (*Logger, error) {
	var out io.Writer = io.Discard
	var closer io.Closer

	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		out, closer = f, f
	}

	l := NewWithWriters(out, os.Stdout, level)
	l.includeStdout = includeStdout
	l.closer = closer
	return l, nil
}

// NewWithWriters builds a logger over arbitrary sinks. A nil console disables
// console output.
func NewWithWriters(file io.Writer, console io.Writer, level Level) *Logger {
	if file == nil {
		file = io.Discard
	}
	return &Logger{
		fileLogger:    log.New(file, "", 0),
		console:       console,
		level:         level,
		includeStdout: console != nil,
	}
}

func (l *Logger) log(lvl Level, prefix string, format string, v ...interface{}) {
	if lvl < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, v...)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.fileLogger.Printf("%s [%s] %s", timestamp, prefix, msg)

	// Debug stays out of the console so it doesn't break progress lines
	if l.includeStdout && lvl >= LevelInfo {
		l.endProgressLocked()
		styled := prefixStyles[lvl].Render("[" + prefix + "]")
		fmt.Fprintf(l.console, "%s %s %s\n", timestamp, styled, msg)
	}
}

// Progress renders a line that the next Progress call overwrites in place.
// The file log only receives it at debug level.
func (l *Logger) Progress(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.level <= LevelDebug {
		l.fileLogger.Printf("%s [PROGRESS] %s", time.Now().Format("2006-01-02 15:04:05"), msg)
	}

	if !l.includeStdout {
		return
	}

	pad := ""
	if n := l.progressWidth - len(msg); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	fmt.Fprintf(l.console, "\r%s%s", progressStyle.Render(msg), pad)
	l.progressWidth = len(msg)
}

// endProgressLocked terminates a pending progress line. Caller holds l.mu.
func (l *Logger) endProgressLocked() {
	if l.progressWidth > 0 {
		fmt.Fprintln(l.console)
		l.progressWidth = 0
	}
}

func ParseLevel(lvl string) Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) Debug(f string, v ...any) { l.log(LevelDebug, "DEBUG", f, v...) }
func (l *Logger) Info(f string, v ...any)  { l.log(LevelInfo, "INFO", f, v...) }
func (l *Logger) Warn(f string, v ...any)  { l.log(LevelWarn, "WARN", f, v...) }
func (l *Logger) Error(f string, v ...any) { l.log(LevelError, "ERROR", f, v...) }
func (l *Logger) Fatal(f string, v ...any) { l.log(LevelFatal, "FATAL", f, v...); os.Exit(1) }

func (l *Logger) Write(p []byte) (n int, err error) {
	// Echo and other libraries often include a newline at the end
	msg := strings.TrimSpace(string(p))
	if msg != "" {
		l.Info("%s", msg)
	}
	return len(p), nil
}

// Close flushes a pending progress line and closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	if l.includeStdout {
		l.endProgressLocked()
	}
	l.mu.Unlock()

	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Service   string `json:"service,omitempty"`
	Category  string `json:"category"`
	Message   string `json:"message"`
	File      string `json:"file,omitempty"`
	Line      int    `json:"line,omitempty"`
}

type Options struct {
	// Dir holds the daily JSON log files. Empty disables file output.
	Dir     string
	Service string
	// Output receives the coloured terminal lines, stdout when nil.
	Output   io.Writer
	MinLevel LogLevel
}

type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	logFile  *os.File
	service  string
	minLevel LogLevel
}

var levelNames = [...]string{DEBUG: "DEBUG", INFO: "INFO", WARN: "WARN", ERROR: "ERROR", FATAL: "FATAL"}

func (lv LogLevel) String() string {
	if lv < DEBUG || lv > FATAL {
		return "INFO"
	}
	return levelNames[lv]
}

// palette colours the level and category of a terminal line.
type palette struct {
	level, category *color.Color
}

var palettes = map[LogLevel]palette{
	DEBUG: {color.New(color.FgCyan), color.New(color.FgCyan, color.Bold)},
	INFO:  {color.New(color.FgGreen), color.New(color.FgGreen, color.Bold)},
	WARN:  {color.New(color.FgYellow), color.New(color.FgYellow, color.Bold)},
	ERROR: {color.New(color.FgRed), color.New(color.FgRed, color.Bold)},
	FATAL: {color.New(color.FgRed, color.Bold), color.New(color.FgRed, color.Bold)},
}

var (
	clockColor  = color.New(color.FgBlue)
	callerColor = color.New(color.FgMagenta)
)

func New(opts Options) *Logger {
	l := &Logger{out: opts.Output, service: opts.Service, minLevel: opts.MinLevel}
	if l.out == nil {
		l.out = os.Stdout
	}
	if opts.Dir == "" {
		return l
	}

	name := opts.Service
	if name == "" {
		name = "service"
	}
	path := filepath.Join(opts.Dir, name+"-"+time.Now().Format("2006-01-02")+".log")
	f, err := openLogFile(path)
	if err != nil {
		l.Warn("LOGGER", "file output disabled: "+err.Error())
		return l
	}
	l.logFile = f
	l.Info("LOGGER", "Log file: "+path)
	return l
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
}

// Nop discards everything. Used by tests.
func Nop() *Logger {
	color.NoColor = true
	return &Logger{out: io.Discard}
}

func (l *Logger) log(level LogLevel, category, message string) {
	if level < l.minLevel {
		return
	}
	entry := LogEntry{
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Level:     level.String(),
		Service:   l.service,
		Category:  strings.ToUpper(category),
		Message:   message,
	}
	if _, file, line, ok := runtime.Caller(2); ok {
		entry.File, entry.Line = filepath.Base(file), line
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.out, entry.terminalLine(level))
	if l.logFile != nil {
		if b, err := json.Marshal(entry); err == nil {
			l.logFile.Write(append(b, '\n'))
		}
	}
}

func (e LogEntry) terminalLine(level LogLevel) string {
	p, ok := palettes[level]
	if !ok {
		p = palettes[INFO]
	}
	var b strings.Builder
	b.WriteString(clockColor.Sprint(e.Timestamp[11:19]))
	b.WriteByte(' ')
	b.WriteString(p.level.Sprintf("%-5s", e.Level))
	b.WriteByte(' ')
	b.WriteString(p.category.Sprintf("[%-10s]", e.Category))
	b.WriteByte(' ')
	b.WriteString(e.Message)
	if e.File != "" {
		b.WriteString(callerColor.Sprintf(" (%s:%d)", e.File, e.Line))
	}
	b.WriteByte('\n')
	return b.String()
}

func (l *Logger) Debug(category, message string) {
	l.log(DEBUG, category, message)
}

func (l *Logger) Info(category, message string) {
	l.log(INFO, category, message)
}

func (l *Logger) Warn(category, message string) {
	l.log(WARN, category, message)
}

func (l *Logger) Error(category, message string) {
	l.log(ERROR, category, message)
}

func (l *Logger) Fatal(category, message string) {
	l.log(FATAL, category, message)
	os.Exit(1)
}

func (l *Logger) LogAPI(method, path, status, duration string) {
	l.log(INFO, "API", fmt.Sprintf("%s %s - %s (%s)", method, path, status, duration))
}

func (l *Logger) LogKafka(action, topic, message string) {
	l.log(INFO, "KAFKA", fmt.Sprintf("[%s] %s - %s", action, topic, message))
}

func (l *Logger) LogDatabase(operation, table, message string) {
	l.log(INFO, "DATABASE", fmt.Sprintf("[%s] %s - %s", operation, table, message))
}

func (l *Logger) LogRating(vendorID, message string) {
	l.log(INFO, "RATING", fmt.Sprintf("[%s] %s", vendorID, message))
}

func (l *Logger) LogSecurity(event, message string) {
	l.log(WARN, "SECURITY", fmt.Sprintf("[%s] %s", event, message))
}

// Close flushes and releases the log file, if any.
func (l *Logger) Close() {
	if l.logFile == nil {
		return
	}
	l.Info("LOGGER", "Closing log file")
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logFile.Close()
	l.logFile = nil
}

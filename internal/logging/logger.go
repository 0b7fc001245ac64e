// Package logging provides the leveled structured logger shared by the
// tuner, its drivers and the command line.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"sync/atomic"
	"time"
)

// Level represents a logging severity.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level. An empty string selects Info.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug, nil
	case "info", "":
		return Info, nil
	case "warn", "warning":
		return Warn, nil
	case "error":
		return Error, nil
	default:
		return Info, fmt.Errorf("unsupported log level %q", s)
	}
}

// Format controls how log entries are rendered.
type Format int

const (
	Text Format = iota
	JSON
)

func (f Format) String() string {
	switch f {
	case Text:
		return "text"
	case JSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat converts a string to a Format. An empty string selects Text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "text", "":
		return Text, nil
	default:
		return Text, fmt.Errorf("unsupported log format %q", s)
	}
}

// Field represents a structured log field.
type Field struct {
	Key   string
	Value any
}

// F is shorthand for a Field literal.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Err wraps an error as the "err" field.
func Err(err error) Field {
	return Field{Key: "err", Value: err}
}

// Logger defines leveled structured logging operations.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

type holder struct{ Logger }

var defaultLogger atomic.Pointer[holder]

// Default returns the process-wide logger. Until SetDefault is called it
// discards everything.
func Default() Logger {
	if h := defaultLogger.Load(); h != nil {
		return h.Logger
	}
	return Discard()
}

// SetDefault replaces the process-wide logger. A nil logger is ignored.
func SetDefault(l Logger) {
	if l != nil {
		defaultLogger.Store(&holder{l})
	}
}

// Discard returns a logger that drops every entry.
func Discard() Logger {
	return New(Error+1, Text, io.Discard)
}

type baseLogger struct {
	level      Level
	format     Format
	fields     []Field
	underlying *log.Logger
}

// New constructs a Logger with the given level, format, and output writer.
func New(level Level, format Format, out io.Writer) Logger {
	return &baseLogger{
		level:      level,
		format:     format,
		underlying: log.New(out, "", log.LstdFlags),
	}
}

func (l *baseLogger) With(fields ...Field) Logger {
	combined := make([]Field, 0, len(l.fields)+len(fields))
	combined = append(combined, l.fields...)
	combined = append(combined, fields...)
	return &baseLogger{
		level:      l.level,
		format:     l.format,
		fields:     combined,
		underlying: l.underlying,
	}
}

func (l *baseLogger) Debug(msg string, fields ...Field) { l.log(Debug, msg, fields) }
func (l *baseLogger) Info(msg string, fields ...Field)  { l.log(Info, msg, fields) }
func (l *baseLogger) Warn(msg string, fields ...Field)  { l.log(Warn, msg, fields) }
func (l *baseLogger) Error(msg string, fields ...Field) { l.log(Error, msg, fields) }

func (l *baseLogger) log(level Level, msg string, fields []Field) {
	if level < l.level {
		return
	}
	all := make([]Field, 0, len(l.fields)+len(fields))
	all = append(append(all, l.fields...), fields...)
	if l.format == JSON {
		l.logJSON(level, msg, all)
		return
	}
	l.logText(level, msg, all)
}

func (l *baseLogger) logText(level Level, msg string, fields []Field) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", level, msg)
	for _, f := range fields {
		if f.Key == "" {
			continue
		}
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	l.underlying.Print(b.String())
}

func (l *baseLogger) logJSON(level Level, msg string, fields []Field) {
	payload := map[string]any{
		"time":  time.Now().Format(time.RFC3339Nano),
		"level": level.String(),
		"msg":   msg,
	}
	for _, f := range fields {
		if f.Key == "" {
			continue
		}
		if err, ok := f.Value.(error); ok {
			payload[f.Key] = err.Error()
			continue
		}
		payload[f.Key] = f.Value
	}
	data, err := json.Marshal(payload)
	if err != nil {
		l.underlying.Printf("[ERROR] marshal log payload failed: %v", err)
		return
	}
	l.underlying.Print(string(data))
}

// Package log provides leveled, key-value structured logging: a message
// followed by alternating key/value pairs, formatted with go-logfmt/logfmt
// so output stays grep-able on a terminal and machine-parseable in a log
// pipeline.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-logfmt/logfmt"
)

// Level orders log severity from most to least verbose.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCrit
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trce"
	case LevelDebug:
		return "dbug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "eror"
	case LevelCrit:
		return "crit"
	default:
		return "unkn"
	}
}

// Logger writes leveled, structured log lines to an underlying writer.
type Logger struct {
	mu     sync.Mutex
	w      io.Writer
	minLvl Level
	ctx    []interface{}
}

// Root is the default Logger, writing to stderr at LevelInfo and above.
var Root = New(os.Stderr, LevelInfo)

// New returns a Logger writing to w, filtering out any record below minLvl.
func New(w io.Writer, minLvl Level) *Logger {
	return &Logger{w: w, minLvl: minLvl}
}

// With returns a child Logger that prepends ctx (alternating key/value
// pairs) to every record it emits, leaving the receiver untouched.
func (l *Logger) With(ctx ...interface{}) *Logger {
	child := &Logger{w: l.w, minLvl: l.minLvl}
	child.ctx = append(append([]interface{}{}, l.ctx...), ctx...)
	return child
}

func (l *Logger) log(lvl Level, msg string, ctx []interface{}) {
	if lvl < l.minLvl {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	enc := logfmt.NewEncoder(l.w)
	_ = enc.EncodeKeyval("t", time.Now().UTC().Format(time.RFC3339Nano))
	_ = enc.EncodeKeyval("lvl", lvl.String())
	_ = enc.EncodeKeyval("msg", msg)

	all := append(append([]interface{}{}, l.ctx...), ctx...)
	for i := 0; i+1 < len(all); i += 2 {
		_ = enc.EncodeKeyval(all[i], all[i+1])
	}
	_ = enc.EndRecord()

	if lvl == LevelCrit {
		os.Exit(1)
	}
}

func (l *Logger) Trace(msg string, ctx ...interface{}) { l.log(LevelTrace, msg, ctx) }
func (l *Logger) Debug(msg string, ctx ...interface{}) { l.log(LevelDebug, msg, ctx) }
func (l *Logger) Info(msg string, ctx ...interface{})  { l.log(LevelInfo, msg, ctx) }
func (l *Logger) Warn(msg string, ctx ...interface{})  { l.log(LevelWarn, msg, ctx) }
func (l *Logger) Error(msg string, ctx ...interface{}) { l.log(LevelError, msg, ctx) }

// Crit logs at the highest level and terminates the process; use it only
// for unrecoverable startup failures.
func (l *Logger) Crit(msg string, ctx ...interface{}) { l.log(LevelCrit, msg, ctx) }

func Trace(msg string, ctx ...interface{}) { Root.Trace(msg, ctx...) }
func Debug(msg string, ctx ...interface{}) { Root.Debug(msg, ctx...) }
func Info(msg string, ctx ...interface{})  { Root.Info(msg, ctx...) }
func Warn(msg string, ctx ...interface{})  { Root.Warn(msg, ctx...) }
func Error(msg string, ctx ...interface{}) { Root.Error(msg, ctx...) }
func Crit(msg string, ctx ...interface{})  { Root.Crit(msg, ctx...) }

// SetLevel adjusts the minimum level Root emits.
func SetLevel(lvl Level) { Root.minLvl = lvl }

// ParseLevel maps a CLI-facing level name to a Level.
func ParseLevel(name string) (Level, error) {
	switch name {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "crit":
		return LevelCrit, nil
	default:
		return 0, fmt.Errorf("log: unknown level %q", name)
	}
}

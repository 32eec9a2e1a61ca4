// Package logx is a small tag-scoped, levelled logger that works the same on
// TinyGo firmware and host builds. Lines look like
//
//	I (1234) AUDIO_BOARD: Initializing the board
//
// where the letter is the level and the number is milliseconds since the
// process started.
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level represents log levels.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

func (l Level) letter() byte {
	switch l {
	case LevelDebug:
		return 'D'
	case LevelInfo:
		return 'I'
	case LevelWarn:
		return 'W'
	default:
		return 'E'
	}
}

// ParseLevel accepts DEBUG/INFO/WARN/ERROR/NONE in any case.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, true
	case "INFO", "":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	case "NONE":
		return LevelNone, true
	}
	return LevelInfo, false
}

var (
	level atomic.Int32
	start = time.Now()

	mu     sync.Mutex
	output io.Writer = os.Stdout
)

func init() { level.Store(int32(LevelInfo)) }

// SetOutput redirects all loggers. Firmware points this at the console UART.
func SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	mu.Lock()
	output = w
	mu.Unlock()
}

// SetLevel sets the minimum level for all loggers.
func SetLevel(l Level) { level.Store(int32(l)) }

// GetLevel returns the current minimum level.
func GetLevel() Level { return Level(level.Load()) }

// Enabled reports whether l would be written.
func Enabled(l Level) bool { return l >= GetLevel() && l < LevelNone }

// Logger writes lines prefixed with its tag.
type Logger struct {
	tag string
}

// New returns a logger for tag.
func New(tag string) *Logger { return &Logger{tag: tag} }

// Tag returns the logger's tag.
func (l *Logger) Tag() string { return l.tag }

func (l *Logger) Debugf(format string, a ...any) { l.logf(LevelDebug, format, a...) }
func (l *Logger) Infof(format string, a ...any)  { l.logf(LevelInfo, format, a...) }
func (l *Logger) Warnf(format string, a ...any)  { l.logf(LevelWarn, format, a...) }
func (l *Logger) Errorf(format string, a ...any) { l.logf(LevelError, format, a...) }

func (l *Logger) logf(lv Level, format string, a ...any) {
	if !Enabled(lv) {
		return
	}
	ms := time.Since(start).Milliseconds()
	msg := fmt.Sprintf(format, a...)
	mu.Lock()
	fmt.Fprintf(output, "%c (%d) %s: %s\n", lv.letter(), ms, l.tag, msg)
	mu.Unlock()
}

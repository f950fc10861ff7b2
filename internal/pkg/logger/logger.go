package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/ports"
)

type level int

const (
	levelOff level = iota
	levelError
	levelWarn
	levelInfo
	levelDebug
	levelTrace
)

func parseLevel(l domain.DebugLevel) level {
	switch l {
	case domain.DebugOff:
		return levelOff
	case domain.DebugError:
		return levelError
	case domain.DebugInfo:
		return levelInfo
	case domain.DebugDebug:
		return levelDebug
	case domain.DebugTrace:
		return levelTrace
	default:
		return levelWarn
	}
}

var tags = map[level]string{
	levelError: color.New(color.FgRed, color.Bold).Sprint("[error]"),
	levelWarn:  color.New(color.FgYellow).Sprint("[warn]"),
	levelInfo:  color.New(color.FgGreen).Sprint("[info]"),
	levelDebug: color.New(color.FgCyan).Sprint("[debug]"),
	levelTrace: color.New(color.FgMagenta).Sprint("[trace]"),
}

// Logger writes leveled, colored lines to a writer (stderr by default).
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	level level
}

// New creates a Logger writing to w at the given threshold.
func New(w io.Writer, threshold domain.DebugLevel) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{out: w, level: parseLevel(threshold)}
}

// NewNop discards everything.
func NewNop() *Logger {
	return New(io.Discard, domain.DebugOff)
}

func (l *Logger) Trace(msg string, fields map[string]interface{}) {
	l.log(levelTrace, msg, nil, fields)
}

func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.log(levelDebug, msg, nil, fields)
}

func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.log(levelInfo, msg, nil, fields)
}

func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.log(levelWarn, msg, nil, fields)
}

func (l *Logger) Error(msg string, err error, fields map[string]interface{}) {
	l.log(levelError, msg, err, fields)
}

func (l *Logger) log(lv level, msg string, err error, fields map[string]interface{}) {
	if lv > l.level || l.level == levelOff {
		return
	}
	var b strings.Builder
	b.WriteString(tags[lv])
	b.WriteByte(' ')
	b.WriteString(msg)
	if err != nil {
		fmt.Fprintf(&b, ": %v", err)
	}
	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, fields[k])
		}
	}
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, b.String())
}

var _ ports.Logger = (*Logger)(nil)

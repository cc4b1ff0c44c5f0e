// Package logger writes operator-facing diagnostics. Output is discarded
// until a writer is set.
package logger

import (
	"fmt"
	"io"
	"log"
)

// Logger is a prefixed line logger with an optional hook that sees every
// formatted message.
type Logger struct {
	out    *log.Logger
	prefix string
	hook   func(msg string)
}

// New creates a Logger that discards its output.
func New() *Logger {
	return NewWithWriter(io.Discard)
}

// NewWithWriter creates a Logger writing to w.
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{
		out: log.New(w, "", log.LstdFlags),
	}
}

// With returns a Logger sharing this one's output, with name appended to
// the prefix.
func (l *Logger) With(name string) *Logger {
	child := &Logger{out: l.out, hook: l.hook}
	child.prefix = l.prefix + name + ": "
	return child
}

// SetOutput changes where log lines are written.
func (l *Logger) SetOutput(w io.Writer) {
	l.out.SetOutput(w)
}

// SetHook registers fn to receive each message after formatting.
func (l *Logger) SetHook(fn func(msg string)) {
	l.hook = fn
}

// Log formats and writes one line. A nil Logger is a no-op.
func (l *Logger) Log(format string, a ...any) {
	if l == nil {
		return
	}
	msg := l.prefix + fmt.Sprintf(format, a...)
	if l.hook != nil {
		l.hook(msg)
	}
	l.out.Println(msg)
}

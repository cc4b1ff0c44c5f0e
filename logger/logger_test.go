package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_DiscardsByDefault(t *testing.T) {
	var got []string
	l := New()
	l.SetHook(func(msg string) { got = append(got, msg) })

	l.Log("hello %d", 1)
	assert.Equal(t, []string{"hello 1"}, got)
}

func TestLogger_WritesWithPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf).With("api").With("books")

	l.Log("failed to %s: %v", "fetch books", "boom")
	assert.Contains(t, buf.String(), "api: books: failed to fetch books: boom\n")
}

func TestLogger_SetOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.Log("lost")
	l.SetOutput(&buf)
	l.Log("kept")

	assert.NotContains(t, buf.String(), "lost")
	assert.Contains(t, buf.String(), "kept")
}

func TestLogger_NilIsNoop(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Log("nothing") })
}

package telemetry

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	clog "github.com/charmbracelet/log"
)

// Logger writes structured JSON event lines. A nil *Logger is valid and
// drops everything.
type Logger struct {
	l *clog.Logger
	w io.WriteCloser
}

func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return NewWriterLogger(io.Discard), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	lg := NewWriterLogger(f)
	lg.w = f
	return lg, nil
}

// NewWriterLogger logs to w without taking ownership of it.
func NewWriterLogger(w io.Writer) *Logger {
	l := clog.NewWithOptions(w, clog.Options{
		Formatter:       clog.JSONFormatter,
		ReportTimestamp: true,
		Level:           clog.DebugLevel,
	})
	return &Logger{l: l, w: nopCloser{Writer: w}}
}

// With returns a logger that adds fields to every entry.
func (lg *Logger) With(fields map[string]any) *Logger {
	if lg == nil || lg.l == nil {
		return lg
	}
	return &Logger{l: lg.l.With(keyvals(fields)...), w: nopCloser{Writer: io.Discard}}
}

func (lg *Logger) Info(msg string, fields map[string]any) {
	if lg == nil || lg.l == nil {
		return
	}
	lg.l.Info(msg, keyvals(fields)...)
}

func (lg *Logger) Error(msg string, fields map[string]any) {
	if lg == nil || lg.l == nil {
		return
	}
	lg.l.Error(msg, keyvals(fields)...)
}

func (lg *Logger) Close() error {
	if lg == nil || lg.w == nil {
		return nil
	}
	return lg.w.Close()
}

// keyvals flattens fields in key order so output is stable.
func keyvals(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		out = append(out, k, fields[k])
	}
	return out
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// Package log provides context-aware logging for wt.
package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
)

type ctxKey struct{}

// Logger writes diagnostics to stderr and optionally mirrors debug
// records into a rotating trace file.
type Logger struct {
	out     io.Writer
	verbose bool
	quiet   bool
	trace   *zap.Logger
}

// New creates a new logger. Quiet suppresses everything, including verbose output.
func New(out io.Writer, verbose, quiet bool) *Logger {
	return &Logger{out: out, verbose: verbose, quiet: quiet}
}

// WithTrace returns a copy of the logger that also records Debug and
// Command events to z.
func (l *Logger) WithTrace(z *zap.Logger) *Logger {
	c := *l
	c.trace = z
	return &c
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a no-op logger if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return &Logger{out: io.Discard}
}

// Printf writes formatted output.
func (l *Logger) Printf(format string, args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, format, args...)
}

// Println writes a line of output.
func (l *Logger) Println(args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintln(l.out, args...)
}

// Warnf writes a warning line. Warnings are suppressed by quiet like all other output.
func (l *Logger) Warnf(format string, args ...any) {
	if l.trace != nil {
		l.trace.Warn(fmt.Sprintf(format, args...))
	}
	l.Printf("Warning: "+format+"\n", args...)
}

// Command logs an external command execution and returns a function
// that records its duration once it finishes.
// Only prints when verbose mode is enabled.
func (l *Logger) Command(dir, name string, args ...string) func(time.Duration) {
	line := name
	if len(args) > 0 {
		line += " " + strings.Join(args, " ")
	}
	return func(d time.Duration) {
		if l.trace != nil {
			l.trace.Debug("exec", zap.String("dir", dir), zap.String("cmd", line), zap.Duration("took", d))
		}
		if !l.IsVerbose() {
			return
		}
		if dir != "" {
			fmt.Fprintf(l.out, "[%s] $ %s (%s)\n", dir, line, d.Round(time.Millisecond))
			return
		}
		fmt.Fprintf(l.out, "$ %s (%s)\n", line, d.Round(time.Millisecond))
	}
}

// Debug prints a message followed by key=value pairs in verbose mode.
// A trailing key without a value is dropped.
func (l *Logger) Debug(msg string, keyvals ...any) {
	if l.trace != nil {
		fields := make([]zap.Field, 0, len(keyvals)/2)
		for i := 0; i+1 < len(keyvals); i += 2 {
			fields = append(fields, zap.Any(fmt.Sprint(keyvals[i]), keyvals[i+1]))
		}
		l.trace.Debug(msg, fields...)
	}
	if !l.IsVerbose() {
		return
	}

	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}
	fmt.Fprintln(l.out, b.String())
}

// IsVerbose returns true if verbose mode is enabled and not silenced by quiet.
func (l *Logger) IsVerbose() bool {
	return l.verbose && !l.quiet
}

// Writer returns the underlying writer.
func (l *Logger) Writer() io.Writer {
	return l.out
}

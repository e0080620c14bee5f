package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	slogmulti "github.com/samber/slog-multi"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request_id"
)

// basic global logger, JSON to stdout until SetLogger replaces it.
var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
}

func Logger() *slog.Logger {
	return logger.Load()
}

// SetLogger swaps the process logger. Loggers already derived from the old one keep it.
func SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	logger.Store(l)
}

// WithFields returns a logger with additional fields.
func WithFields(kv ...any) *slog.Logger {
	return Logger().With(kv...)
}

// WithRequestID stores a request_id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	reqID, _ := ctx.Value(ctxKeyRequestID).(string)
	return reqID
}

// LoggerFromContext adds request_id if present.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	reqID := RequestIDFromContext(ctx)
	if reqID == "" {
		return Logger()
	}
	return Logger().With("request_id", reqID)
}

// LogOptions controls where NewLogger writes.
type LogOptions struct {
	Level slog.Level
	// Console receives JSON lines; nil means os.Stdout.
	Console io.Writer
	// File, when set, adds a rotating JSON file sink.
	File string
}

// NewLogger builds a JSON logger on the console, fanned out to a rotating file when
// opts.File is set. The returned func closes the file sink.
func NewLogger(opts LogOptions) (*slog.Logger, func() error) {
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	consoleHandler := slog.NewJSONHandler(console, handlerOpts)

	if opts.File == "" {
		return slog.New(consoleHandler), func() error { return nil }
	}

	rotating := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	fileHandler := slog.NewJSONHandler(rotating, handlerOpts)

	return slog.New(slogmulti.Fanout(consoleHandler, fileHandler)), rotating.Close
}

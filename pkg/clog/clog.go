package clog

import (
	"io"
	"sync"

	"github.com/apex/log"
)

// ContextLogger routes log entries by context name. Builds register their own
// context so a run can be traced through the interleaved output, and can be
// pointed at a separate writer. Contexts without a registered logger fall back
// to the global logger.
type ContextLogger struct {
	GlobalLogger   *log.Logger
	ContextLoggers sync.Map
}

const GlobalLoggerCtx = "global"

func NewContextLogger(globalLoggerWriter io.WriteCloser) *ContextLogger {
	return &ContextLogger{
		GlobalLogger: &log.Logger{
			Handler: NewHandler(globalLoggerWriter),
			Level:   log.InfoLevel,
		},
	}
}

// AddLoggingContext registers ctx with its own writer. The new logger starts at
// the global logger's level.
func (l *ContextLogger) AddLoggingContext(ctx string, w io.WriteCloser) {
	logger := &log.Logger{
		Handler: NewHandler(w),
		Level:   l.GlobalLogger.Level,
	}
	l.ContextLoggers.Store(ctx, logger)
}

// RemoveLoggingContext drops ctx and closes its writer unless it is stdout or
// stderr.
func (l *ContextLogger) RemoveLoggingContext(ctx string) {
	logger, ok := l.ContextLoggers.LoadAndDelete(ctx)
	if !ok {
		return
	}

	if h := handlerOf(logger); h != nil {
		h.Close()
	}
}

func (l *ContextLogger) SetLevel(ctx string, level log.Level) {
	if ctx == GlobalLoggerCtx {
		l.GlobalLogger.Level = level
		return
	}

	if logger := l.contextLogger(ctx); logger != nil {
		logger.Level = level
	}
}

func (l *ContextLogger) SetLevelFromString(ctx, s string) error {
	level, err := log.ParseLevel(s)
	if err != nil {
		return err
	}

	l.SetLevel(ctx, level)
	return nil
}

func (l *ContextLogger) SetGlobalOutput(w io.WriteCloser) {
	if h, ok := l.GlobalLogger.Handler.(*Handler); ok {
		h.SetOutput(w)
	}
}

// UsingCtx returns an entry tagged with ctx, logging through the context's
// own logger when one is registered.
func (l *ContextLogger) UsingCtx(ctx string) *log.Entry {
	if logger := l.contextLogger(ctx); logger != nil {
		return logger.WithField("ctx", ctx)
	}

	return l.GlobalLogger.WithField("ctx", ctx)
}

func (l *ContextLogger) Global() *log.Entry {
	return l.UsingCtx(GlobalLoggerCtx)
}

func (l *ContextLogger) contextLogger(ctx string) *log.Logger {
	logger, ok := l.ContextLoggers.Load(ctx)
	if !ok {
		return nil
	}

	clogger, _ := logger.(*log.Logger)
	return clogger
}

func handlerOf(logger interface{}) *Handler {
	clogger, ok := logger.(*log.Logger)
	if !ok {
		return nil
	}

	h, _ := clogger.Handler.(*Handler)
	return h
}

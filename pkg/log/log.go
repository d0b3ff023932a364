package log

import (
	"context"
	"io"
	stdlog "log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// GetLogger returns a stdr.Logger writing to stderr that implements the
// logr.Logger interface and sets the verbosity of the returned logger.
// set v to 0 for info level messages,
// 1 for debug messages (table sizing and mapping statistics)
// and 2 for trace level message.
// any other verbosity level will default to 0.
func GetLogger(v int) logr.Logger {
	return NewLogger(os.Stderr, v)
}

// NewLogger is GetLogger writing to w.
func NewLogger(w io.Writer, v int) logr.Logger {
	logger := stdr.New(stdlog.New(w, "", stdlog.LstdFlags)).WithName("lutcuckoo")
	// bound check
	if v > 2 || v < 0 {
		v = 0
		logger.Info("Invalid verbosity, setting logger to display info level messages only.")
	}
	stdr.SetVerbosity(v)

	return logger
}

// ContextWithLogger returns a context that has a logr.Logger contained inside,
// which is then used by the Finalize methods of the hashing tables.
// Tables finalized without one log nothing.
func ContextWithLogger(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

// GetLoggerFromContextWithName returns the logr.Logger carried by ctx, named name.
// Without one, it returns a logger that discards everything and leaves the
// global stdr verbosity untouched.
func GetLoggerFromContextWithName(ctx context.Context, name string) logr.Logger {
	logger, err := logr.FromContext(ctx)
	if err != nil {
		return logr.Discard()
	}

	if name != "" {
		return logger.WithName(name)
	}
	return logger
}

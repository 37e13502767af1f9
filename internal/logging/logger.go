// Package logging holds the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the shared logger. Components receive it as a logrus.FieldLogger.
var Logger = logrus.New()

type Options struct {
	Level string
	// File, when set, sends output to a rotating log file.
	File string
	// Quiet discards output when no file is set. The terminal board uses it
	// so log lines never land on top of the UI.
	Quiet bool
}

// Init configures Logger. It returns a closer for the log file, if any.
func Init(opts Options) (io.Closer, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	Logger.SetLevel(level)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		Logger.SetOutput(rotating)
		return rotating, nil
	case opts.Quiet:
		Logger.SetOutput(io.Discard)
	default:
		Logger.SetOutput(os.Stderr)
	}
	return io.NopCloser(nil), nil
}

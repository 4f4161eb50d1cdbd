// Package logger builds zerolog loggers for the adapter.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const permission = 0o664

// Builder accumulates logger configuration.
type Builder struct {
	writer io.Writer
	path   string
}

// Log is a built logger plus the file handle backing it, when one was
// opened.
type Log struct {
	Logger  zerolog.Logger
	LogFile *os.File
}

func New() *Builder {
	return &Builder{}
}

// FromPath appends log output to the file at path.
func (build *Builder) FromPath(path string) *Builder {
	build.path = path
	return build
}

// FromWriter sends log output to w.
func (build *Builder) FromWriter(w io.Writer) *Builder {
	build.writer = w
	return build
}

// Make builds the logger. Without a path or writer, output goes to stderr.
func (build *Builder) Make() (*Log, error) {
	log := new(Log)
	writer := build.writer
	if writer == nil {
		writer = os.Stderr
	}
	if build.path != "" {
		file, err := os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		log.LogFile = file
		writer = zerolog.SyncWriter(file)
	}
	log.Logger = zerolog.New(writer).With().Timestamp().Logger()
	return log, nil
}

// Close releases the log file, if Make opened one.
func (log *Log) Close() error {
	if log.LogFile == nil {
		return nil
	}
	return log.LogFile.Close()
}

package lib

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// NewLogger builds the logger described by cfg: human readable on stderr, or
// JSON lines appended to cfg.LogFile. The returned closer releases the file.
func NewLogger(cfg Config) (zerolog.Logger, io.Closer, error) {
	level, err := cfg.Level()
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	if cfg.LogFile == "" {
		return newZerolog(zerolog.ConsoleWriter{Out: os.Stderr}, level), nopCloser{}, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}
	return newZerolog(f, level), f, nil
}

func newZerolog(writer io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

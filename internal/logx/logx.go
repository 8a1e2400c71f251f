// Package logx initializes the global zerolog logger.
package logx

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment selects the log output format.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// Opts configures Init.
type Opts struct {
	Environment Environment
	// Verbose forces debug level regardless of environment.
	Verbose bool
}

// Init configures the global logger. Development gets a console writer at
// debug level; production gets JSON at info level.
func Init(opts Opts) {
	if opts.Environment == Production {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	} else {
		log.Logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	}
	if opts.Verbose {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	}
}

// Debug starts a debug event on the global logger.
func Debug() *zerolog.Event {
	return log.Debug()
}

// Info starts an info event on the global logger.
func Info() *zerolog.Event {
	return log.Info()
}

// Warn starts a warn event on the global logger.
func Warn() *zerolog.Event {
	return log.Warn()
}

// Error starts an error event on the global logger.
func Error() *zerolog.Event {
	return log.Error()
}

// Fatal starts a fatal event on the global logger.
func Fatal() *zerolog.Event {
	return log.Fatal()
}

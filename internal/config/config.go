// Package config handles the configuration of the tools.
package config

import (
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger. Debug mode wins over quiet mode, quiet
// mode reduces the output to errors.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

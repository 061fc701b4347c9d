// Package logging provides Todozi's structured logging: a zap logger for
// the CLI/orchestrator boundary, plus a categorized, file-based audit trail
// under $HOME/.todozi/history for events worth replaying later.
package logging

import (
	"go.uber.org/zap"
)

var global *zap.Logger = zap.NewNop()

// Init installs the process-wide zap logger. Call once from the CLI
// entrypoint's PersistentPreRunE; tests may leave the default no-op logger
// in place.
func Init(debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	global = l
	return l, nil
}

// Get returns the process-wide logger (a no-op logger before Init is
// called, so library code never needs a nil check).
func Get() *zap.Logger { return global }

// Sync flushes any buffered log entries; call from PersistentPostRun.
func Sync() {
	_ = global.Sync()
}

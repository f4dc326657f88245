// Package archivelog wires structured logging for every component, grounded
// on the zap setup used across the example pack's production services.
package archivelog

import "go.uber.org/zap"

// New builds the process logger. production selects zap's JSON production
// encoder; otherwise the human-friendly development encoder is used.
func New(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// Noop returns a logger that discards everything, for tests that don't want
// log output.
func Noop() *zap.Logger {
	return zap.NewNop()
}

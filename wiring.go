//////////////////////////////////////////////////////////////////////////////
//
// Wiring (C8): adapts internal/logging.Logger onto pion/logging's
// LeveredLogger/LoggerFactory interfaces, so every pion engine (ice, dtls,
// sctp) logs through the same tagged logger the rest of the module uses.
//
//////////////////////////////////////////////////////////////////////////////

package peerlink

import (
	pionlog "github.com/pion/logging"

	"github.com/tidalrtc/peerlink/internal/logging"
)

// pionLogAdapter wraps one tagged *logging.Logger as a pion/logging.LeveredLogger.
type pionLogAdapter struct {
	log *logging.Logger
}

func (a pionLogAdapter) Trace(msg string)                  { a.log.Trace(int(logging.MaxLevel), "%s", msg) }
func (a pionLogAdapter) Tracef(format string, args ...any)  { a.log.Trace(int(logging.MaxLevel), format, args...) }
func (a pionLogAdapter) Debug(msg string)                   { a.log.Debug("%s", msg) }
func (a pionLogAdapter) Debugf(format string, args ...any)  { a.log.Debug(format, args...) }
func (a pionLogAdapter) Info(msg string)                    { a.log.Info("%s", msg) }
func (a pionLogAdapter) Infof(format string, args ...any)   { a.log.Info(format, args...) }
func (a pionLogAdapter) Warn(msg string)                    { a.log.Warn("%s", msg) }
func (a pionLogAdapter) Warnf(format string, args ...any)   { a.log.Warn(format, args...) }
func (a pionLogAdapter) Error(msg string)                   { a.log.Error("%s", msg) }
func (a pionLogAdapter) Errorf(format string, args ...any)  { a.log.Error(format, args...) }

// pionLoggerFactory hands every pion engine a child logger tagged with the
// engine's own scope name, mirroring the teacher's WithTag convention.
type pionLoggerFactory struct {
	log *logging.Logger
}

func newPionLoggerFactory(log *logging.Logger) pionlog.LoggerFactory {
	return pionLoggerFactory{log: log}
}

func (f pionLoggerFactory) NewLogger(scope string) pionlog.LeveredLogger {
	return pionLogAdapter{log: f.log.WithTag(scope)}
}

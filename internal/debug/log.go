package debug

import (
	"fmt"
	"log"
	"sync"
)

// Logger is the verbose logger used for request/response detail that is too
// noisy for normal operation.
//
//	logger := debug.GetLogger()
//	logger.Debugf("GET %s -> %d", url, status)
type Logger interface {
	Debugf(format string, args ...any)
	Debug(args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Debug(...any)          {}

// stdLogger writes through the standard logger with a [DEBUG] prefix.
type stdLogger struct{}

func (stdLogger) Debugf(format string, args ...any) {
	log.Printf("[DEBUG] "+format, args...)
}

func (stdLogger) Debug(args ...any) {
	log.Printf("[DEBUG] %v", fmt.Sprint(args...))
}

var (
	l    Logger = nopLogger{}
	once sync.Once
)

// GetLogger returns the configured debug logger.
// Call it at the point of use rather than caching the result before InitLogger runs.
func GetLogger() Logger {
	return l
}

// InitLogger installs the [DEBUG] logger if Active.Enabled is set.
// Calls made while disabled change nothing, so a later Init(true) followed by
// InitLogger still takes effect. Only the first enabled call installs it.
func InitLogger() {
	if !Active.Enabled {
		return
	}
	once.Do(func() {
		l = stdLogger{}
		l.Debug("Debug logging enabled")
	})
}

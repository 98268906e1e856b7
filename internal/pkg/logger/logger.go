// Package logger provides the ports.Logger backends: a plain stderr logger
// and an opt-in zap adapter.
package logger

import (
	"log"
)

// StdLogger writes leveled lines through the standard log package. Debug and
// Info are gated behind verbose; warnings and errors always print.
type StdLogger struct {
	verbose bool
}

// NewStd creates a StdLogger.
func NewStd(verbose bool) *StdLogger {
	return &StdLogger{verbose: verbose}
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	if l.verbose {
		log.Println("[DEBUG]", msg, fields)
	}
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	if l.verbose {
		log.Println("[INFO]", msg, fields)
	}
}

func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	log.Println("[WARN]", msg, fields)
}

func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	log.Println("[ERROR]", msg, err, fields)
}

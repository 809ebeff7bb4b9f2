package losapi

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the minimal leveled logging interface used for debug output.
// keysAndValues are alternating key/value pairs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// SimpleLogger writes leveled key/value lines to stderr via the standard log
// package. Useful for quick local debugging.
type SimpleLogger struct {
	logger *log.Logger
}

// NewSimpleLogger creates a SimpleLogger writing to stderr.
func NewSimpleLogger() *SimpleLogger {
	return &SimpleLogger{
		logger: log.New(os.Stderr, "losapi ", log.LstdFlags|log.Lmsgprefix),
	}
}

func (l *SimpleLogger) print(level, msg string, keysAndValues []any) {
	line := level + " " + msg
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		line += fmt.Sprintf(" %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	l.logger.Print(line)
}

func (l *SimpleLogger) Debug(msg string, keysAndValues ...any) {
	l.print("DEBUG", msg, keysAndValues)
}

func (l *SimpleLogger) Info(msg string, keysAndValues ...any) {
	l.print("INFO", msg, keysAndValues)
}

func (l *SimpleLogger) Warn(msg string, keysAndValues ...any) {
	l.print("WARN", msg, keysAndValues)
}

func (l *SimpleLogger) Error(msg string, keysAndValues ...any) {
	l.print("ERROR", msg, keysAndValues)
}

// StructuredLogger implements Logger on top of zerolog.
type StructuredLogger struct {
	log zerolog.Logger
}

// NewStructuredLogger creates a zerolog-backed logger writing JSON lines to w.
func NewStructuredLogger(w io.Writer) *StructuredLogger {
	if w == nil {
		w = os.Stderr
	}
	return &StructuredLogger{
		log: zerolog.New(w).With().Timestamp().Str("component", "losapi").Logger(),
	}
}

func (l *StructuredLogger) emit(ev *zerolog.Event, msg string, keysAndValues []any) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		ev = ev.Interface(fmt.Sprint(keysAndValues[i]), keysAndValues[i+1])
	}
	ev.Msg(msg)
}

func (l *StructuredLogger) Debug(msg string, keysAndValues ...any) {
	l.emit(l.log.Debug(), msg, keysAndValues)
}

func (l *StructuredLogger) Info(msg string, keysAndValues ...any) {
	l.emit(l.log.Info(), msg, keysAndValues)
}

func (l *StructuredLogger) Warn(msg string, keysAndValues ...any) {
	l.emit(l.log.Warn(), msg, keysAndValues)
}

func (l *StructuredLogger) Error(msg string, keysAndValues ...any) {
	l.emit(l.log.Error(), msg, keysAndValues)
}

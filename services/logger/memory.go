package logsvc

import (
	"log"
	"sync"

	"github.com/xuandat7/tkb-ptit-react-sub000/core"
)

// MemoryLogger keeps every message in memory; used by tests and the admin CLI.
type MemoryLogger struct {
	mu       sync.Mutex
	std      *log.Logger
	Messages []string
}

var _ core.Logger = (*MemoryLogger)(nil)

func NewMemoryLogger(std *log.Logger) *MemoryLogger {
	return &MemoryLogger{std: std}
}

func (l *MemoryLogger) log(level, msg string) {
	l.mu.Lock()
	l.Messages = append(l.Messages, level+": "+msg)
	l.mu.Unlock()
	if l.std != nil {
		l.std.Println(level + ": " + msg)
	}
}

func (l *MemoryLogger) Debug(msg string, _ ...interface{}) { l.log("DEBUG", msg) }
func (l *MemoryLogger) Info(msg string, _ ...interface{})  { l.log("INFO", msg) }
func (l *MemoryLogger) Warn(msg string, _ ...interface{})  { l.log("WARN", msg) }
func (l *MemoryLogger) Error(msg string, _ ...interface{}) { l.log("ERROR", msg) }

func (l *MemoryLogger) Fatal(msg string, _ ...interface{}) {
	l.log("FATAL", msg)
	if l.std != nil {
		l.std.Fatal(msg)
	}
}

// Snapshot returns a copy of the logged messages.
func (l *MemoryLogger) Snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.Messages...)
}

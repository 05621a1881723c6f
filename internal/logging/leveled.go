package logging

import "github.com/charmbracelet/log"

// Leveled adapts a charm logger to the string-message leveled interface
// used by go-retryablehttp.
type Leveled struct {
	L *log.Logger
}

func NewLeveled(prefix string) Leveled {
	return Leveled{L: console.WithPrefix(prefix)}
}

func (l Leveled) Error(msg string, keysAndValues ...interface{}) { l.L.Error(msg, keysAndValues...) }
func (l Leveled) Info(msg string, keysAndValues ...interface{})  { l.L.Debug(msg, keysAndValues...) }
func (l Leveled) Debug(msg string, keysAndValues ...interface{}) { l.L.Debug(msg, keysAndValues...) }
func (l Leveled) Warn(msg string, keysAndValues ...interface{})  { l.L.Warn(msg, keysAndValues...) }

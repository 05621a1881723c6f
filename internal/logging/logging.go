package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

var (
	console = log.NewWithOptions(os.Stderr, log.Options{Prefix: "plugpak"})
	file    *log.Logger
	logfile *os.File
	verbose bool
)

// Init opens <dir>/logs/plugpak.log and mirrors every message there.
// Failing to open the file only disables the mirror.
func Init(dir string) {
	p := filepath.Join(dir, "logs")
	if err := os.MkdirAll(p, 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(filepath.Join(p, "plugpak.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	logfile = f
	file = log.NewWithOptions(f, log.Options{ReportTimestamp: true, Level: log.DebugLevel})
}

func Close() {
	if logfile != nil {
		_ = logfile.Close()
		logfile = nil
		file = nil
	}
}

// SetOutput redirects console output; tests use it to capture or silence logs.
func SetOutput(w io.Writer) { console.SetOutput(w) }

// SetVerbose toggles debug output on the console.
func SetVerbose(v bool) {
	verbose = v
	if v {
		console.SetLevel(log.DebugLevel)
		return
	}
	console.SetLevel(log.InfoLevel)
}

func Verbose() bool { return verbose }

// Logger returns the console logger; components derive prefixed loggers from it.
func Logger() *log.Logger { return console }

func Info(msg string, keyvals ...any) {
	console.Info(msg, keyvals...)
	if file != nil {
		file.Info(msg, keyvals...)
	}
}

func Success(msg string, keyvals ...any) {
	console.Info(msg, append(keyvals, "ok", true)...)
	if file != nil {
		file.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	console.Warn(msg, keyvals...)
	if file != nil {
		file.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	console.Error(msg, keyvals...)
	if file != nil {
		file.Error(msg, keyvals...)
	}
}

// Gray prints an unleveled line.
func Gray(msg string) {
	console.Print(msg)
	if file != nil {
		file.Print(msg)
	}
}

// Debug prints only when verbose mode is enabled; the log file always gets it.
func Debug(msg string, keyvals ...any) {
	console.Debug(msg, keyvals...)
	if file != nil {
		file.Debug(msg, keyvals...)
	}
}

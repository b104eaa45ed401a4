package logging

import (
	"io"
	"os"

	hclog "github.com/hashicorp/go-hclog"
)

const appName = "tasktracker"

// New builds the root logger. An empty or unknown level means info.
func New(level string, jsonFormat bool, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       appName,
		Level:      lvl,
		Output:     output,
		JSONFormat: jsonFormat,
	})
}

// Discard is used where log output would corrupt the terminal, e.g. the TUI
// and plugin handshakes.
func Discard() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.Off})
}

// Package event provides the shared logger.
//
// stdout carries the MCP protocol, so all log output goes to stderr.
package event

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the logger used by all packages.
var Log *logrus.Logger

func init() {
	Log = logrus.New()
	Log.SetOutput(os.Stderr)
	Log.SetLevel(logrus.InfoLevel)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
}

// SetLevel sets the log level by name, e.g. "debug" or "warn".
// Unknown names leave the current level unchanged and return the parse error.
func SetLevel(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return nil
	}

	level, err := logrus.ParseLevel(name)

	if err != nil {
		return err
	}

	Log.SetLevel(level)

	return nil
}

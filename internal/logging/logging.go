package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Setup configures the process-wide logrus logger for CLI use.
// Verbose wins over quiet when both are set.
func Setup(verbose, quiet bool) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          true,
		DisableLevelTruncation: true,
	})
	switch {
	case verbose:
		logrus.SetLevel(logrus.DebugLevel)
	case quiet:
		logrus.SetLevel(logrus.WarnLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput redirects log output; tests use this to silence the logger.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

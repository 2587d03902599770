// Package logger builds the process logger.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a logrus logger at the given level. Format "json" switches to
// the JSON formatter; anything else logs text with full timestamps.
func New(level, format string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

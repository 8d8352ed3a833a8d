package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Report output never goes through it.
var Log = New(os.Stderr, "info")

// New returns a text logger writing to w at the given level.
// Unparseable levels fall back to info.
func New(w io.Writer, levelStr string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	return l
}

// InitLogger replaces Log. debug forces the debug level.
func InitLogger(levelStr string, debug bool) {
	if debug {
		levelStr = "debug"
	}
	Log = New(os.Stderr, levelStr)
}

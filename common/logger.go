package common

import "github.com/sirupsen/logrus"

// Log is the package-level logger. The buffer pool manager logs its
// expected-failure paths (pool exhaustion, unpin of an absent or unpinned
// page) through it at Warn; the LRU-K replacer and the extendible hash
// index do not log. It defaults to Warn level; SetLogLevel changes that.
var Log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// SetLogLevel adjusts the verbosity of the shared logger, e.g. to
// logrus.DebugLevel while chasing down an eviction-order bug.
func SetLogLevel(level logrus.Level) {
	Log.SetLevel(level)
}

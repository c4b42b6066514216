package logger

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"nearmeet-server/internal/config"
)

var (
	mu  sync.RWMutex
	log *logrus.Logger
)

// InitFromConfig sets up the global logger from app config. Safe to call
// multiple times.
func InitFromConfig(cfg *config.Config) {
	l := logrus.New()

	if cfg != nil {
		if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
			l.SetLevel(level)
		}
		if strings.EqualFold(cfg.LogFormat, "json") {
			l.SetFormatter(&logrus.JSONFormatter{})
		} else {
			l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		}
	}

	mu.Lock()
	log = l
	mu.Unlock()
}

// L returns the global logger. Always returns a non-nil instance.
func L() *logrus.Logger {
	mu.RLock()
	if log != nil {
		defer mu.RUnlock()
		return log
	}
	mu.RUnlock()

	InitFromConfig(nil)

	mu.RLock()
	defer mu.RUnlock()
	return log
}

// With creates an entry carrying additional fields.
func With(fields logrus.Fields) *logrus.Entry { return L().WithFields(fields) }

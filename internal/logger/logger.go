// Package logger holds the process-wide zap logger. Services and
// middleware log through Get rather than carrying a logger around.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

// serviceName tags every entry so aggregated logs attribute to this API.
const serviceName = "stockfolio"

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init builds the global logger for the given environment: a JSON
// encoder for "production", a human-readable console encoder otherwise.
// Subsequent calls are no-ops.
func Init(env string) {
	once.Do(func() {
		var base *zap.Logger
		var err error

		if env == "production" {
			base, err = zap.NewProduction()
		} else {
			base, err = zap.NewDevelopment()
		}
		if err != nil {
			base = zap.NewNop()
		}

		sugar = base.Named(serviceName).Sugar()
	})
}

// Get returns the global sugared logger, initializing a development
// logger when Init has not run. Tests rely on this default.
func Get() *zap.SugaredLogger {
	if sugar == nil {
		Init("development")
	}
	return sugar
}

// Sync flushes buffered entries. Called once before process exit.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}

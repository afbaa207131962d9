package bootstrap

import (
	"github.com/shelfwise/lending/common/config"
	"github.com/shelfwise/lending/common/db"
	"github.com/shelfwise/lending/common/logger"
)

// Option configures the bootstrap process
type Option func(*options)

type options struct {
	skipDB       bool
	skipCache    bool
	skipRedis    bool
	customLogger *logger.Logger
	customConfig *config.Config
	dbInitHook   func(*db.DB) error
}

func defaultOptions() *options {
	return &options{
		// Redis is opt-in: only the redis guard and shared read model need it
		skipRedis: true,
	}
}

// WithoutDB skips database initialization
func WithoutDB() Option {
	return func(o *options) {
		o.skipDB = true
	}
}

// WithoutCache skips cache initialization
func WithoutCache() Option {
	return func(o *options) {
		o.skipCache = true
	}
}

// WithRedis enables Redis initialization
func WithRedis() Option {
	return func(o *options) {
		o.skipRedis = false
	}
}

// WithCustomConfig uses the given config instead of loading from env
func WithCustomConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.customConfig = cfg
	}
}

// WithCustomLogger uses the given logger
func WithCustomLogger(log *logger.Logger) Option {
	return func(o *options) {
		o.customLogger = log
	}
}

// WithDBInitHook runs fn right after the database connects (schema setup)
func WithDBInitHook(fn func(*db.DB) error) Option {
	return func(o *options) {
		o.dbInitHook = fn
	}
}

// Package config holds the environment-driven defaults for the tunables
// the core identity resolution engine owns directly: auto-merge
// thresholds, review queue aging/alerting, and the resilience wrapper's
// timeout/retry/circuit-breaker defaults. It does not configure a
// database, HTTP server, or message broker — the core has none.
package config

import "time"

// Config is loaded once at process start with ectoenv.Parse(&cfg) and
// then used to build the default per-call configuration structs
// (matching.Config, queue.Config, resilience.Config) that callers may
// further override per entity type / tenant.
type Config struct {
	LogLevel   string `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs bool   `env:"PRETTY_LOGS" env-default:"false"`

	// Matching defaults
	MinMatchScore      float64 `env:"MIN_MATCH_SCORE" env-default:"0.5"`
	AutoMergeThreshold float64 `env:"AUTO_MERGE_THRESHOLD" env-default:"0.95"`
	MaxCandidates      int     `env:"MAX_CANDIDATES" env-default:"100"`

	// Review queue defaults
	QueueAutoExpireAfter    time.Duration `env:"QUEUE_AUTO_EXPIRE_AFTER" env-default:"720h"` // 30 days
	QueueDefaultPriority    int           `env:"QUEUE_DEFAULT_PRIORITY" env-default:"0"`
	QueueEnableMetrics      bool          `env:"QUEUE_ENABLE_METRICS" env-default:"true"`
	QueueAlertMaxSize       int           `env:"QUEUE_ALERT_MAX_SIZE" env-default:"1000"`
	QueueAlertMaxAge        time.Duration `env:"QUEUE_ALERT_MAX_AGE" env-default:"168h"` // 7 days
	QueueAlertMinThroughput float64       `env:"QUEUE_ALERT_MIN_THROUGHPUT" env-default:"10"`

	// Resilience wrapper defaults, used by external service plugins
	ServiceTimeout              time.Duration `env:"SERVICE_TIMEOUT" env-default:"5s"`
	ServiceRetryMaxAttempts     int           `env:"SERVICE_RETRY_MAX_ATTEMPTS" env-default:"3"`
	ServiceRetryInitialDelay    time.Duration `env:"SERVICE_RETRY_INITIAL_DELAY" env-default:"100ms"`
	ServiceRetryMaxDelay        time.Duration `env:"SERVICE_RETRY_MAX_DELAY" env-default:"5s"`
	ServiceRetryBackoffFactor   float64       `env:"SERVICE_RETRY_BACKOFF_FACTOR" env-default:"2.0"`
	ServiceBreakerFailThreshold int           `env:"SERVICE_BREAKER_FAIL_THRESHOLD" env-default:"5"`
	ServiceBreakerFailWindow    time.Duration `env:"SERVICE_BREAKER_FAIL_WINDOW" env-default:"60s"`
	ServiceBreakerResetTimeout  time.Duration `env:"SERVICE_BREAKER_RESET_TIMEOUT" env-default:"30s"`
	ServiceBreakerSuccessThresh int           `env:"SERVICE_BREAKER_SUCCESS_THRESHOLD" env-default:"2"`
}

// Default returns a Config populated with its env-default tag values,
// for use when ectoenv.Parse is not invoked (e.g. in tests or when
// embedding the engine as a library without process-level env config).
func Default() Config {
	return Config{
		LogLevel:                    "info",
		MinMatchScore:               0.5,
		AutoMergeThreshold:          0.95,
		MaxCandidates:               100,
		QueueAutoExpireAfter:        720 * time.Hour,
		QueueDefaultPriority:        0,
		QueueEnableMetrics:          true,
		QueueAlertMaxSize:           1000,
		QueueAlertMaxAge:            168 * time.Hour,
		QueueAlertMinThroughput:     10,
		ServiceTimeout:              5 * time.Second,
		ServiceRetryMaxAttempts:     3,
		ServiceRetryInitialDelay:    100 * time.Millisecond,
		ServiceRetryMaxDelay:        5 * time.Second,
		ServiceRetryBackoffFactor:   2.0,
		ServiceBreakerFailThreshold: 5,
		ServiceBreakerFailWindow:    60 * time.Second,
		ServiceBreakerResetTimeout:  30 * time.Second,
		ServiceBreakerSuccessThresh: 2,
	}
}

// Load reads Config from the environment via ectoenv, falling back to
// env-default tag values for anything unset.
func Load() (Config, error) {
	var cfg Config
	if err := load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

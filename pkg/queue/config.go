package queue

import "time"

// AlertThresholds configures when Stats flags the queue as unhealthy.
type AlertThresholds struct {
	MaxQueueSize  int
	MaxAge        time.Duration
	MinThroughput float64 // decisions per day
}

// Config is the queue's tunable behavior, per spec.md §6.
type Config struct {
	AutoExpireAfter time.Duration
	DefaultPriority int
	EnableMetrics   bool
	AlertThresholds AlertThresholds
}

// DefaultConfig matches spec.md §6's documented defaults.
func DefaultConfig() Config {
	return Config{
		AutoExpireAfter: 30 * 24 * time.Hour,
		DefaultPriority: 0,
		EnableMetrics:   true,
		AlertThresholds: AlertThresholds{
			MaxQueueSize:  1000,
			MaxAge:        7 * 24 * time.Hour,
			MinThroughput: 10,
		},
	}
}

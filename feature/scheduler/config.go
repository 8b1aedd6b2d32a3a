package scheduler

import "time"

// MinInterval is the shortest allowed pause between cycles.
const MinInterval = time.Minute

// Config holds configuration for the sync scheduler.
type Config struct {
	// IntervalMinutes is the pause between cycles (minimum 1).
	IntervalMinutes int `mapstructure:"interval_minutes" default:"1"`
	// DriftDetection enables the device roster cross-check.
	DriftDetection bool `mapstructure:"drift_detection" default:"true"`
	// RunOnStart triggers a cycle as soon as the scheduler starts.
	RunOnStart bool `mapstructure:"run_on_start" default:"true"`
	// FlushTimeoutSeconds bounds the final state flush on shutdown.
	FlushTimeoutSeconds int `mapstructure:"flush_timeout_seconds" default:"10"`
}

// Interval returns the pause between cycles, clamped to MinInterval.
func (c Config) Interval() time.Duration {
	d := time.Duration(c.IntervalMinutes) * time.Minute
	if d < MinInterval {
		return MinInterval
	}
	return d
}

// FlushTimeout returns the shutdown flush budget.
func (c Config) FlushTimeout() time.Duration {
	if c.FlushTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.FlushTimeoutSeconds) * time.Second
}

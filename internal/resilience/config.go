package resilience

import (
	"time"
)

// FromRunConfig converts run-level config values to a fixed-interval
// RetryConfig: every retry waits exactly backoffMs.
func FromRunConfig(maxAttempts, backoffMs int) RetryConfig {
	cfg := DefaultRetryConfig()
	if maxAttempts > 0 {
		cfg.MaxAttempts = maxAttempts
	}
	if backoffMs > 0 {
		cfg.Backoff = time.Duration(backoffMs) * time.Millisecond
	}
	return cfg
}

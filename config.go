// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sync

import "time"

// Config holds the timing parameters the host uses to drive the engine. The
// engine itself holds no timers: the host delivers Tick inputs on the status
// interval and feeds SyncRequestTimedOut when a request deadline expires.
type Config struct {
	// StatusUpdateInterval is how often the host should deliver a Tick
	// input, triggering a status broadcast.
	StatusUpdateInterval time.Duration

	// RequestTimeout is the deadline the host should apply to every
	// outbound value or vote set request.
	RequestTimeout time.Duration
}

// DefaultConfig returns the default sync configuration.
func DefaultConfig() Config {
	return Config{
		StatusUpdateInterval: 10 * time.Second,
		RequestTimeout:       10 * time.Second,
	}
}

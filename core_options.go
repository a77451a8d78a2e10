// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package axon

import (
	"time"

	"github.com/rs/zerolog"
)

// Option configures some aspect of an axon endpoint.
type Option func(ep *Endpoint)

// WithLogger sets a dedicated logger for the endpoint.
func WithLogger(log zerolog.Logger) Option {
	return func(ep *Endpoint) {
		ep.log = log
	}
}

// WithRetry configures the initial interval between two failed
// connection attempts. The interval grows by a factor of 1.5 per
// failure up to the cap and resets on every successful connection.
func WithRetry(retry time.Duration) Option {
	return func(ep *Endpoint) {
		ep.retry = retry
	}
}

// WithMaxRetry configures the cap on the reconnect interval.
func WithMaxRetry(maxRetry time.Duration) Option {
	return func(ep *Endpoint) {
		ep.maxRetry = maxRetry
	}
}

// WithDialTimeout sets the maximum amount of time a single connection
// attempt will wait before the connector backs off and retries.
func WithDialTimeout(timeout time.Duration) Option {
	return func(ep *Endpoint) {
		ep.dialTimeout = timeout
	}
}

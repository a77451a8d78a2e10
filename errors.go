// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package axon

import "errors"

var (
	// ErrRoleMismatch is returned when an operation is invoked on an
	// endpoint whose role does not support it. The endpoint state is
	// left untouched.
	ErrRoleMismatch = errors.New("axon: operation not supported by endpoint role")

	// ErrReplyTimeout is returned by Request when no reply arrived
	// within the deadline. A reply arriving later is discarded.
	ErrReplyTimeout = errors.New("axon: request timed out waiting for reply")

	// ErrClosed is returned for operations on an endpoint that has
	// been closed, and wakes requests in flight during teardown.
	ErrClosed = errors.New("axon: endpoint closed")
)

// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package axon

// Role fixes which operations and which routing rules apply to an
// endpoint. It is immutable for the endpoint's lifetime.
type Role int

const (
	// Pub broadcasts every message to all connected peers.
	Pub Role = iota
	// Sub receives broadcast messages and dispatches them to topic
	// subscriptions.
	Sub
	// Push distributes messages across peers round-robin, queueing
	// while no peer is live.
	Push
	// Pull receives round-robin distributed messages.
	Pull
	// Req sends a request round-robin and waits for the correlated
	// reply.
	Req
	// Rep answers requests through its message callback.
	Rep
)

// String returns the string representation of the role.
func (r Role) String() string {
	switch r {
	case Pub:
		return "pub"
	case Sub:
		return "sub"
	case Push:
		return "push"
	case Pull:
		return "pull"
	case Req:
		return "req"
	case Rep:
		return "rep"
	default:
		return "unknown"
	}
}

// canSubscribe reports whether the role dispatches topic
// subscriptions.
func (r Role) canSubscribe() bool {
	return r == Sub || r == Pull
}

// canSend reports whether the role may emit fire-and-forget messages.
func (r Role) canSend() bool {
	return r == Pub || r == Push
}

// canRegisterMessage reports whether the role accepts a generic
// message callback. The Req callback slot exists for parity with the
// other roles but replies are routed to the correlator, never to it.
func (r Role) canRegisterMessage() bool {
	switch r {
	case Sub, Pull, Req, Rep:
		return true
	default:
		return false
	}
}

// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package axon

import (
	"net"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// connector describes one persistent outbound connection target.
type connector struct {
	hostname string
	port     uint16
}

// Connect starts an outbound connector towards hostname:port. It
// returns immediately; the first connection attempt runs
// asynchronously and reconnection continues forever, with the retry
// interval growing 1.5x per failure up to the cap and resetting on
// every successful connection. Legal on all roles.
func (ep *Endpoint) Connect(hostname string, port uint16) error {
	if ep.closed.Load() {
		return ErrClosed
	}

	c := connector{hostname: hostname, port: port}
	ep.cmu.Lock()
	ep.connectors = append(ep.connectors, c)
	ep.cmu.Unlock()

	ep.spawn(func() { ep.runConnector(c) })
	return nil
}

// IsConnected reports whether an outbound connector was created for
// exactly that (hostname, port) pair, regardless of current link
// state.
func (ep *Endpoint) IsConnected(hostname string, port uint16) bool {
	ep.cmu.Lock()
	defer ep.cmu.Unlock()
	for _, c := range ep.connectors {
		if c.hostname == hostname && c.port == port {
			return true
		}
	}
	return false
}

// runConnector maintains one live connection to the target, blocking
// in dial, backoff sleep and the read loop, until endpoint teardown.
func (ep *Endpoint) runConnector(c connector) {
	addr := net.JoinHostPort(c.hostname, strconv.Itoa(int(c.port)))
	dialer := net.Dialer{Timeout: ep.dialTimeout}
	bo := ep.newBackOff()

	for {
		if ep.ctx.Err() != nil {
			return
		}
		conn, err := dialer.DialContext(ep.ctx, "tcp", addr)
		if err != nil {
			wait := bo.NextBackOff()
			ep.log.Debug().Err(err).Str("addr", addr).Dur("retry", wait).Msg("dial failed")
			select {
			case <-ep.ctx.Done():
				return
			case <-time.After(wait):
			}
			continue
		}

		bo.Reset()
		p := ep.peers.add(conn, false)
		ep.log.Debug().Uint64("peer", p.id).Str("addr", addr).Msg("connected")

		// Blocks until the link drops or the endpoint closes.
		ep.readLoop(p)

		if ep.ctx.Err() != nil {
			return
		}
		ep.log.Debug().Str("addr", addr).Msg("link dropped, reconnecting")
	}
}

// newBackOff builds the shared retry policy: initial interval 1.5x'd
// per failure, capped, never giving up.
func (ep *Endpoint) newBackOff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = ep.retry
	bo.Multiplier = backoffMultiplier
	bo.MaxInterval = ep.maxRetry
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0
	bo.Reset()
	return bo
}

// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package axon

import (
	"time"

	"github.com/destiny/axon/amp"
)

// destination selects the delivery policy for an encoded frame.
type destination int

const (
	destBroadcast  destination = iota // every live peer
	destRoundRobin                    // next peer after the cursor
	destUnicast                       // one identified peer
)

// maxCapWaits bounds how many full cap-length waits a round-robin
// sender performs with no live peer before dropping the frame.
const maxCapWaits = 3

// Send encodes the fields as one AMP frame and schedules it for
// delivery: broadcast to every peer for Pub, round-robin to the next
// peer for Push. Req endpoints use Request instead. Send returns once
// the frame is queued; a Push frame waits in its sender worker while
// no peer is live.
func (ep *Endpoint) Send(fields ...amp.Field) error {
	if !ep.role.canSend() {
		return ErrRoleMismatch
	}
	if ep.closed.Load() {
		return ErrClosed
	}
	dest := destBroadcast
	if ep.role == Push {
		dest = destRoundRobin
	}

	buf, err := amp.Encode(amp.NewMessage(fields...))
	if err != nil {
		return err
	}
	ep.schedule(buf, dest, 0)
	return nil
}

// schedule hands the encoded frame to a transient sender worker.
func (ep *Endpoint) schedule(buf []byte, dest destination, target uint64) {
	ep.spawn(func() { ep.deliver(buf, dest, target) })
}

// deliver writes the frame according to the destination policy. A
// peer whose write fails is evicted; its connector, if any, will
// reconnect.
func (ep *Endpoint) deliver(buf []byte, dest destination, target uint64) {
	switch dest {
	case destBroadcast:
		for _, p := range ep.peers.snapshot() {
			if err := p.write(buf); err != nil {
				ep.log.Debug().Err(err).Uint64("peer", p.id).Msg("broadcast write failed")
				ep.evict(p)
			}
		}

	case destUnicast:
		p := ep.peers.byID(target)
		if p == nil {
			// Peer is gone, drop the reply.
			return
		}
		if err := p.write(buf); err != nil {
			ep.log.Debug().Err(err).Uint64("peer", p.id).Msg("unicast write failed")
			ep.evict(p)
		}

	case destRoundRobin:
		ep.deliverRoundRobin(buf)
	}
}

// deliverRoundRobin sends to the next peer after the cursor. With no
// live peer the frame waits in this worker, backing off like a
// connector; after three full cap-length waits it is dropped.
func (ep *Endpoint) deliverRoundRobin(buf []byte) {
	bo := ep.newBackOff()
	capWaits := 0
	for {
		if ep.ctx.Err() != nil {
			return
		}
		if p := ep.peers.next(); p != nil {
			if err := p.write(buf); err != nil {
				ep.log.Debug().Err(err).Uint64("peer", p.id).Msg("round-robin write failed")
				ep.evict(p)
			}
			return
		}

		wait := bo.NextBackOff()
		if wait >= ep.maxRetry {
			capWaits++
			if capWaits > maxCapWaits {
				ep.log.Debug().Msg("no live peer, frame dropped")
				return
			}
		}
		select {
		case <-ep.ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

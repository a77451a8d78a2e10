// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package axon

import (
	"errors"

	"github.com/destiny/axon/amp"
)

// readBufferSize is the per-read chunk for peer streams. Multiple
// frames may arrive concatenated in one read; a frame may also span
// several reads.
const readBufferSize = 64 * 1024

// readLoop pulls bytes off one peer stream and feeds them to the
// dispatcher until the link drops or the endpoint closes. Decode and
// callback work for a connection runs on this single goroutine, so
// delivery is FIFO per connection.
func (ep *Endpoint) readLoop(p *peer) {
	defer ep.evict(p)

	buf := make([]byte, readBufferSize)
	var pending []byte
	for {
		n, err := p.conn.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			pending = ep.dispatch(p, pending)
		}
		if err != nil {
			return
		}
	}
}

// dispatch decodes every complete frame at the front of the buffer
// and routes the messages, returning the undecoded remainder. A
// malformed frame discards the whole buffer; the link stays up.
func (ep *Endpoint) dispatch(p *peer, buf []byte) []byte {
	for len(buf) > 0 {
		msg, n, err := amp.Decode(buf)
		if errors.Is(err, amp.ErrShortBuffer) {
			// Partial frame, wait for more bytes.
			return buf
		}
		if err != nil {
			ep.log.Debug().Err(err).Uint64("peer", p.id).Msg("frame decode failed, buffer discarded")
			return nil
		}
		buf = buf[n:]
		if msg.Len() == 0 {
			// Defensive: a message carries at least one field.
			continue
		}
		ep.route(p, msg)
	}
	return nil
}

// route forwards one decoded message to the pattern-specific handler
// for the endpoint's role.
func (ep *Endpoint) route(p *peer, msg *amp.Message) {
	if ep.ctx.Err() != nil {
		return
	}
	switch ep.role {
	case Sub, Pull:
		ep.routeInbound(msg)
	case Rep:
		ep.routeRequest(p, msg)
	case Req:
		ep.routeReply(msg)
	default:
		// Pub and Push ignore inbound frames.
	}
}

// routeInbound handles Sub/Pull delivery: the generic message
// callback first, then topic subscriptions when the first field is a
// string topic.
func (ep *Endpoint) routeInbound(msg *amp.Message) {
	if fn := ep.messageCallback(); fn != nil {
		fn(ep, msg)
	}

	if ep.subs.empty() {
		return
	}
	first, ok := msg.First()
	if !ok || first.Type != amp.TypeString {
		return
	}
	msg.PopFirst()
	ep.subs.dispatch(ep, first.Str, msg)
}

// routeRequest handles the Rep side: strip the request id from the
// tail, hand the remaining message to the callback and, if a reply
// comes back, echo the id and send it to the originating peer.
func (ep *Endpoint) routeRequest(p *peer, msg *amp.Message) {
	id, ok := msg.PopLast()
	if !ok || id.Type != amp.TypeString {
		return
	}
	fn := ep.messageCallback()
	if fn == nil {
		return
	}
	rep := fn(ep, msg)
	if rep == nil {
		return
	}
	rep.Push(id)
	buf, err := amp.Encode(rep)
	if err != nil {
		ep.log.Debug().Err(err).Msg("could not encode reply")
		return
	}
	ep.schedule(buf, destUnicast, p.id)
}

// routeReply handles the Req side: strip the id from the tail and
// deposit the reply into the matching pending slot. A reply past its
// deadline has no slot left and is dropped.
func (ep *Endpoint) routeReply(msg *amp.Message) {
	id, ok := msg.PopLast()
	if !ok || id.Type != amp.TypeString {
		return
	}
	ep.reqs.deposit(id.Str, msg)
}

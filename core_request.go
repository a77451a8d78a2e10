// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package axon

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/destiny/axon/amp"
)

// correlator matches replies to requests in flight. Each request owns
// a rendezvous of capacity one, keyed by its id; the id travels as the
// final string field "<pid>:<counter>" of the request and is echoed by
// the replier.
type correlator struct {
	pid     int
	mu      sync.Mutex
	counter uint32
	pending map[string]chan *amp.Message
}

func newCorrelator() *correlator {
	return &correlator{
		pid:     os.Getpid(),
		pending: make(map[string]chan *amp.Message),
	}
}

// nextID returns a process-unique request id, incrementing the
// per-endpoint counter after use.
func (c *correlator) nextID() string {
	c.mu.Lock()
	id := fmt.Sprintf("%d:%d", c.pid, c.counter)
	c.counter++
	c.mu.Unlock()
	return id
}

// register creates the pending slot for id.
func (c *correlator) register(id string) chan *amp.Message {
	ch := make(chan *amp.Message, 1)
	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()
	return ch
}

// deregister forgets the pending slot for id.
func (c *correlator) deregister(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// deposit places the reply in the slot for id, waking the caller.
// Replies with no outstanding slot are dropped.
func (c *correlator) deposit(id string, msg *amp.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.pending[id]
	if !ok {
		return
	}
	select {
	case ch <- msg:
	default:
		// Slot already holds a reply; duplicates are dropped.
	}
}

// failAll wakes every request in flight with a closed slot. Called at
// endpoint teardown.
func (c *correlator) failAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

// Request sends the fields round-robin to the next peer and blocks
// until the correlated reply arrives or the timeout elapses. The
// request id is appended as the final string field and stripped from
// the reply before it is returned. Concurrent requests are
// independent. Legal on Req endpoints only.
func (ep *Endpoint) Request(timeout time.Duration, fields ...amp.Field) (*amp.Message, error) {
	if ep.role != Req {
		return nil, ErrRoleMismatch
	}
	if ep.closed.Load() {
		return nil, ErrClosed
	}

	msg := amp.NewMessage(fields...)
	id := ep.reqs.nextID()
	msg.Push(amp.String(id))

	buf, err := amp.Encode(msg)
	if err != nil {
		return nil, err
	}

	ch := ep.reqs.register(id)
	defer ep.reqs.deregister(id)

	ep.schedule(buf, destRoundRobin, 0)

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case rep, ok := <-ch:
		if !ok {
			return nil, ErrClosed
		}
		return rep, nil
	case <-timer.C:
		return nil, ErrReplyTimeout
	case <-ep.ctx.Done():
		return nil, ErrClosed
	}
}

// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package axon implements the axon messaging patterns over AMP-framed
// TCP streams: publish/subscribe, push/pull and request/reply. An
// Endpoint owns its listening sockets and outgoing connections,
// reconnects with exponential backoff, and routes inbound frames to
// topic subscriptions or reply correlation according to its role.
package axon

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/destiny/axon/amp"
)

const (
	defaultRetry       = 100 * time.Millisecond
	defaultMaxRetry    = 5 * time.Second
	defaultDialTimeout = 5 * time.Minute

	backoffMultiplier = 1.5
)

// BindFunc is invoked once a listener is bound, with the actual bound
// port (useful when binding port 0).
type BindFunc func(ep *Endpoint, port uint16)

// MessageFunc is invoked for every inbound message on Sub, Pull and
// Rep endpoints. The returned message is the reply and is only
// meaningful for Rep; return nil to send no reply.
type MessageFunc func(ep *Endpoint, msg *amp.Message) *amp.Message

// SubscribeFunc is invoked for every inbound message whose topic
// matches the subscription pattern, with the topic field stripped.
type SubscribeFunc func(ep *Endpoint, topic string, msg *amp.Message)

// ErrorFunc is invoked when a listener setup failure occurs.
type ErrorFunc func(ep *Endpoint, err error)

// Endpoint is a single messaging participant with a fixed role, zero
// or more listeners and zero or more outbound connectors.
type Endpoint struct {
	role Role
	log  zerolog.Logger

	retry       time.Duration // initial reconnect/no-peer backoff
	maxRetry    time.Duration // backoff cap
	dialTimeout time.Duration

	ctx    context.Context // life-line of the endpoint
	cancel context.CancelFunc
	grp    *errgroup.Group

	peers peerSet
	subs  subscriptions
	reqs  *correlator // Req role only

	lmu       sync.Mutex
	listeners []net.Listener

	cmu        sync.Mutex
	connectors []connector

	cbmu      sync.RWMutex
	bindCB    BindFunc
	messageCB MessageFunc
	errorCB   ErrorFunc

	closed atomic.Bool
}

// New creates an endpoint with the given role. The role is immutable
// for the endpoint's lifetime.
func New(role Role, opts ...Option) *Endpoint {
	ep := &Endpoint{
		role:        role,
		log:         DefaultLogger(),
		retry:       defaultRetry,
		maxRetry:    defaultMaxRetry,
		dialTimeout: defaultDialTimeout,
		grp:         new(errgroup.Group),
	}
	ep.ctx, ep.cancel = context.WithCancel(context.Background())
	if role == Req {
		ep.reqs = newCorrelator()
	}
	for _, opt := range opts {
		opt(ep)
	}
	ep.log = ep.log.With().Stringer("role", role).Logger()
	return ep
}

// Role returns the endpoint's role.
func (ep *Endpoint) Role() Role {
	return ep.role
}

// OnBind registers the callback invoked with the actual bound port
// after every successful Bind.
func (ep *Endpoint) OnBind(fn BindFunc) error {
	ep.cbmu.Lock()
	ep.bindCB = fn
	ep.cbmu.Unlock()
	return nil
}

// OnMessage registers the generic message callback. Legal on Sub,
// Pull, Req and Rep endpoints; only Rep uses the returned reply. The
// Req slot is owned by the reply correlator and is never invoked.
func (ep *Endpoint) OnMessage(fn MessageFunc) error {
	if !ep.role.canRegisterMessage() {
		return ErrRoleMismatch
	}
	ep.cbmu.Lock()
	ep.messageCB = fn
	ep.cbmu.Unlock()
	return nil
}

// OnError registers the callback invoked on socket setup failures.
func (ep *Endpoint) OnError(fn ErrorFunc) error {
	ep.cbmu.Lock()
	ep.errorCB = fn
	ep.cbmu.Unlock()
	return nil
}

func (ep *Endpoint) bindCallback() BindFunc {
	ep.cbmu.RLock()
	defer ep.cbmu.RUnlock()
	return ep.bindCB
}

func (ep *Endpoint) messageCallback() MessageFunc {
	ep.cbmu.RLock()
	defer ep.cbmu.RUnlock()
	return ep.messageCB
}

// reportError surfaces a failure through the error callback, never
// across API boundaries.
func (ep *Endpoint) reportError(err error) {
	ep.log.Error().Err(err).Msg("endpoint error")
	ep.cbmu.RLock()
	fn := ep.errorCB
	ep.cbmu.RUnlock()
	if fn != nil && ep.ctx.Err() == nil {
		fn(ep, err)
	}
}

// Subscribe registers the callback for every inbound message whose
// topic matches pattern, a POSIX extended regular expression.
// Re-registering an existing pattern replaces its callback in place.
// Legal on Sub and Pull endpoints.
func (ep *Endpoint) Subscribe(pattern string, fn SubscribeFunc) error {
	if !ep.role.canSubscribe() {
		return ErrRoleMismatch
	}
	return ep.subs.set(pattern, fn)
}

// Unsubscribe removes the subscription for pattern. Removing an
// absent pattern is a no-op. Legal on Sub and Pull endpoints.
func (ep *Endpoint) Unsubscribe(pattern string) error {
	if !ep.role.canSubscribe() {
		return ErrRoleMismatch
	}
	ep.subs.remove(pattern)
	return nil
}

// Reply builds a reply message for a Rep endpoint, to be returned
// from its message callback. Returns nil on any other role.
func (ep *Endpoint) Reply(fields ...amp.Field) *amp.Message {
	if ep.role != Rep {
		return nil
	}
	return amp.NewMessage(fields...)
}

// Close tears the endpoint down: every socket is closed, all workers
// terminate, and requests in flight wake with ErrClosed. No callback
// is invoked after Close returns. Closing twice is a no-op.
func (ep *Endpoint) Close() error {
	if !ep.closed.CompareAndSwap(false, true) {
		return nil
	}
	ep.cancel()

	ep.lmu.Lock()
	for _, lis := range ep.listeners {
		lis.Close()
	}
	ep.listeners = nil
	ep.lmu.Unlock()

	ep.peers.closeAll()
	err := ep.grp.Wait()

	if ep.reqs != nil {
		ep.reqs.failAll()
	}
	return err
}

// evict removes a dead peer from the live set and closes its stream.
func (ep *Endpoint) evict(p *peer) {
	ep.peers.remove(p)
	ep.log.Debug().Uint64("peer", p.id).Bool("inbound", p.inbound).Msg("peer evicted")
}

// spawn runs fn as an endpoint worker tracked until Close.
func (ep *Endpoint) spawn(fn func()) {
	if ep.ctx.Err() != nil {
		return
	}
	ep.grp.Go(func() error {
		fn()
		return nil
	})
}

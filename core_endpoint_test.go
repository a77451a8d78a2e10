// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package axon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/destiny/axon/amp"
)

func newTestEndpoint(t *testing.T, role Role, opts ...Option) *Endpoint {
	t.Helper()
	opts = append([]Option{WithLogger(DiscardLogger())}, opts...)
	ep := New(role, opts...)
	t.Cleanup(func() { ep.Close() })
	return ep
}

func TestRoleString(t *testing.T) {
	for role, want := range map[Role]string{
		Pub:  "pub",
		Sub:  "sub",
		Push: "push",
		Pull: "pull",
		Req:  "req",
		Rep:  "rep",
	} {
		assert.Equal(t, want, role.String())
	}
}

func TestRoleLegality(t *testing.T) {
	noop := func(_ *Endpoint, _ string, _ *amp.Message) {}
	echo := func(_ *Endpoint, _ *amp.Message) *amp.Message { return nil }

	t.Run("pub", func(t *testing.T) {
		ep := newTestEndpoint(t, Pub)
		assert.ErrorIs(t, ep.Subscribe("x", noop), ErrRoleMismatch)
		assert.ErrorIs(t, ep.Unsubscribe("x"), ErrRoleMismatch)
		assert.ErrorIs(t, ep.OnMessage(echo), ErrRoleMismatch)
		assert.Nil(t, ep.Reply(amp.String("x")))
		_, err := ep.Request(time.Second, amp.String("x"))
		assert.ErrorIs(t, err, ErrRoleMismatch)
		assert.NoError(t, ep.Send(amp.String("x")))
	})

	t.Run("sub", func(t *testing.T) {
		ep := newTestEndpoint(t, Sub)
		assert.NoError(t, ep.Subscribe("x", noop))
		assert.NoError(t, ep.OnMessage(echo))
		assert.ErrorIs(t, ep.Send(amp.String("x")), ErrRoleMismatch)
		_, err := ep.Request(time.Second, amp.String("x"))
		assert.ErrorIs(t, err, ErrRoleMismatch)
	})

	t.Run("push", func(t *testing.T) {
		ep := newTestEndpoint(t, Push)
		assert.ErrorIs(t, ep.Subscribe("x", noop), ErrRoleMismatch)
		assert.ErrorIs(t, ep.OnMessage(echo), ErrRoleMismatch)
		_, err := ep.Request(time.Second, amp.String("x"))
		assert.ErrorIs(t, err, ErrRoleMismatch)
	})

	t.Run("pull", func(t *testing.T) {
		ep := newTestEndpoint(t, Pull)
		assert.NoError(t, ep.Subscribe("x", noop))
		assert.NoError(t, ep.OnMessage(echo))
		assert.ErrorIs(t, ep.Send(amp.String("x")), ErrRoleMismatch)
	})

	t.Run("req", func(t *testing.T) {
		ep := newTestEndpoint(t, Req)
		assert.ErrorIs(t, ep.Send(amp.String("x")), ErrRoleMismatch)
		assert.ErrorIs(t, ep.Subscribe("x", noop), ErrRoleMismatch)
		assert.NoError(t, ep.OnMessage(echo))
		assert.Nil(t, ep.Reply(amp.String("x")))
	})

	t.Run("rep", func(t *testing.T) {
		ep := newTestEndpoint(t, Rep)
		assert.ErrorIs(t, ep.Send(amp.String("x")), ErrRoleMismatch)
		assert.ErrorIs(t, ep.Subscribe("x", noop), ErrRoleMismatch)
		assert.NoError(t, ep.OnMessage(echo))
		rep := ep.Reply(amp.String("world"))
		require.NotNil(t, rep)
		assert.Equal(t, 1, rep.Len())
	})
}

func TestSubscribeBadPatternSurfaces(t *testing.T) {
	ep := newTestEndpoint(t, Sub)
	err := ep.Subscribe("[", func(_ *Endpoint, _ string, _ *amp.Message) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid subscription pattern")
}

func TestCloseIdempotent(t *testing.T) {
	ep := New(Pub, WithLogger(DiscardLogger()))
	assert.NoError(t, ep.Close())
	assert.NoError(t, ep.Close())
}

func TestOperationsAfterClose(t *testing.T) {
	ep := New(Req, WithLogger(DiscardLogger()))
	require.NoError(t, ep.Close())

	assert.ErrorIs(t, ep.Bind(0), ErrClosed)
	assert.ErrorIs(t, ep.Connect("127.0.0.1", 1), ErrClosed)
	_, err := ep.Request(time.Second, amp.String("x"))
	assert.ErrorIs(t, err, ErrClosed)

	push := New(Push, WithLogger(DiscardLogger()))
	require.NoError(t, push.Close())
	assert.ErrorIs(t, push.Send(amp.String("x")), ErrClosed)
}

func TestOptions(t *testing.T) {
	ep := newTestEndpoint(t, Pub,
		WithRetry(10*time.Millisecond),
		WithMaxRetry(time.Second),
		WithDialTimeout(2*time.Second),
	)
	assert.Equal(t, 10*time.Millisecond, ep.retry)
	assert.Equal(t, time.Second, ep.maxRetry)
	assert.Equal(t, 2*time.Second, ep.dialTimeout)
	assert.Equal(t, Pub, ep.Role())
}

func TestBackOffProgression(t *testing.T) {
	ep := newTestEndpoint(t, Push,
		WithRetry(100*time.Millisecond),
		WithMaxRetry(time.Second),
	)
	bo := ep.newBackOff()

	assert.Equal(t, 100*time.Millisecond, bo.NextBackOff())
	assert.Equal(t, 150*time.Millisecond, bo.NextBackOff())
	assert.Equal(t, 225*time.Millisecond, bo.NextBackOff())

	// Capped at the max interval.
	for i := 0; i < 10; i++ {
		bo.NextBackOff()
	}
	assert.Equal(t, time.Second, bo.NextBackOff())

	// Reset restarts the progression after a successful connection.
	bo.Reset()
	assert.Equal(t, 100*time.Millisecond, bo.NextBackOff())
}

func TestIsConnected(t *testing.T) {
	ep := newTestEndpoint(t, Pull)
	assert.False(t, ep.IsConnected("127.0.0.1", 1))
	require.NoError(t, ep.Connect("127.0.0.1", 1))
	assert.True(t, ep.IsConnected("127.0.0.1", 1))
	assert.False(t, ep.IsConnected("127.0.0.1", 2))
	assert.False(t, ep.IsConnected("localhost", 1))
}

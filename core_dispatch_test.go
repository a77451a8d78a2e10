// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package axon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/destiny/axon/amp"
)

func TestDispatchDiscardsMalformedBuffer(t *testing.T) {
	ep := newTestEndpoint(t, Pull)
	var delivered []string
	require.NoError(t, ep.OnMessage(func(_ *Endpoint, msg *amp.Message) *amp.Message {
		f, _ := msg.First()
		delivered = append(delivered, f.Str)
		return nil
	}))
	p := &peer{id: 1}

	valid, err := amp.Encode(amp.NewMessage(amp.String("lost")))
	require.NoError(t, err)

	// A bad version nibble at the front discards the whole buffer,
	// including the well-formed frame behind it; no callback fires.
	rest := ep.dispatch(p, append([]byte{0x21, 0x00}, valid...))
	assert.Nil(t, rest)
	assert.Empty(t, delivered)

	// The connection is still usable: later well-formed bytes deliver.
	next, err := amp.Encode(amp.NewMessage(amp.String("after")))
	require.NoError(t, err)
	rest = ep.dispatch(p, next)
	assert.Nil(t, rest)
	assert.Equal(t, []string{"after"}, delivered)
}

func TestDispatchKeepsPartialFrame(t *testing.T) {
	ep := newTestEndpoint(t, Pull)
	var delivered int
	require.NoError(t, ep.OnMessage(func(_ *Endpoint, _ *amp.Message) *amp.Message {
		delivered++
		return nil
	}))
	p := &peer{id: 1}

	frame, err := amp.Encode(amp.NewMessage(amp.String("split")))
	require.NoError(t, err)
	cut := len(frame) - 2

	// The prefix stays pending until the remainder arrives.
	rest := ep.dispatch(p, frame[:cut])
	assert.Equal(t, []byte(frame[:cut]), rest)
	assert.Zero(t, delivered)

	rest = ep.dispatch(p, append(rest, frame[cut:]...))
	assert.Nil(t, rest)
	assert.Equal(t, 1, delivered)
}

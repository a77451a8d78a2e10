// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package axon

import (
	"errors"
	"fmt"
	"net"
)

// Bind starts a listener on the given TCP port. Once the socket is
// bound and listening the bind callback is invoked with the actual
// bound port, so callers binding port 0 can discover it. Accepted
// connections join the endpoint's live peer set. Legal on all roles.
func (ep *Endpoint) Bind(port uint16) error {
	if ep.closed.Load() {
		return ErrClosed
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		err = fmt.Errorf("axon: unable to bind listener socket on port %d: %w", port, err)
		ep.reportError(err)
		return err
	}

	ep.lmu.Lock()
	ep.listeners = append(ep.listeners, lis)
	ep.lmu.Unlock()

	bound := uint16(lis.Addr().(*net.TCPAddr).Port)
	ep.log.Debug().Uint16("port", bound).Msg("listener bound")
	if fn := ep.bindCallback(); fn != nil {
		fn(ep, bound)
	}

	ep.spawn(func() { ep.acceptLoop(lis) })
	return nil
}

// acceptLoop admits inbound peers until the listener is closed. Each
// accepted connection gets its own read loop so decode work stays
// serialized per connection while connections parallelize.
func (ep *Endpoint) acceptLoop(lis net.Listener) {
	for {
		conn, err := lis.Accept()
		if err != nil {
			if ep.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			ep.log.Debug().Err(err).Msg("accept failed")
			continue
		}
		p := ep.peers.add(conn, true)
		ep.log.Debug().Uint64("peer", p.id).Stringer("addr", conn.RemoteAddr()).Msg("peer accepted")
		ep.spawn(func() { ep.readLoop(p) })
	}
}

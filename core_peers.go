// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package axon

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
)

// peer is one live bidirectional TCP stream, either accepted by a
// listener or established by a connector.
type peer struct {
	id      uint64   // stable identifier, never reused
	conn    net.Conn // underlying stream
	inbound bool     // accepted-from-listener vs established-by-connector

	wmu    sync.Mutex // serializes writes
	closed atomic.Bool
}

// write sends the whole buffer to the peer. A short write or error
// means the link is unusable and the caller must evict the peer.
func (p *peer) write(buf []byte) error {
	p.wmu.Lock()
	defer p.wmu.Unlock()
	if p.closed.Load() {
		return net.ErrClosed
	}
	n, err := p.conn.Write(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return fmt.Errorf("axon: short write to peer %d: %d/%d bytes", p.id, n, len(buf))
	}
	return nil
}

func (p *peer) close() {
	if p.closed.CompareAndSwap(false, true) {
		p.conn.Close()
	}
}

// peerSet is the single atomically observable set of live peer
// connections. The round-robin cursor indexes into it. Every mutation
// (accept, connect success, eviction, cursor advance) holds the mutex.
type peerSet struct {
	mu     sync.Mutex
	peers  []*peer
	cursor int
	nextID uint64
}

// add registers a new live connection and returns its peer.
func (ps *peerSet) add(conn net.Conn, inbound bool) *peer {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.nextID++
	p := &peer{id: ps.nextID, conn: conn, inbound: inbound}
	ps.peers = append(ps.peers, p)
	return p
}

// remove evicts the peer from the set and closes its stream.
// Removing an already evicted peer is a no-op.
func (ps *peerSet) remove(p *peer) {
	ps.mu.Lock()
	for i := range ps.peers {
		if ps.peers[i] == p {
			ps.peers = append(ps.peers[:i], ps.peers[i+1:]...)
			if ps.cursor > i {
				ps.cursor--
			}
			break
		}
	}
	ps.mu.Unlock()
	p.close()
}

// next selects the peer after the cursor and advances the cursor.
// Returns nil when no peer is live.
func (ps *peerSet) next() *peer {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if len(ps.peers) == 0 {
		return nil
	}
	ps.cursor %= len(ps.peers)
	p := ps.peers[ps.cursor]
	ps.cursor++
	return p
}

// byID returns the peer with the given identity, or nil if it is gone.
func (ps *peerSet) byID(id uint64) *peer {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for _, p := range ps.peers {
		if p.id == id {
			return p
		}
	}
	return nil
}

// snapshot returns the live peers at this instant.
func (ps *peerSet) snapshot() []*peer {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	out := make([]*peer, len(ps.peers))
	copy(out, ps.peers)
	return out
}

func (ps *peerSet) len() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.peers)
}

// closeAll closes every live stream and empties the set.
func (ps *peerSet) closeAll() {
	ps.mu.Lock()
	peers := ps.peers
	ps.peers = nil
	ps.cursor = 0
	ps.mu.Unlock()
	for _, p := range peers {
		p.close()
	}
}

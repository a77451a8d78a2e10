// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package axon

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/destiny/axon/amp"
)

// subscription is one (pattern, callback) entry. The pattern is a
// POSIX extended regular expression without subgroup capture.
type subscription struct {
	pattern string
	re      *regexp.Regexp
	fn      SubscribeFunc
}

// subscriptions holds the ordered subscription list of a Sub or Pull
// endpoint. Patterns are unique; re-registering replaces the callback
// in place so registration order is stable. The mutex is held while
// walking and invoking callbacks, so subscribe and unsubscribe cannot
// interleave with dispatch.
type subscriptions struct {
	mu      sync.Mutex
	entries []*subscription
}

// set registers or replaces the callback for pattern.
func (s *subscriptions) set(pattern string, fn SubscribeFunc) error {
	re, err := regexp.CompilePOSIX(pattern)
	if err != nil {
		return fmt.Errorf("axon: invalid subscription pattern %q: %w", pattern, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.entries {
		if sub.pattern == pattern {
			sub.fn = fn
			return nil
		}
	}
	s.entries = append(s.entries, &subscription{pattern: pattern, re: re, fn: fn})
	return nil
}

// remove drops the entry for pattern. Removing an absent pattern is a
// no-op.
func (s *subscriptions) remove(pattern string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.entries {
		if sub.pattern == pattern {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

func (s *subscriptions) empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries) == 0
}

// dispatch invokes, in registration order, every entry whose pattern
// matches the topic.
func (s *subscriptions) dispatch(ep *Endpoint, topic string, msg *amp.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.entries {
		if sub.fn != nil && sub.re.MatchString(topic) {
			sub.fn(ep, topic, msg)
		}
	}
}

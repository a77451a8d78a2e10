// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Example push server distributing work round-robin to connected
// pullers.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/destiny/axon"
	"github.com/destiny/axon/amp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	push := axon.New(axon.Push)
	defer push.Close()

	if err := push.Bind(3000); err != nil {
		log.Fatalf("unable to bind: %v", err)
	}
	log.Println("push server started")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	var seq int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Println("sending")
			err := push.Send(
				amp.String("some work to do"),
				amp.Int(seq),
			)
			if err != nil {
				log.Fatalf("unable to send: %v", err)
			}
			seq++
		}
	}
}

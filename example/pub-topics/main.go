// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Example publisher sending a JSON payload to topic1 and topic2 every
// second.
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

	pub := axon.New(axon.Pub)
	defer pub.Close()

	if err := pub.Bind(3000); err != nil {
		log.Fatalf("unable to bind: %v", err)
	}
	log.Println("pub server started")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Println("sending")
			err := pub.Send(
				amp.String("topic1"),
				amp.JSON(map[string]string{"payload": "the payload of topic 1"}),
			)
			if err != nil {
				log.Fatalf("unable to send: %v", err)
			}
			err = pub.Send(
				amp.String("topic2"),
				amp.JSON(map[string]string{"payload": "the payload of topic 2"}),
			)
			if err != nil {
				log.Fatalf("unable to send: %v", err)
			}
		}
	}
}

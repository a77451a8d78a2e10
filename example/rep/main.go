// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Example reply server answering every request with the string
// "world".
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/destiny/axon"
	"github.com/destiny/axon/amp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rep := axon.New(axon.Rep)
	defer rep.Close()

	err := rep.OnMessage(func(ep *axon.Endpoint, msg *amp.Message) *amp.Message {
		log.Println("rep server message received")
		if f, ok := msg.First(); ok && f.Type == amp.TypeJSON {
			log.Printf("  json %s", f.JSON)
		}
		return ep.Reply(amp.String("world"))
	})
	if err != nil {
		log.Fatalf("unable to register callback: %v", err)
	}

	if err := rep.Bind(3000); err != nil {
		log.Fatalf("unable to bind: %v", err)
	}
	log.Println("rep server started")

	<-ctx.Done()
}

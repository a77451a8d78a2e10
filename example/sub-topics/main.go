// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Example subscriber receiving the topic1 and topic2 payloads
// published by pub-topics.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/destiny/axon"
	"github.com/destiny/axon/amp"
)

func onTopic(_ *axon.Endpoint, topic string, msg *amp.Message) {
	log.Printf("sub client message received from topic %q", topic)
	for _, f := range msg.Fields() {
		switch f.Type {
		case amp.TypeBlob:
			log.Printf("  blob   %x", f.Data)
		case amp.TypeString:
			log.Printf("  string %s", f.Str)
		case amp.TypeBigInt:
			log.Printf("  bigint %d", f.Int)
		case amp.TypeJSON:
			log.Printf("  json   %s", f.JSON)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sub := axon.New(axon.Sub)
	defer sub.Close()

	if err := sub.Subscribe("topic1", onTopic); err != nil {
		log.Fatalf("unable to subscribe: %v", err)
	}
	if err := sub.Subscribe("topic2", onTopic); err != nil {
		log.Fatalf("unable to subscribe: %v", err)
	}
	if err := sub.Connect("127.0.0.1", 3000); err != nil {
		log.Fatalf("unable to connect: %v", err)
	}
	log.Println("sub client started")

	<-ctx.Done()
}

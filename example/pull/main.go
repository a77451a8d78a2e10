// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Example pull worker receiving its share of the frames distributed by
// the push server.
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

	pull := axon.New(axon.Pull)
	defer pull.Close()

	err := pull.OnMessage(func(_ *axon.Endpoint, msg *amp.Message) *amp.Message {
		log.Println("pull client message received")
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
		return nil
	})
	if err != nil {
		log.Fatalf("unable to register callback: %v", err)
	}

	if err := pull.Connect("127.0.0.1", 3000); err != nil {
		log.Fatalf("unable to connect: %v", err)
	}
	log.Println("pull client started")

	<-ctx.Done()
}

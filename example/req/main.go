// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Example request client sending {"hello":"world"} every second and
// printing the reply.
package main

import (
	"context"
	"errors"
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

	req := axon.New(axon.Req)
	defer req.Close()

	if err := req.Connect("127.0.0.1", 3000); err != nil {
		log.Fatalf("unable to connect: %v", err)
	}
	log.Println("req client started")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Println("sending")
			reply, err := req.Request(5*time.Second, amp.JSON(map[string]string{"hello": "world"}))
			if errors.Is(err, axon.ErrReplyTimeout) {
				log.Println("no reply within timeout")
				continue
			}
			if err != nil {
				log.Fatalf("request failed: %v", err)
			}
			log.Println("req client message received")
			for _, f := range reply.Fields() {
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
	}
}

// Minimal example for the LOS API client demonstrating a basic GET plus a
// slightly more advanced client showing cached calls, lifecycle notifications
// and metrics. See README for extended patterns.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	losapi "github.com/zooxsmart/los-api-client"
)

const demoRoot = "https://httpbin.org/"

func main() {
	// --- Basic client (batteries-included defaults) ---
	basic := losapi.New(demoRoot,
		losapi.WithSimpleLogger(),
	)
	if !basic.IsValid() {
		log.Fatalf("invalid basic client config: %v", basic.ValidationError())
	}
	ctx := context.Background()
	res, err := basic.Get(ctx, "/json", nil)
	if err != nil {
		log.Fatalf("basic GET failed: %v", err)
	}
	fmt.Println("basic GET keys:", len(res.Map()))

	// --- Advanced snippet: cached calls + notifier + metrics ---
	advanced := losapi.New(demoRoot,
		losapi.WithInMemoryCache(),
		losapi.WithDefaultTTL(2*time.Minute),
		losapi.WithMetrics(),
		losapi.WithNotifier(losapi.NotifierFunc(func(name string, ev *losapi.Event) {
			if ev.Request != nil {
				fmt.Printf("event %s for %s\n", name, ev.Request.URL.Path)
			}
		})),
	)

	// Two cached calls: the second is served from memory, no round trip.
	for i := 0; i < 2; i++ {
		cached, err := advanced.GetCached(ctx, "/json", "demo-json", nil, time.Minute)
		if err != nil {
			log.Fatalf("cached GET failed: %v", err)
		}
		fmt.Println("cached GET error resource:", cached.IsError())
	}

	// Derived client: copy-on-write mutation, the original keeps its headers.
	scoped := advanced.WithHeader("Authorization", "Bearer demo-token")
	if _, err := scoped.Post(ctx, "/anything", &losapi.CallOptions{
		Body:         map[string]any{"name": "x"},
		AddRequestID: true,
	}); err != nil {
		log.Fatalf("POST failed: %v", err)
	}
	fmt.Println("last status:", scoped.LastResponse().StatusCode)
}

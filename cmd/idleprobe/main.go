// Test program that logs raw idle notifications from the configured daemon.
package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/llehouerou/mpdlive/internal/config"
	"github.com/llehouerou/mpdlive/internal/mpd"
)

func main() {
	only := flag.String("only", "", "space separated idle categories (default: the status set)")
	probeDuration := flag.Duration("for", 2*time.Minute, "how long to listen")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	ep := cfg.Endpoint()

	log.Printf("Connecting to %s", ep.Address())
	ctx, cancel := context.WithTimeout(context.Background(), ep.DialTimeout)
	conn, err := mpd.GompdDialer{}.Dial(ctx, ep)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	if ep.Password != "" {
		if err := conn.Authenticate(ep.Password); err != nil {
			log.Fatalf("Failed to authenticate: %v", err)
		}
	}

	cats := mpd.StatusCategories
	if *only != "" {
		cats = nil
		for _, c := range strings.Fields(*only) {
			cats = append(cats, mpd.Category(c))
		}
	}

	time.AfterFunc(*probeDuration, func() {
		log.Println("Probe time elapsed, cancelling wait")
		_ = conn.CancelWait()
	})

	log.Printf("Waiting for %v changes for %s", cats, *probeDuration)
	for {
		changed, err := conn.Wait(cats...)
		if err != nil {
			log.Printf("Wait ended: %v", err)
			return
		}
		log.Printf("Changed: %v", changed)

		st, err := conn.Status()
		if err != nil {
			log.Printf("Status failed: %v", err)
			return
		}
		log.Printf("  state=%s volume=%s song=%s elapsed=%s", st["state"], st["volume"], st["song"], st["elapsed"])
	}
}


package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/vovakirdan/messageboard/internal/client"
	"github.com/vovakirdan/messageboard/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "http://localhost:5000", "board base URL")
	name := flag.String("name", "tester", "name to post as")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c := client.New(*addr)

	before, err := c.ListMessages(ctx)
	if err != nil {
		return fmt.Errorf("list before: %w", err)
	}

	streamed := make(chan proto.MessageRecord, 1)
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go func() {
		_ = c.Watch(watchCtx, func(r proto.MessageRecord) {
			select {
			case streamed <- r:
			default:
			}
		})
	}()
	// Give the stream a moment to subscribe before posting.
	time.Sleep(200 * time.Millisecond)

	if _, err := c.PostMessage(ctx, *name, *text); err != nil {
		return fmt.Errorf("post: %w", err)
	}
	log.Printf("posted %q as %q", *text, *name)

	after, err := c.ListMessages(ctx)
	if err != nil {
		return fmt.Errorf("list after: %w", err)
	}
	if len(after) != len(before)+1 {
		return fmt.Errorf("expected %d messages, got %d", len(before)+1, len(after))
	}
	last := after[len(after)-1]
	if last.Name != *name || last.Message != *text {
		return fmt.Errorf("last message mismatch: %+v", last)
	}
	log.Printf("list ok: %d messages", len(after))

	if _, err := c.PostMessage(ctx, "", *text); !errors.Is(err, client.ErrMissingFields) {
		return fmt.Errorf("expected client-side rejection, got %v", err)
	}

	select {
	case r := <-streamed:
		log.Printf("stream ok: %s: %s", r.Name, r.Message)
	case <-ctx.Done():
		return fmt.Errorf("no message on stream: %w", ctx.Err())
	}
	return nil
}

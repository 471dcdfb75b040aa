// Package telemetry wraps the PostHog client behind an optional tracker: an
// empty API key yields a tracker that drops every event.
package telemetry

import (
	"log"

	"github.com/posthog/posthog-go"
)

// Tracker forwards named events with properties to PostHog.
type Tracker struct {
	client posthog.Client
}

// New builds a Tracker. With an empty key, or if the client fails to
// initialize, tracking is disabled and every call is a no-op.
func New(key, host string) *Tracker {
	if key == "" {
		return &Tracker{}
	}
	client, err := posthog.NewWithConfig(key, posthog.Config{
		Endpoint: host,
	})
	if err != nil {
		log.Printf("Failed to initialize PostHog: %v", err)
		return &Tracker{}
	}
	return &Tracker{client: client}
}

// Track enqueues an event. Safe to call on a disabled tracker.
func (t *Tracker) Track(event string, props map[string]interface{}) {
	if t.client == nil {
		return
	}
	t.client.Enqueue(posthog.Capture{
		DistinctId: "cli_user",
		Event:      event,
		Properties: props,
	})
}

// Close flushes pending events.
func (t *Tracker) Close() {
	if t.client != nil {
		t.client.Close()
	}
}

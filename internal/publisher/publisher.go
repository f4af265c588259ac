// Package publisher republishes a subset of the device settings onto the
// message bus whenever their values change.
package publisher

import (
	"context"
	"fmt"
	"log"
	"time"

	"cataway-backend/internal/bus"
	"cataway-backend/internal/store"
)

// messageFor formats the human-readable bus message for a tracked setting.
// Numeric values are shortened to the leading four characters, matching the
// established consumer format ("4.50" rather than "4.500000").
func messageFor(name, value string) string {
	switch name {
	case "weight":
		return fmt.Sprintf("The weight of the cat is %s", shorten(value))
	case "age":
		return fmt.Sprintf("The age of the cat is %s", shorten(value))
	case "eatingSpeed":
		return fmt.Sprintf("The cat has a %s eating speed \n", value)
	}
	return fmt.Sprintf("%s is %s", name, value)
}

func shorten(v string) string {
	if len(v) > 4 {
		return v[:4]
	}
	return v
}

// trackedSettings are sampled every poll round, in a fixed order.
var trackedSettings = []string{"weight", "age", "eatingSpeed"}

// Service polls the setting store and publishes a message for every tracked
// setting whose value changed since the previous round.
type Service struct {
	store    *store.Store
	pub      bus.Publisher
	interval time.Duration

	// lastSeen is owned exclusively by the publisher goroutine; no
	// synchronization is needed on it.
	lastSeen map[string]string
}

// NewService creates a publisher service polling at the given interval.
func NewService(st *store.Store, pub bus.Publisher, interval time.Duration) *Service {
	return &Service{
		store:    st,
		pub:      pub,
		interval: interval,
		lastSeen: make(map[string]string, len(trackedSettings)),
	}
}

// Run starts the polling loop. It samples the current values once before
// ticking so only changes made after startup are published, and exits when
// the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	log.Println("Starting settings publisher...")
	s.prime()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Settings publisher shutting down.")
			return
		case <-ticker.C:
			s.PublishChanges()
		}
	}
}

// prime records the current values without publishing.
func (s *Service) prime() {
	for _, name := range trackedSettings {
		if value, found := s.store.Get(name); found {
			s.lastSeen[name] = value
		}
	}
}

// PublishChanges performs one change-detection round. Publish failures are
// logged and never stop the loop; the last-seen value is advanced either
// way so a flaky broker does not replay stale changes forever.
func (s *Service) PublishChanges() {
	for _, name := range trackedSettings {
		value, found := s.store.Get(name)
		if !found || value == s.lastSeen[name] {
			continue
		}
		if err := s.pub.Publish(messageFor(name, value)); err != nil {
			log.Printf("publish %s change: %v", name, err)
		}
		s.lastSeen[name] = value
	}
}

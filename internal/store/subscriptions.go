package store

import (
	"sync"
	"time"
)

// Subscription holds a browser push subscription and the alert names it
// wants to be notified about.
type Subscription struct {
	Endpoint  string
	P256DH    string
	Auth      string
	Alerts    []string
	CreatedAt time.Time
}

// SubscriptionStore keeps push subscriptions in memory, keyed by endpoint.
// Like the device state, subscriptions live for the process lifetime only.
type SubscriptionStore struct {
	mu   sync.RWMutex
	subs map[string]Subscription
}

// NewSubscriptionStore creates an empty subscription store.
func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{subs: make(map[string]Subscription)}
}

// Upsert creates or replaces the subscription for its endpoint.
func (s *SubscriptionStore) Upsert(sub Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.subs[sub.Endpoint]; ok {
		sub.CreatedAt = existing.CreatedAt
	} else if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	s.subs[sub.Endpoint] = sub
}

// Get returns the subscription for an endpoint.
func (s *SubscriptionStore) Get(endpoint string) (Subscription, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subs[endpoint]
	return sub, ok
}

// Delete removes the subscription for an endpoint. Deleting an unknown
// endpoint is a no-op.
func (s *SubscriptionStore) Delete(endpoint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, endpoint)
}

// ForAlert returns every subscription that follows the given alert name.
func (s *SubscriptionStore) ForAlert(alert string) []Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Subscription
	for _, sub := range s.subs {
		for _, a := range sub.Alerts {
			if a == alert {
				out = append(out, sub)
				break
			}
		}
	}
	return out
}

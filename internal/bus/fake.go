package bus

import "sync"

// FakePublisher records published payloads for test assertions.
type FakePublisher struct {
	mu sync.Mutex

	// payloads contains every message that was published.
	payloads []string

	// PublishError, if set, will be returned by Publish.
	PublishError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// Publish records the payload.
func (f *FakePublisher) Publish(payload string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

// Payloads returns a copy of the recorded payloads.
func (f *FakePublisher) Payloads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.payloads))
	copy(out, f.payloads)
	return out
}

// SetPublishError makes subsequent Publish calls fail with err.
func (f *FakePublisher) SetPublishError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PublishError = err
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

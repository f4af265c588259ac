package publisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cataway-backend/internal/bus"
	"cataway-backend/internal/device"
	"cataway-backend/internal/store"
)

func newTestService() (*Service, *store.Store, *bus.FakePublisher) {
	s := store.New(device.NewState())
	fake := bus.NewFakePublisher()
	svc := NewService(s, fake, time.Millisecond)
	svc.prime()
	return svc, s, fake
}

func TestPublishChangesOnDiff(t *testing.T) {
	svc, s, fake := newTestService()

	require.Equal(t, store.SetOK, s.Set("weight", "4.5"))
	svc.PublishChanges()

	payloads := fake.Payloads()
	require.Len(t, payloads, 1)
	assert.Equal(t, "The weight of the cat is 4.50", payloads[0])

	// No change, no message.
	svc.PublishChanges()
	assert.Len(t, fake.Payloads(), 1)
}

func TestPublishTracksAllSettings(t *testing.T) {
	svc, s, fake := newTestService()

	s.Set("weight", "4.5")
	s.Set("age", "0.75")
	s.Set("eatingSpeed", "slow")
	svc.PublishChanges()

	payloads := fake.Payloads()
	require.Len(t, payloads, 3)
	assert.Equal(t, "The weight of the cat is 4.50", payloads[0])
	assert.Equal(t, "The age of the cat is 0.75", payloads[1])
	assert.Equal(t, "The cat has a slow eating speed \n", payloads[2])
}

func TestPrimeSuppressesStartupValues(t *testing.T) {
	_, _, fake := newTestService()
	assert.Empty(t, fake.Payloads())
}

func TestPublishFailureIsNotFatal(t *testing.T) {
	svc, s, fake := newTestService()

	fake.SetPublishError(errors.New("broker gone"))
	s.Set("weight", "5.0")
	svc.PublishChanges()
	assert.Empty(t, fake.Payloads())

	// The change was consumed, not replayed, and the loop keeps working on
	// the next change.
	fake.SetPublishError(nil)
	svc.PublishChanges()
	assert.Empty(t, fake.Payloads())

	s.Set("weight", "6.0")
	svc.PublishChanges()
	require.Len(t, fake.Payloads(), 1)
	assert.Equal(t, "The weight of the cat is 6.00", fake.Payloads()[0])
}

func TestRunStopsOnContextCancel(t *testing.T) {
	svc, _, _ := newTestService()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher did not stop on context cancellation")
	}
}

// Package notification delivers web push messages when a device alert
// changes severity.
package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"cataway-backend/internal/device"
	"cataway-backend/internal/store"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of Sender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Transition is an observed alert severity change.
type Transition struct {
	Alert    string
	Severity device.Severity
}

// WorkerPool manages a pool of workers for sending alert notifications.
type WorkerPool struct {
	size    int
	jobs    chan Transition
	subs    *store.SubscriptionStore
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool reading subscriptions from subs.
func NewWorkerPool(size int, subs *store.SubscriptionStore, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Transition, size*4),
		subs:    subs,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
	}
}

// SetSender overrides the push sender. Test hook.
func (wp *WorkerPool) SetSender(s Sender) {
	wp.sender = s
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Notification worker %d started", id)
	for {
		select {
		case t := <-wp.jobs:
			wp.sendForTransition(t)
		case <-ctx.Done():
			log.Printf("Notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues an alert transition. It never blocks: a full queue drops
// the job so a slow push service cannot stall setting writes.
func (wp *WorkerPool) Dispatch(t Transition) {
	select {
	case wp.jobs <- t:
	default:
		log.Printf("notification queue full, dropping transition for %q", t.Alert)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Transition {
	return wp.jobs
}

// sendForTransition looks up the alert's subscribers and pushes to each.
func (wp *WorkerPool) sendForTransition(t Transition) {
	subscriptions := wp.subs.ForAlert(t.Alert)
	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for alert %q", len(subscriptions), t.Alert)

	message := fmt.Sprintf("CatAway alert %q is now %s", t.Alert, t.Severity)
	for _, sub := range subscriptions {
		wp.sendNotification(sub, []byte(message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(sub store.Subscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		wp.subs.Delete(sub.Endpoint)
	}
}

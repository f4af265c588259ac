// Package bus provides the message-bus sink for republished settings, with
// an abstraction for testing.
package bus

// Publisher publishes formatted setting messages to the broker.
type Publisher interface {
	// Publish sends one message. Returns an error if publishing fails;
	// failures must never crash the process.
	Publish(payload string) error

	// Close disconnects from the broker.
	Close() error
}

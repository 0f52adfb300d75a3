package messagequeue

import "context"

// MessageQueue defines the interface for message queue services.
type MessageQueue interface {
	Publish(queueName string, body []byte) error
	// Consume delivers messages from queueName to handler until ctx is done.
	Consume(ctx context.Context, queueName string, handler func(body []byte)) error
	Close() error
}

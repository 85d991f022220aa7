package services

import (
	"errors"
	"sync"

	"diskmosaic/internal/models"
)

// ErrReceiverClosed is returned by Send once the consumer is gone.
var ErrReceiverClosed = errors.New("message receiver closed")

// mailbox is an unbounded multi-producer single-consumer queue.
// Producers never block on the consumer.
type mailbox struct {
	mu     sync.Mutex
	queue  []models.Message
	closed bool
}

// Sender is the producer side of a message channel. It is safe for
// concurrent use by any number of scan goroutines.
type Sender struct {
	box *mailbox
}

// Receiver is the consumer side of a message channel.
type Receiver struct {
	box *mailbox
}

// NewChannel returns the two ends of a new message channel.
func NewChannel() (*Sender, *Receiver) {
	box := &mailbox{}
	return &Sender{box: box}, &Receiver{box: box}
}

// Send queues msg for the consumer.
func (s *Sender) Send(msg models.Message) error {
	s.box.mu.Lock()
	defer s.box.mu.Unlock()
	if s.box.closed {
		return ErrReceiverClosed
	}
	s.box.queue = append(s.box.queue, msg)
	return nil
}

// Drain returns every queued message without blocking. Messages from one
// sender keep their send order.
func (r *Receiver) Drain() []models.Message {
	r.box.mu.Lock()
	defer r.box.mu.Unlock()
	msgs := r.box.queue
	r.box.queue = nil
	return msgs
}

// Len returns the number of queued messages.
func (r *Receiver) Len() int {
	r.box.mu.Lock()
	defer r.box.mu.Unlock()
	return len(r.box.queue)
}

// Close drops pending messages; later sends fail with ErrReceiverClosed.
func (r *Receiver) Close() {
	r.box.mu.Lock()
	defer r.box.mu.Unlock()
	r.box.closed = true
	r.box.queue = nil
}

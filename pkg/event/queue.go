package event

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrDrained        = errors.New("all producers closed")
	ErrReceiverGone   = errors.New("queue receiver closed")
	ErrProducerClosed = errors.New("producer closed")
)

func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Queue delivers events from any number of producers to a single consumer.
// It is unbounded, so Send never blocks the caller. Events of one producer
// keep their order; nothing is promised across producers.
type Queue struct {
	mu        sync.Mutex
	items     []Event
	producers int
	closed    bool
	ready     chan struct{}
}

// Producer hands out a new sending handle. The queue drains once every
// handle obtained here is closed.
func (q *Queue) Producer() *Producer {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.producers++
	return &Producer{q: q}
}

// Receive blocks until an event is available, every producer is gone
// (ErrDrained) or ctx is done. A done ctx wins over buffered events.
func (q *Queue) Receive(ctx context.Context) (Event, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Event{}, err
		}

		q.mu.Lock()
		if len(q.items) > 0 {
			ev := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return ev, nil
		}
		if q.producers == 0 {
			q.mu.Unlock()
			return Event{}, ErrDrained
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return Event{}, ctx.Err()
		case <-q.ready:
		}
	}
}

// Close drops the receiving side. Later sends fail with ErrReceiverGone.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.items = nil
}

// Len is the number of events waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) push(ev Event) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrReceiverGone
	}
	q.items = append(q.items, ev)
	q.mu.Unlock()
	q.signal()
	return nil
}

func (q *Queue) release() {
	q.mu.Lock()
	q.producers--
	q.mu.Unlock()
	q.signal()
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Producer is one independently closable sending handle.
type Producer struct {
	q    *Queue
	mu   sync.Mutex
	done bool
}

func (p *Producer) Send(ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return ErrProducerClosed
	}
	return p.q.push(ev)
}

// Close releases the handle. Closing twice is a no-op.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return nil
	}
	p.done = true
	p.q.release()
	return nil
}

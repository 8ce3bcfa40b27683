package tui

import (
	"sync"

	"github.com/rs/zerolog/log"
)

const dispatchQueueSize = 64

// dispatcher runs queued functions one at a time, in the order they were queued
type dispatcher struct {
	mu     sync.Mutex
	jobs   chan func()
	closed bool
}

func newDispatcher(size int) *dispatcher {
	d := &dispatcher{jobs: make(chan func(), size)}
	go d.run()
	return d
}

func (d *dispatcher) run() {
	for f := range d.jobs {
		f()
	}
}

// Dispatch queues f. It never blocks the caller: when the queue is full or the
// dispatcher is closed, f is dropped.
func (d *dispatcher) Dispatch(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	select {
	case d.jobs <- f:
	default:
		log.Warn().Msg("input queue full, dropping key press")
	}
}

// Close stops accepting work; queued functions still run
func (d *dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true
	close(d.jobs)
}

package engine

import (
	"sync/atomic"
)

// InputKind enumerates pointer and control input
type InputKind uint8

const (
	InputMove InputKind = iota + 1
	InputDown
	InputUp
	InputWheel
	InputCancel // Leave drill-down and drop hover
)

func (k InputKind) String() string {
	switch k {
	case InputMove:
		return "move"
	case InputDown:
		return "down"
	case InputUp:
		return "up"
	case InputWheel:
		return "wheel"
	case InputCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// InputEvent is one pointer sample in surface-local cell coordinates
type InputEvent struct {
	Kind  InputKind
	X, Y  float64
	Delta float64 // Wheel steps, positive zooms out
}

// InputQueueSize bounds pending input between frames
const InputQueueSize = 256

// InputQueue buffers input from the terminal goroutine until the next frame drains it
// Full queue drops new events; a closed queue drops everything
type InputQueue struct {
	ch      chan InputEvent
	closed  atomic.Bool
	dropped atomic.Uint64
}

func NewInputQueue() *InputQueue {
	return &InputQueue{ch: make(chan InputEvent, InputQueueSize)}
}

// Push enqueues ev without blocking; returns false when dropped
func (q *InputQueue) Push(ev InputEvent) bool {
	if q.closed.Load() {
		return false
	}
	select {
	case q.ch <- ev:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Drain hands every pending event to fn in arrival order and returns the count
func (q *InputQueue) Drain(fn func(InputEvent)) int {
	n := 0
	for {
		select {
		case ev := <-q.ch:
			if !q.closed.Load() {
				fn(ev)
				n++
			}
		default:
			return n
		}
	}
}

// Close detaches the queue from its producers
func (q *InputQueue) Close() {
	q.closed.Store(true)
}

func (q *InputQueue) Closed() bool    { return q.closed.Load() }
func (q *InputQueue) Dropped() uint64 { return q.dropped.Load() }
func (q *InputQueue) Len() int        { return len(q.ch) }

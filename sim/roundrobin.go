// Implements the Round-Robin discipline: N fixed FIFO queues visited by a
// rotating pointer.

package sim

import (
	"fmt"

	"github.com/qos-sim/qos-sim/sim/trace"
)

// Round-Robin construction defaults used when Config leaves them zero.
const (
	DefaultRRQueues  = 3
	DefaultRRQuantum = 0.5
)

// RoundRobin distributes packets across a fixed set of FIFO queues and
// services them in rotation. Placement is `packet ID mod N` — a fixed,
// arrival-order-independent assignment that approximates round-robin
// scheduling without true per-flow classification.
//
// The pointer advances by one position after every selection regardless of
// which queue served, so every non-empty queue is visited before any is
// revisited. Service is non-preemptive: each selected packet runs to
// completion in one step, and the configured quantum never fragments it.
type RoundRobin struct {
	disciplineState
	queues  [][]*Packet
	cursor  int
	quantum float64
}

// NewRoundRobin creates a Round-Robin discipline with numQueues FIFO
// queues. capacity bounds the total queued packets across all queues
// (0 = unbounded). A non-positive queue count or quantum is a
// construction error, never clamped.
func NewRoundRobin(numQueues int, quantum float64, capacity int, tracer *trace.SimulationTrace) (*RoundRobin, error) {
	if numQueues <= 0 {
		return nil, fmt.Errorf("round-robin queue count must be > 0, got %d", numQueues)
	}
	if quantum <= 0 {
		return nil, fmt.Errorf("round-robin quantum must be > 0, got %g", quantum)
	}
	return &RoundRobin{
		disciplineState: disciplineState{
			name:     DisciplineRoundRobin,
			capacity: capacity,
			tracer:   tracer,
		},
		queues:  make([][]*Packet, numQueues),
		quantum: quantum,
	}, nil
}

// NumQueues returns the configured queue count.
func (rr *RoundRobin) NumQueues() int {
	return len(rr.queues)
}

// Admit routes the packet to queue `ID mod N`, or tail-drops it when a
// finite total capacity is reached.
func (rr *RoundRobin) Admit(p *Packet) {
	if rr.capacity > 0 && rr.Len() >= rr.capacity {
		rr.drop(p, trace.DropTail)
		return
	}
	idx := p.ID % len(rr.queues)
	if idx < 0 {
		idx += len(rr.queues)
	}
	rr.queues[idx] = append(rr.queues[idx], p)
}

// SelectNext scans forward from the pointer for the first non-empty queue,
// services its head, and advances the pointer by one position.
func (rr *RoundRobin) SelectNext() (*Packet, bool) {
	n := len(rr.queues)
	selected := -1
	for offset := 0; offset < n; offset++ {
		idx := (rr.cursor + offset) % n
		if len(rr.queues[idx]) > 0 {
			selected = idx
			break
		}
	}
	if selected < 0 {
		return nil, false
	}

	p := rr.queues[selected][0]
	rr.queues[selected] = rr.queues[selected][1:]

	// Advance past the served queue, not merely to it, so the next
	// selection starts at the following position.
	rr.cursor = (selected + 1) % n

	rr.service(p)
	return p, true
}

func (rr *RoundRobin) IsEmpty() bool {
	for _, q := range rr.queues {
		if len(q) > 0 {
			return false
		}
	}
	return true
}

func (rr *RoundRobin) Len() int {
	total := 0
	for _, q := range rr.queues {
		total += len(q)
	}
	return total
}

func (rr *RoundRobin) Reset() {
	rr.resetState()
	for i := range rr.queues {
		rr.queues[i] = nil
	}
	rr.cursor = 0
}

// Implements the FCFS (First-Come-First-Served) discipline: a single FIFO
// container with tail-drop under a capacity bound.

package sim

import (
	"github.com/qos-sim/qos-sim/sim/trace"
)

// FCFS services packets strictly in admission order. With a finite capacity
// the newest arrival is tail-dropped when the queue is full. No reordering
// ever occurs.
type FCFS struct {
	disciplineState
	queue []*Packet
}

// NewFCFS creates an FCFS discipline. capacity 0 means unbounded.
func NewFCFS(capacity int, tracer *trace.SimulationTrace) *FCFS {
	return &FCFS{
		disciplineState: disciplineState{
			name:     DisciplineFCFS,
			capacity: capacity,
			tracer:   tracer,
		},
	}
}

// Admit appends the packet, or tail-drops it when the queue is at capacity.
func (f *FCFS) Admit(p *Packet) {
	if f.capacity > 0 && len(f.queue) >= f.capacity {
		f.drop(p, trace.DropTail)
		return
	}
	f.queue = append(f.queue, p)
}

// SelectNext services the head of the queue.
func (f *FCFS) SelectNext() (*Packet, bool) {
	if len(f.queue) == 0 {
		return nil, false
	}
	p := f.queue[0]
	f.queue = f.queue[1:]
	f.service(p)
	return p, true
}

func (f *FCFS) IsEmpty() bool {
	return len(f.queue) == 0
}

func (f *FCFS) Len() int {
	return len(f.queue)
}

func (f *FCFS) Reset() {
	f.resetState()
	f.queue = nil
}

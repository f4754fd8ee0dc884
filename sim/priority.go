// Implements the Priority discipline: a max-heap ordered by the packet
// priority contract (higher priority first, ties by earlier arrival).

package sim

import (
	"container/heap"

	"github.com/qos-sim/qos-sim/sim/trace"
)

// packetHeap implements heap.Interface over the packet ordering contract.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type packetHeap []*Packet

func (h packetHeap) Len() int           { return len(h) }
func (h packetHeap) Less(i, j int) bool { return h[i].Before(h[j]) }
func (h packetHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *packetHeap) Push(x any) {
	*h = append(*h, x.(*Packet))
}

func (h *packetHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}

// Priority always services the highest-priority queued packet next.
// Starvation of low-priority flows under sustained high-priority load is
// the defining trade-off of this discipline, not a bug: no aging or
// escalation is applied.
//
// The baseline variant is unbounded; a finite capacity adds tail-drop.
type Priority struct {
	disciplineState
	heap packetHeap
}

// NewPriority creates a Priority discipline. capacity 0 means unbounded.
func NewPriority(capacity int, tracer *trace.SimulationTrace) *Priority {
	return &Priority{
		disciplineState: disciplineState{
			name:     DisciplinePriority,
			capacity: capacity,
			tracer:   tracer,
		},
	}
}

// Admit inserts the packet into the heap, or tail-drops it when a finite
// capacity is reached.
func (pq *Priority) Admit(p *Packet) {
	if pq.capacity > 0 && len(pq.heap) >= pq.capacity {
		pq.drop(p, trace.DropTail)
		return
	}
	heap.Push(&pq.heap, p)
}

// SelectNext services the maximum-priority packet.
func (pq *Priority) SelectNext() (*Packet, bool) {
	if len(pq.heap) == 0 {
		return nil, false
	}
	p := heap.Pop(&pq.heap).(*Packet)
	pq.service(p)
	return p, true
}

func (pq *Priority) IsEmpty() bool {
	return len(pq.heap) == 0
}

func (pq *Priority) Len() int {
	return len(pq.heap)
}

func (pq *Priority) Reset() {
	pq.resetState()
	pq.heap = nil
}

// Implements the LAS (Least-Attained-Service) discipline: per-flow FIFO
// queues ordered by cumulative service received, with fairness-aware
// dropping under a capacity bound.

package sim

import (
	"sort"

	"github.com/qos-sim/qos-sim/sim/trace"
)

// LAS always services the flow that has received the least total service
// so far. A newly arriving flow has zero attained service and is therefore
// served ahead of any flow that has already consumed service — this
// minimizes mean latency for short flows but can starve large ("elephant")
// flows while short ("mice") flows keep arriving.
//
// Under a finite capacity, admission evicts from the worst offender: the
// packet at the tail of the non-empty flow with the greatest attained
// service is dropped to make room. Only when no queued flow exists does
// the arriving packet itself get dropped.
//
// Attained-service accumulators persist after a flow's queue drains; an
// elephant that pauses and resumes keeps its history. All minimum and
// maximum selections break ties on the lowest flow id.
type LAS struct {
	disciplineState
	flowQueues map[int][]*Packet
	attained   map[int]float64
}

// NewLAS creates a LAS discipline. capacity 0 means unbounded.
func NewLAS(capacity int, tracer *trace.SimulationTrace) *LAS {
	return &LAS{
		disciplineState: disciplineState{
			name:     DisciplineLAS,
			capacity: capacity,
			tracer:   tracer,
		},
		flowQueues: make(map[int][]*Packet),
		attained:   make(map[int]float64),
	}
}

// activeFlows returns the ids of flows with queued packets, sorted
// ascending for deterministic iteration.
func (l *LAS) activeFlows() []int {
	flows := make([]int, 0, len(l.flowQueues))
	for id := range l.flowQueues {
		flows = append(flows, id)
	}
	sort.Ints(flows)
	return flows
}

// Admit routes the packet to its flow's queue. At capacity, a packet is
// first evicted from the tail of the most-served flow's queue.
func (l *LAS) Admit(p *Packet) {
	if l.capacity > 0 && l.Len() >= l.capacity {
		victim := l.mostServedFlow()
		if victim < 0 {
			// No queued flow to evict from; drop the arrival itself.
			l.drop(p, trace.DropTail)
			return
		}
		q := l.flowQueues[victim]
		evicted := q[len(q)-1]
		l.flowQueues[victim] = q[:len(q)-1]
		if len(l.flowQueues[victim]) == 0 {
			delete(l.flowQueues, victim)
		}
		l.drop(evicted, trace.DropElephant)
	}
	l.flowQueues[p.Priority] = append(l.flowQueues[p.Priority], p)
}

// mostServedFlow returns the non-empty flow with the greatest attained
// service, or -1 when no flow has queued packets. Ties resolve to the
// lowest flow id.
func (l *LAS) mostServedFlow() int {
	bestFlow := -1
	bestAttained := 0.0
	for _, flow := range l.activeFlows() {
		a := l.attained[flow]
		if bestFlow < 0 || a > bestAttained {
			bestFlow = flow
			bestAttained = a
		}
	}
	return bestFlow
}

// SelectNext services the head packet of the flow with the least attained
// service, crediting that flow's accumulator.
func (l *LAS) SelectNext() (*Packet, bool) {
	bestFlow := -1
	bestAttained := 0.0
	for _, flow := range l.activeFlows() {
		a := l.attained[flow]
		if bestFlow < 0 || a < bestAttained {
			bestFlow = flow
			bestAttained = a
		}
	}
	if bestFlow < 0 {
		return nil, false
	}

	p := l.flowQueues[bestFlow][0]
	l.flowQueues[bestFlow] = l.flowQueues[bestFlow][1:]
	if len(l.flowQueues[bestFlow]) == 0 {
		delete(l.flowQueues, bestFlow)
	}
	l.attained[bestFlow] += p.ServiceTime

	l.service(p)
	return p, true
}

// AttainedService returns the cumulative service granted to a flow.
func (l *LAS) AttainedService(flow int) float64 {
	return l.attained[flow]
}

func (l *LAS) IsEmpty() bool {
	return len(l.flowQueues) == 0
}

func (l *LAS) Len() int {
	total := 0
	for _, q := range l.flowQueues {
		total += len(q)
	}
	return total
}

func (l *LAS) Reset() {
	l.resetState()
	l.flowQueues = make(map[int][]*Packet)
	l.attained = make(map[int]float64)
}

// Implements the flow-aware Fair Queue discipline: one FIFO queue per flow
// with two selectable fairness bookkeeping variants and fair-share dropping.

package sim

import (
	"fmt"
	"sort"

	"github.com/qos-sim/qos-sim/sim/trace"
)

// Fair Queue bookkeeping variants accepted by NewFairQueue.
const (
	// FQFinishTime approximates bit-by-bit round-robin: each flow's head
	// packet gets a virtual finish time, and the smallest finish time is
	// serviced first. Service interleaving is weighted by packet size
	// (service time).
	FQFinishTime = "finish-time"

	// FQRoundRobin tracks each flow's total granted service independently
	// and always serves the flow with the least, giving exact rotation
	// among active flows rather than size-weighted interleaving.
	FQRoundRobin = "round-robin"
)

// validFQVariants maps accepted Fair Queue variant strings.
var validFQVariants = map[string]bool{
	FQFinishTime: true,
	FQRoundRobin: true,
}

// IsValidFQVariant returns true if the given name is a recognized Fair Queue variant.
func IsValidFQVariant(name string) bool {
	return validFQVariants[name]
}

// FairQueue keeps one FIFO queue per flow (flow id = packet priority) and
// selects between flows by fairness bookkeeping rather than arrival order.
//
// With a finite capacity the bound is enforced as a fair share per flow:
// on admission, per-flow limit = max(1, capacity / active flow count), and
// a packet whose flow is already at its limit is dropped. This protects
// small flows from one flow monopolizing the buffer. Flow queues that
// drain are pruned after each selection so the active flow count stays
// current; fairness accumulators persist across pruning because erasing
// them would reset a flow's service history.
type FairQueue struct {
	disciplineState
	variant    string
	flowQueues map[int][]*Packet

	// finish-time variant state
	virtualTime float64
	lastFinish  map[int]float64

	// round-robin variant state
	granted map[int]float64
}

// NewFairQueue creates a Fair Queue discipline using the named variant.
// capacity 0 means unbounded.
func NewFairQueue(variant string, capacity int, tracer *trace.SimulationTrace) (*FairQueue, error) {
	if !IsValidFQVariant(variant) {
		return nil, fmt.Errorf("unknown fair queue variant %q", variant)
	}
	return &FairQueue{
		disciplineState: disciplineState{
			name:     DisciplineFairQueue,
			capacity: capacity,
			tracer:   tracer,
		},
		variant:    variant,
		flowQueues: make(map[int][]*Packet),
		lastFinish: make(map[int]float64),
		granted:    make(map[int]float64),
	}, nil
}

// Variant returns the configured bookkeeping variant.
func (fq *FairQueue) Variant() string {
	return fq.variant
}

// activeFlows returns the ids of flows with queued packets, sorted
// ascending for deterministic iteration.
func (fq *FairQueue) activeFlows() []int {
	flows := make([]int, 0, len(fq.flowQueues))
	for id := range fq.flowQueues {
		flows = append(flows, id)
	}
	sort.Ints(flows)
	return flows
}

// Admit routes the packet to its flow's queue, enforcing the fair-share
// per-flow limit when a capacity bound is set.
func (fq *FairQueue) Admit(p *Packet) {
	flow := p.Priority
	if fq.capacity > 0 {
		flowCount := len(fq.flowQueues)
		if _, ok := fq.flowQueues[flow]; !ok {
			flowCount++ // the arriving packet's flow counts toward the share
		}
		perFlowLimit := fq.capacity / flowCount
		if perFlowLimit < 1 {
			perFlowLimit = 1
		}
		if len(fq.flowQueues[flow]) >= perFlowLimit {
			fq.drop(p, trace.DropFairShare)
			return
		}
	}
	fq.flowQueues[flow] = append(fq.flowQueues[flow], p)
}

// SelectNext services the head packet of the flow chosen by the active
// variant, then prunes the flow's queue if it drained.
func (fq *FairQueue) SelectNext() (*Packet, bool) {
	if len(fq.flowQueues) == 0 {
		return nil, false
	}

	var flow int
	switch fq.variant {
	case FQRoundRobin:
		flow = fq.selectLeastGranted()
	default:
		flow = fq.selectEarliestFinish()
	}

	p := fq.flowQueues[flow][0]
	fq.flowQueues[flow] = fq.flowQueues[flow][1:]
	if len(fq.flowQueues[flow]) == 0 {
		delete(fq.flowQueues, flow)
	}

	fq.service(p)
	return p, true
}

// selectEarliestFinish picks the flow whose head packet has the minimum
// candidate virtual finish time, committing that finish time and advancing
// the global virtual clock to it.
//
// Ties on the candidate finish time break toward the flow with the
// smaller committed last finish (the flow served longest ago), then the
// lower flow id. A static id-only tie-break would let one flow win every
// tie when service times are equal, starving its peers.
func (fq *FairQueue) selectEarliestFinish() int {
	bestFlow := -1
	bestFinish := 0.0
	bestLast := 0.0
	for _, flow := range fq.activeFlows() {
		head := fq.flowQueues[flow][0]
		start := fq.virtualTime
		last := fq.lastFinish[flow]
		if last > start {
			start = last
		}
		candidate := start + head.ServiceTime
		better := bestFlow < 0 || candidate < bestFinish ||
			(candidate == bestFinish && last < bestLast)
		if better {
			bestFlow = flow
			bestFinish = candidate
			bestLast = last
		}
	}
	fq.lastFinish[bestFlow] = bestFinish
	fq.virtualTime = bestFinish
	return bestFlow
}

// selectLeastGranted picks the flow with the smallest accumulated granted
// service, crediting it with the head packet's service time.
func (fq *FairQueue) selectLeastGranted() int {
	bestFlow := -1
	bestGranted := 0.0
	for _, flow := range fq.activeFlows() {
		g := fq.granted[flow]
		if bestFlow < 0 || g < bestGranted {
			bestFlow = flow
			bestGranted = g
		}
	}
	fq.granted[bestFlow] += fq.flowQueues[bestFlow][0].ServiceTime
	return bestFlow
}

func (fq *FairQueue) IsEmpty() bool {
	return len(fq.flowQueues) == 0
}

func (fq *FairQueue) Len() int {
	total := 0
	for _, q := range fq.flowQueues {
		total += len(q)
	}
	return total
}

func (fq *FairQueue) Reset() {
	fq.resetState()
	fq.flowQueues = make(map[int][]*Packet)
	fq.lastFinish = make(map[int]float64)
	fq.granted = make(map[int]float64)
	fq.virtualTime = 0
}

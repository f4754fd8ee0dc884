// Defines the Discipline interface implemented by every queueing discipline,
// the shared bookkeeping embedded by all of them, and the construction-time
// configuration and factory.

package sim

import (
	"fmt"

	"github.com/qos-sim/qos-sim/sim/trace"
)

// Discipline is the closed set of queueing policies the simulator drives:
// FCFS, Priority, Round-Robin, Fair Queue, and LAS. A discipline owns its
// internal packet containers, its logical clock, and its admission/drop
// decisions; the Simulator owns clock advancement across idle periods.
//
// A packet admitted via Admit lives in exactly one place at any time:
// queued inside the discipline, in Processed(), or in Dropped().
type Discipline interface {
	// Name identifies the discipline in reports and traces.
	Name() string

	// Admit offers a packet to the discipline. The discipline may drop it
	// (or another queued packet) according to its capacity policy; dropped
	// packets are appended to Dropped(). Dropping is expected steady-state
	// behavior under congestion, never an error.
	Admit(p *Packet)

	// SelectNext picks the next packet per the discipline's policy and
	// services it to completion: StartTime is set to the current clock,
	// the clock advances by the packet's service time, FinishTime is set,
	// and the packet is appended to Processed(). Returns (nil, false)
	// when no packet is queued.
	SelectNext() (*Packet, bool)

	// IsEmpty reports whether no packets are currently queued.
	IsEmpty() bool

	// Len returns the total number of currently queued packets.
	Len() int

	// Clock returns the discipline's current logical time.
	Clock() float64

	// SetClock moves the logical clock forward (idle-time skip).
	SetClock(t float64)

	// Processed returns serviced packets in service order. Read-only for callers.
	Processed() []*Packet

	// Dropped returns dropped packets in drop order. Read-only for callers.
	Dropped() []*Packet

	// Reset clears all queues, collections, accumulators, and the clock,
	// returning the discipline to its freshly constructed state. Reusing a
	// discipline across runs without Reset is a caller error.
	Reset()
}

// Discipline names accepted by NewDiscipline.
const (
	DisciplineFCFS       = "fcfs"
	DisciplinePriority   = "priority"
	DisciplineRoundRobin = "round-robin"
	DisciplineFairQueue  = "fair-queue"
	DisciplineLAS        = "las"
)

// validDisciplines maps accepted discipline name strings.
var validDisciplines = map[string]bool{
	DisciplineFCFS:       true,
	DisciplinePriority:   true,
	DisciplineRoundRobin: true,
	DisciplineFairQueue:  true,
	DisciplineLAS:        true,
}

// IsValidDiscipline returns true if the given name is a recognized discipline.
func IsValidDiscipline(name string) bool {
	return validDisciplines[name]
}

// DisciplineNames lists all discipline names in canonical comparison order.
func DisciplineNames() []string {
	return []string{DisciplineFCFS, DisciplinePriority, DisciplineRoundRobin, DisciplineFairQueue, DisciplineLAS}
}

// Config groups discipline construction parameters.
// The zero value of an unused field is ignored by disciplines that do not
// read it (e.g. NumQueues is Round-Robin only).
type Config struct {
	Discipline string // one of the Discipline* name constants

	// Capacity bounds the total number of queued packets; 0 = unbounded.
	// How the bound is enforced is discipline policy: tail-drop (FCFS,
	// Priority, Round-Robin), fair-share drop (Fair Queue), or
	// elephant eviction (LAS).
	Capacity int

	// NumQueues is the Round-Robin queue count (default 3).
	NumQueues int

	// Quantum is the Round-Robin time slice. Accepted for interface
	// compatibility; packets are serviced to completion in one selection,
	// so the quantum never fragments service.
	Quantum float64

	// FQVariant selects the Fair Queue bookkeeping: "finish-time"
	// (default, virtual-finish-time) or "round-robin" (per-flow
	// virtual round-robin).
	FQVariant string

	// Trace receives service/drop decision records when non-nil and
	// enabled. Optional.
	Trace *trace.SimulationTrace
}

// NewDiscipline creates a Discipline by name, validating construction
// parameters. Invalid parameters fail fast here and are never clamped.
func NewDiscipline(cfg Config) (Discipline, error) {
	if !IsValidDiscipline(cfg.Discipline) {
		return nil, fmt.Errorf("unknown discipline %q", cfg.Discipline)
	}
	if cfg.Capacity < 0 {
		return nil, fmt.Errorf("capacity must be >= 0, got %d", cfg.Capacity)
	}
	switch cfg.Discipline {
	case DisciplineFCFS:
		return NewFCFS(cfg.Capacity, cfg.Trace), nil
	case DisciplinePriority:
		return NewPriority(cfg.Capacity, cfg.Trace), nil
	case DisciplineRoundRobin:
		numQueues := cfg.NumQueues
		if numQueues == 0 {
			numQueues = DefaultRRQueues
		}
		quantum := cfg.Quantum
		if quantum == 0 {
			quantum = DefaultRRQuantum
		}
		return NewRoundRobin(numQueues, quantum, cfg.Capacity, cfg.Trace)
	case DisciplineFairQueue:
		variant := cfg.FQVariant
		if variant == "" {
			variant = FQFinishTime
		}
		return NewFairQueue(variant, cfg.Capacity, cfg.Trace)
	case DisciplineLAS:
		return NewLAS(cfg.Capacity, cfg.Trace), nil
	default:
		return nil, fmt.Errorf("unhandled discipline %q", cfg.Discipline)
	}
}

// disciplineState carries the bookkeeping shared by every discipline:
// the logical clock, the capacity bound, the processed and dropped
// collections, and the optional decision trace.
type disciplineState struct {
	name      string
	clock     float64
	capacity  int // 0 = unbounded
	processed []*Packet
	dropped   []*Packet
	tracer    *trace.SimulationTrace
}

func (d *disciplineState) Name() string         { return d.name }
func (d *disciplineState) Clock() float64       { return d.clock }
func (d *disciplineState) SetClock(t float64)   { d.clock = t }
func (d *disciplineState) Processed() []*Packet { return d.processed }
func (d *disciplineState) Dropped() []*Packet   { return d.dropped }

// service runs p to completion at the current clock: start is set once,
// the clock advances by the service time, finish is set, and the packet
// joins the processed collection.
func (d *disciplineState) service(p *Packet) {
	if !p.Started {
		p.StartTime = d.clock
		p.Started = true
	}
	d.clock += p.ServiceTime
	p.FinishTime = d.clock
	p.Finished = true
	d.processed = append(d.processed, p)
	d.tracer.RecordService(trace.ServiceRecord{
		Clock:      p.StartTime,
		Discipline: d.name,
		PacketID:   p.ID,
		FlowID:     p.Priority,
		Waited:     p.StartTime - p.ArrivalTime,
	})
}

// drop moves p to the dropped collection.
func (d *disciplineState) drop(p *Packet, reason trace.DropReason) {
	d.dropped = append(d.dropped, p)
	d.tracer.RecordDrop(trace.DropRecord{
		Clock:      d.clock,
		Discipline: d.name,
		PacketID:   p.ID,
		FlowID:     p.Priority,
		Reason:     reason,
	})
}

// resetState clears the clock and both collections.
func (d *disciplineState) resetState() {
	d.clock = 0
	d.processed = nil
	d.dropped = nil
}

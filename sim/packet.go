// Defines the Packet struct that models an individual network packet in the simulation.
// Tracks arrival time, flow/priority classification, and service timestamps.

package sim

import (
	"fmt"
)

// Packet models a single packet's pass through a queueing discipline.
// ArrivalTime, Priority, Size and ServiceTime are fixed by the traffic
// generator; StartTime and FinishTime are set exactly once by the
// discipline when the packet is serviced.
//
// Priority doubles as the flow identifier: all packets sharing a priority
// value belong to the same flow. Fair Queueing and LAS partition their
// per-flow state on this value.
type Packet struct {
	ID          int     // Unique identifier for the packet
	ArrivalTime float64 // Time the packet arrives at the queue (logical seconds)
	Priority    int     // Priority level (higher value = higher priority); also the flow id
	Size        int     // Packet size in bytes (informational only)
	ServiceTime float64 // Time the discipline takes to fully process the packet

	StartTime  float64 // Time service began; valid only when Started
	FinishTime float64 // Time service completed; valid only when Finished
	Started    bool    // Tracks whether StartTime has been set
	Finished   bool    // Tracks whether FinishTime has been set
}

// Latency returns finish - arrival. The second return value is false until
// the packet has been serviced.
func (p *Packet) Latency() (float64, bool) {
	if !p.Finished {
		return 0, false
	}
	return p.FinishTime - p.ArrivalTime, true
}

// WaitingTime returns start - arrival, the time spent queued before
// service began. The second return value is false until service starts.
func (p *Packet) WaitingTime() (float64, bool) {
	if !p.Started {
		return 0, false
	}
	return p.StartTime - p.ArrivalTime, true
}

// Before reports whether p should be serviced ahead of other under the
// priority ordering contract: higher priority wins, ties broken by earlier
// arrival, final ties by lower ID for determinism.
func (p *Packet) Before(other *Packet) bool {
	if p.Priority != other.Priority {
		return p.Priority > other.Priority
	}
	if p.ArrivalTime != other.ArrivalTime {
		return p.ArrivalTime < other.ArrivalTime
	}
	return p.ID < other.ID
}

// Clone returns a copy of the packet with the timing outcome cleared.
// Packets are mutated in place during servicing, so comparing disciplines
// over the same logical traffic requires a fresh clone per discipline.
func (p *Packet) Clone() *Packet {
	return &Packet{
		ID:          p.ID,
		ArrivalTime: p.ArrivalTime,
		Priority:    p.Priority,
		Size:        p.Size,
		ServiceTime: p.ServiceTime,
	}
}

// ClonePackets deep-copies a packet slice, clearing timing outcomes.
func ClonePackets(packets []*Packet) []*Packet {
	copies := make([]*Packet, len(packets))
	for i, p := range packets {
		copies[i] = p.Clone()
	}
	return copies
}

func (p Packet) String() string {
	return fmt.Sprintf("Packet(id=%d, arrival=%.2f, priority=%d, size=%d)", p.ID, p.ArrivalTime, p.Priority, p.Size)
}

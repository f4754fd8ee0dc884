package sim

import (
	"testing"
)

func TestPriority_SimultaneousArrivals_DescendingPriority(t *testing.T) {
	// GIVEN packets with distinct priorities arriving simultaneously
	pq := NewPriority(0, nil)
	pq.Admit(pkt(1, 0.0, 1, 1.0))
	pq.Admit(pkt(2, 0.0, 3, 1.0))
	pq.Admit(pkt(3, 0.0, 2, 1.0))

	// WHEN drained
	ids := drain(pq)

	// THEN processed order is strictly descending priority: 3, 2, 1
	want := []int{2, 3, 1}
	for i, id := range ids {
		if id != want[i] {
			t.Errorf("processed[%d] = packet %d, want packet %d", i, id, want[i])
		}
	}
}

func TestPriority_EqualPriority_FCFSTieBreak(t *testing.T) {
	// GIVEN equal-priority packets with staggered arrivals
	pq := NewPriority(0, nil)
	pq.Admit(pkt(1, 2.0, 2, 1.0))
	pq.Admit(pkt(2, 0.0, 2, 1.0))
	pq.Admit(pkt(3, 1.0, 2, 1.0))

	// WHEN drained
	ids := drain(pq)

	// THEN ties break by earlier arrival
	want := []int{2, 3, 1}
	for i, id := range ids {
		if id != want[i] {
			t.Errorf("processed[%d] = packet %d, want packet %d", i, id, want[i])
		}
	}
}

func TestPriority_SustainedHighPriority_StarvesLow(t *testing.T) {
	// GIVEN a low-priority packet queued behind a sustained stream of
	// high-priority arrivals that keeps the queue saturated
	packets := []*Packet{pkt(0, 0.0, 1, 1.0)}
	for i := 1; i <= 20; i++ {
		// One high-priority packet arrives during each service slot.
		packets = append(packets, pkt(i, float64(i-1), 5, 1.0))
	}

	pq := NewPriority(0, nil)
	NewSimulator(pq).Run(packets)

	// THEN the low-priority packet is serviced dead last: starvation is
	// the discipline's documented trade-off, not a bug to mitigate
	processed := pq.Processed()
	last := processed[len(processed)-1]
	if last.ID != 0 {
		t.Errorf("last serviced packet = %d, want the starved low-priority packet 0", last.ID)
	}
}

func TestPriority_CapacityExtension_TailDrops(t *testing.T) {
	// GIVEN a bounded priority queue (allowed extension over the
	// unbounded baseline)
	pq := NewPriority(1, nil)
	pq.Admit(pkt(1, 0.0, 1, 1.0))
	pq.Admit(pkt(2, 0.0, 9, 1.0))

	// THEN the arriving packet is dropped regardless of its priority
	if len(pq.Dropped()) != 1 || pq.Dropped()[0].ID != 2 {
		t.Errorf("Dropped = %v, want [packet 2]", pq.Dropped())
	}
}

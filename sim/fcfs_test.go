package sim

import (
	"testing"
)

func TestFCFS_ProcessesInArrivalOrder(t *testing.T) {
	// GIVEN packets admitted in arrival order with mixed priorities
	f := NewFCFS(0, nil)
	f.Admit(pkt(1, 0.0, 1, 1.0))
	f.Admit(pkt(2, 1.0, 3, 1.0))
	f.Admit(pkt(3, 2.0, 2, 1.0))

	// WHEN drained
	ids := drain(f)

	// THEN processed order equals arrival order exactly; priority is ignored
	want := []int{1, 2, 3}
	for i, id := range ids {
		if id != want[i] {
			t.Errorf("processed[%d] = %d, want %d", i, id, want[i])
		}
	}
}

func TestFCFS_IsEmpty(t *testing.T) {
	f := NewFCFS(0, nil)
	if !f.IsEmpty() {
		t.Error("new FCFS should be empty")
	}
	f.Admit(pkt(1, 0.0, 1, 1.0))
	if f.IsEmpty() {
		t.Error("FCFS with one packet should not be empty")
	}
}

func TestFCFS_TailDrop_AtCapacity(t *testing.T) {
	// GIVEN an FCFS queue with capacity 2
	f := NewFCFS(2, nil)

	// WHEN three packets are admitted
	f.Admit(pkt(1, 0.0, 1, 1.0))
	f.Admit(pkt(2, 0.0, 1, 1.0))
	f.Admit(pkt(3, 0.0, 1, 1.0))

	// THEN the newest arrival is the one dropped
	if f.Len() != 2 {
		t.Errorf("Len = %d, want 2", f.Len())
	}
	if len(f.Dropped()) != 1 || f.Dropped()[0].ID != 3 {
		t.Errorf("Dropped = %v, want [packet 3]", f.Dropped())
	}
}

func TestFCFS_BurstScenario_CapacityTwenty(t *testing.T) {
	// GIVEN 100 packets (60% priority-1, 30% priority-2, 10% priority-3)
	// arriving in a tight burst at t=0 with service time 0.5, and an FCFS
	// queue bounded at 20
	priorities := make([]int, 0, 100)
	for i := 0; i < 60; i++ {
		priorities = append(priorities, 1)
	}
	for i := 0; i < 30; i++ {
		priorities = append(priorities, 2)
	}
	for i := 0; i < 10; i++ {
		priorities = append(priorities, 3)
	}
	packets := make([]*Packet, 100)
	for i := 0; i < 100; i++ {
		packets[i] = pkt(i, 0, priorities[i], 0.5)
	}

	f := NewFCFS(20, nil)
	metrics := NewSimulator(f).Run(packets)

	// THEN congestion forces drops, the queue never exceeded its bound,
	// and the drops are exactly the last-arriving packets of the burst
	if metrics.DropRate <= 0 {
		t.Fatalf("DropRate = %v, want > 0", metrics.DropRate)
	}
	if metrics.Processed != 20 {
		t.Errorf("Processed = %d, want 20 (the capacity bound)", metrics.Processed)
	}
	if metrics.Dropped != 80 {
		t.Errorf("Dropped = %d, want 80", metrics.Dropped)
	}
	for _, p := range f.Dropped() {
		if p.ID < 20 {
			t.Errorf("packet %d dropped, but tail-drop should only hit the last arrivals", p.ID)
		}
	}
	// Conservation: every offered packet ends in exactly one collection.
	if metrics.Processed+metrics.Dropped != 100 {
		t.Errorf("processed+dropped = %d, want 100", metrics.Processed+metrics.Dropped)
	}
}

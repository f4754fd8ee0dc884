package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLAS_NewFlowPreemptsServedFlow(t *testing.T) {
	// GIVEN flow 1 has already received service and flow 2 has not
	l := NewLAS(0, nil)
	l.Admit(pkt(1, 0.0, 1, 2.0))
	l.Admit(pkt(2, 0.0, 1, 2.0))
	p, ok := l.SelectNext()
	require.True(t, ok)
	require.Equal(t, 1, p.ID)
	require.Greater(t, l.AttainedService(1), 0.0)

	// WHEN a packet from the fresh flow 2 arrives
	l.Admit(pkt(3, 0.0, 2, 2.0))

	// THEN the zero-attained flow is always selected over the served one
	p, ok = l.SelectNext()
	require.True(t, ok)
	assert.Equal(t, 2, p.Priority, "flow with zero attained service must be served first")
}

func TestLAS_EqualAttained_LowestFlowIDWins(t *testing.T) {
	// GIVEN three flows with equal (zero) attained service
	l := NewLAS(0, nil)
	l.Admit(pkt(1, 0.0, 3, 1.0))
	l.Admit(pkt(2, 0.0, 1, 1.0))
	l.Admit(pkt(3, 0.0, 2, 1.0))

	// WHEN one packet is serviced
	p, ok := l.SelectNext()

	// THEN the tie resolves deterministically to the lowest flow id
	require.True(t, ok)
	assert.Equal(t, 1, p.Priority)
}

func TestLAS_AttainedServiceAccumulates(t *testing.T) {
	// GIVEN one flow serviced twice
	l := NewLAS(0, nil)
	l.Admit(pkt(1, 0.0, 1, 1.5))
	l.Admit(pkt(2, 0.0, 1, 2.5))
	l.SelectNext()
	l.SelectNext()

	// THEN the accumulator holds the summed service time
	assert.Equal(t, 4.0, l.AttainedService(1))
}

func TestLAS_ElephantDrop_EvictsMostServedFlowTail(t *testing.T) {
	// GIVEN flow 1 (the elephant) has consumed service and both flows
	// have queued packets filling the capacity bound
	l := NewLAS(3, nil)
	l.Admit(pkt(1, 0.0, 1, 5.0))
	p, ok := l.SelectNext()
	require.True(t, ok)
	require.Equal(t, 1, p.ID)

	l.Admit(pkt(2, 0.0, 1, 5.0))
	l.Admit(pkt(3, 0.0, 1, 5.0))
	l.Admit(pkt(4, 0.0, 2, 1.0))

	// WHEN an arrival hits the full queue
	l.Admit(pkt(5, 0.0, 2, 1.0))

	// THEN the tail of the elephant's queue is evicted, not the arrival
	require.Len(t, l.Dropped(), 1)
	assert.Equal(t, 3, l.Dropped()[0].ID, "tail of the most-served flow should be evicted")
	assert.Equal(t, 3, l.Len())

	// AND the arriving mouse packet was admitted
	mice := l.flowQueues[2]
	require.Len(t, mice, 2)
	assert.Equal(t, 5, mice[1].ID)
}

func TestLAS_ElephantDrop_TieResolvesToLowestFlow(t *testing.T) {
	// GIVEN two flows with equal attained service (none) at capacity
	l := NewLAS(2, nil)
	l.Admit(pkt(1, 0.0, 2, 1.0))
	l.Admit(pkt(2, 0.0, 1, 1.0))

	// WHEN an arrival forces an eviction
	l.Admit(pkt(3, 0.0, 3, 1.0))

	// THEN the victim flow is the lowest id among the tied candidates
	require.Len(t, l.Dropped(), 1)
	assert.Equal(t, 1, l.Dropped()[0].Priority)
}

func TestLAS_MiceProtectedFromElephant(t *testing.T) {
	// GIVEN an elephant flow transferring continuously and sporadic mice
	packets := make([]*Packet, 0)
	id := 0
	for i := 0; i < 20; i++ {
		packets = append(packets, pkt(id, float64(i)*0.1, 1, 1.0)) // elephant
		id++
	}
	for i := 0; i < 4; i++ {
		packets = append(packets, pkt(id, float64(i)*2.0, 2, 0.2)) // mouse
		id++
	}

	l := NewLAS(0, nil)
	NewSimulator(l).Run(packets)

	// THEN every mouse packet finishes before the elephant's last packet
	var lastElephantFinish float64
	for _, p := range l.Processed() {
		if p.Priority == 1 && p.FinishTime > lastElephantFinish {
			lastElephantFinish = p.FinishTime
		}
	}
	for _, p := range l.Processed() {
		if p.Priority == 2 {
			assert.Less(t, p.FinishTime, lastElephantFinish,
				"mouse packet %d should finish before the elephant drains", p.ID)
		}
	}
}

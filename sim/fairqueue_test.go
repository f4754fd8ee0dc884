package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFairQueue_SeparatesPacketsByFlow(t *testing.T) {
	// GIVEN packets from two flows (flow id = priority)
	fq, err := NewFairQueue(FQFinishTime, 0, nil)
	require.NoError(t, err)
	fq.Admit(pkt(1, 0.0, 1, 1.0))
	fq.Admit(pkt(2, 0.0, 2, 1.0))
	fq.Admit(pkt(3, 0.0, 1, 1.0))

	// THEN per-flow queues hold them separately
	assert.Len(t, fq.flowQueues, 2)
	assert.Len(t, fq.flowQueues[1], 2)
	assert.Len(t, fq.flowQueues[2], 1)
}

func TestFairQueue_VirtualTimeAdvancesOnService(t *testing.T) {
	// GIVEN two same-flow packets
	fq, err := NewFairQueue(FQFinishTime, 0, nil)
	require.NoError(t, err)
	fq.Admit(pkt(1, 0.0, 1, 2.0))
	fq.Admit(pkt(2, 0.0, 1, 1.0))

	// WHEN the head is serviced
	p, ok := fq.SelectNext()

	// THEN FIFO order within the flow holds and the virtual clock moved
	require.True(t, ok)
	assert.Equal(t, 1, p.ID)
	assert.Greater(t, fq.virtualTime, 0.0)
}

func TestFairQueue_FinishTime_SmallPacketsFinishEarlier(t *testing.T) {
	// GIVEN one flow of large packets and one of small packets, all queued
	fq, err := NewFairQueue(FQFinishTime, 0, nil)
	require.NoError(t, err)
	fq.Admit(pkt(1, 0.0, 1, 4.0))
	fq.Admit(pkt(2, 0.0, 1, 4.0))
	fq.Admit(pkt(3, 0.0, 2, 1.0))
	fq.Admit(pkt(4, 0.0, 2, 1.0))
	fq.Admit(pkt(5, 0.0, 2, 1.0))
	fq.Admit(pkt(6, 0.0, 2, 1.0))

	// WHEN drained
	ids := drain(fq)

	// THEN bit-by-bit approximation lets every small packet through
	// before the large ones (virtual finish times 1,2,3,4 vs 8 and 12)
	assert.Equal(t, []int{3, 4, 5, 6, 1, 2}, ids)
}

func TestFairQueue_RoundRobinVariant_ExactRotation(t *testing.T) {
	// GIVEN two flows with unequal packet sizes under the round-robin variant
	fq, err := NewFairQueue(FQRoundRobin, 0, nil)
	require.NoError(t, err)
	fq.Admit(pkt(1, 0.0, 1, 4.0))
	fq.Admit(pkt(2, 0.0, 1, 4.0))
	fq.Admit(pkt(3, 0.0, 2, 1.0))
	fq.Admit(pkt(4, 0.0, 2, 1.0))

	// WHEN the first two selections happen
	first, ok := fq.SelectNext()
	require.True(t, ok)
	second, ok := fq.SelectNext()
	require.True(t, ok)

	// THEN each flow is served once before either is served twice,
	// even though flow 1's packets are four times larger
	assert.Equal(t, 1, first.Priority, "lowest flow id serves first on the initial tie")
	assert.Equal(t, 2, second.Priority, "flow 2 has less granted service after flow 1's large packet")
}

func TestFairQueue_EqualFlows_MaxMinFairnessBound(t *testing.T) {
	// GIVEN two flows with identical arrival pattern and service time
	for _, variant := range []string{FQFinishTime, FQRoundRobin} {
		fq, err := NewFairQueue(variant, 0, nil)
		require.NoError(t, err)
		for i := 0; i < 20; i++ {
			fq.Admit(pkt(i, 0.0, 1+i%2, 1.0))
		}

		// WHEN serviced step by step
		counts := map[int]int{}
		for !fq.IsEmpty() {
			p, ok := fq.SelectNext()
			require.True(t, ok)
			counts[p.Priority]++

			// THEN after any prefix the processed counts differ by at most one
			diff := counts[1] - counts[2]
			if diff < 0 {
				diff = -diff
			}
			assert.LessOrEqual(t, diff, 1, "variant %s: flows diverged beyond the max-min bound", variant)
		}
	}
}

func TestFairQueue_FairShareLimit_ProtectsSmallFlows(t *testing.T) {
	// GIVEN a bound of 4 shared by one aggressive flow and one small flow
	fq, err := NewFairQueue(FQFinishTime, 4, nil)
	require.NoError(t, err)

	// WHEN flow 1 floods first and flow 2 arrives afterwards
	for i := 0; i < 6; i++ {
		fq.Admit(pkt(i, 0.0, 1, 1.0))
	}
	fq.Admit(pkt(10, 0.0, 2, 1.0))

	// THEN flow 1 was clipped at its share but flow 2 still got buffer space
	assert.LessOrEqual(t, len(fq.flowQueues[1]), 4)
	assert.Len(t, fq.flowQueues[2], 1, "small flow must not be locked out by the flood")
	assert.NotEmpty(t, fq.Dropped())
	for _, p := range fq.Dropped() {
		assert.Equal(t, 1, p.Priority, "only the flooding flow should lose packets")
	}
}

func TestFairQueue_CapacityTwenty_ThreeFlows_EqualDrops(t *testing.T) {
	// GIVEN capacity 20 and three equal-size flows bursting at t=0
	// (per-flow limit = max(1, 20/3) = 6)
	fq, err := NewFairQueue(FQFinishTime, 20, nil)
	require.NoError(t, err)
	packets := burst(30, []int{1, 2, 3}, 0.5)

	metrics := NewSimulator(fq).Run(packets)

	// THEN drop counts per flow are equal within a rounding tolerance of 1
	dropsByFlow := map[int]int{}
	for _, p := range fq.Dropped() {
		dropsByFlow[p.Priority]++
	}
	require.NotEmpty(t, dropsByFlow)
	min, max := dropsByFlow[1], dropsByFlow[1]
	for _, c := range dropsByFlow {
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	assert.LessOrEqual(t, max-min, 1, "drops by flow = %v", dropsByFlow)
	assert.Equal(t, 30, metrics.Processed+metrics.Dropped, "capacity conservation")
}

func TestFairQueue_PrunesDrainedFlows(t *testing.T) {
	// GIVEN a flow whose only packet is serviced
	fq, err := NewFairQueue(FQFinishTime, 0, nil)
	require.NoError(t, err)
	fq.Admit(pkt(1, 0.0, 1, 1.0))
	fq.Admit(pkt(2, 0.0, 2, 1.0))
	fq.Admit(pkt(3, 0.0, 2, 1.0))

	// WHEN flow 1 drains
	drained := 0
	for drained < 3 {
		p, ok := fq.SelectNext()
		require.True(t, ok)
		drained++
		if p.Priority == 1 {
			break
		}
	}

	// THEN its queue is pruned so fair-share counts stay current
	_, exists := fq.flowQueues[1]
	assert.False(t, exists, "drained flow queue should be pruned")
}

// Computes run-level performance metrics from a discipline's processed and
// dropped collections: latency, waiting time, throughput, drop rate, and
// Jain fairness indices.

package sim

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FlowMetrics breaks a run down for a single flow.
type FlowMetrics struct {
	FlowID      int     `json:"flow_id"`
	Processed   int     `json:"processed"`
	Dropped     int     `json:"dropped"`
	MeanLatency float64 `json:"mean_latency"` // over this flow's processed packets
	ShareRatio  float64 `json:"share_ratio"`  // processed / offered; 1.0 when nothing was dropped
}

// Metrics aggregates statistics about a completed simulation run for final
// reporting. All fields are finite and non-negative; fairness indices lie
// in [0, 1].
type Metrics struct {
	Processed int // number of packets serviced
	Dropped   int // number of packets dropped

	AvgLatency     float64 // mean of finish - arrival over processed packets
	AvgWaitingTime float64 // mean of start - arrival over processed packets
	P50Latency     float64
	P99Latency     float64
	Throughput     float64 // processed count / final clock (0 for an empty run)
	DropRate       float64 // dropped / (processed + dropped)

	// PacketFairness is Jain's index over individual packet latencies.
	PacketFairness float64
	// FlowFairness is Jain's index across flows: over per-flow throughput
	// ratios when any packet was dropped (a starved flow contributes 0,
	// correctly penalizing the index), otherwise over per-flow mean
	// latencies.
	FlowFairness float64

	// PerFlow holds the per-flow breakdown, sorted by flow id.
	PerFlow []FlowMetrics
}

// ComputeMetrics derives a Metrics record from a discipline's processed and
// dropped collections and its final clock value. Pure: no state is read
// from or written to the discipline.
func ComputeMetrics(processed, dropped []*Packet, clock float64) Metrics {
	m := Metrics{
		Processed: len(processed),
		Dropped:   len(dropped),
	}

	latencies := make([]float64, 0, len(processed))
	waits := make([]float64, 0, len(processed))
	for _, p := range processed {
		if lat, ok := p.Latency(); ok {
			latencies = append(latencies, lat)
		}
		if w, ok := p.WaitingTime(); ok {
			waits = append(waits, w)
		}
	}

	if len(latencies) > 0 {
		m.AvgLatency = stat.Mean(latencies, nil)
		sorted := make([]float64, len(latencies))
		copy(sorted, latencies)
		sort.Float64s(sorted)
		m.P50Latency = stat.Quantile(0.50, stat.Empirical, sorted, nil)
		m.P99Latency = stat.Quantile(0.99, stat.Empirical, sorted, nil)
	}
	if len(waits) > 0 {
		m.AvgWaitingTime = stat.Mean(waits, nil)
	}
	if clock > 0 {
		m.Throughput = float64(len(processed)) / clock
	}
	if len(processed)+len(dropped) > 0 {
		m.DropRate = float64(len(dropped)) / float64(len(processed)+len(dropped))
	}

	m.PacketFairness = JainIndex(latencies)

	m.PerFlow = perFlowBreakdown(processed, dropped)
	if len(dropped) > 0 {
		m.FlowFairness = FlowFairnessByThroughput(m.PerFlow)
	} else {
		m.FlowFairness = FlowFairnessByLatency(m.PerFlow)
	}

	return m
}

// JainIndex computes Jain's fairness index (Σx)² / (n·Σx²) over the given
// values. By convention the index is 1.0 for n <= 1 (a single value is
// perfectly fair) and 0 when every value is zero with n > 1 (the
// zero-denominator guard).
func JainIndex(values []float64) float64 {
	n := len(values)
	if n <= 1 {
		return 1.0
	}
	sum := 0.0
	sumSq := 0.0
	for _, v := range values {
		sum += v
		sumSq += v * v
	}
	if sumSq == 0 {
		return 0
	}
	return (sum * sum) / (float64(n) * sumSq)
}

// FlowFairnessByLatency computes Jain's index over each flow's mean
// latency. Meaningful when every offered packet was processed; drops make
// latency-based fairness blind to starvation.
func FlowFairnessByLatency(flows []FlowMetrics) float64 {
	values := make([]float64, 0, len(flows))
	for _, f := range flows {
		if f.Processed > 0 {
			values = append(values, f.MeanLatency)
		}
	}
	return JainIndex(values)
}

// FlowFairnessByThroughput computes Jain's index over each flow's
// processed/offered ratio. A fully starved flow contributes 0, pulling the
// index down — the meaningful fairness measure under congestion.
func FlowFairnessByThroughput(flows []FlowMetrics) float64 {
	values := make([]float64, 0, len(flows))
	for _, f := range flows {
		if f.Processed+f.Dropped > 0 {
			values = append(values, f.ShareRatio)
		}
	}
	return JainIndex(values)
}

// GroupByFlow partitions packets by flow id (priority), preserving slice
// order within each flow. Used by presentation layers for per-flow
// charting; the returned map shares the packet pointers read-only.
func GroupByFlow(packets []*Packet) map[int][]*Packet {
	groups := make(map[int][]*Packet)
	for _, p := range packets {
		groups[p.Priority] = append(groups[p.Priority], p)
	}
	return groups
}

// perFlowBreakdown computes FlowMetrics for every flow seen in either
// collection, sorted by flow id.
func perFlowBreakdown(processed, dropped []*Packet) []FlowMetrics {
	processedByFlow := GroupByFlow(processed)
	droppedByFlow := GroupByFlow(dropped)

	ids := make(map[int]bool)
	for id := range processedByFlow {
		ids[id] = true
	}
	for id := range droppedByFlow {
		ids[id] = true
	}
	flowIDs := make([]int, 0, len(ids))
	for id := range ids {
		flowIDs = append(flowIDs, id)
	}
	sort.Ints(flowIDs)

	flows := make([]FlowMetrics, 0, len(flowIDs))
	for _, id := range flowIDs {
		fm := FlowMetrics{
			FlowID:    id,
			Processed: len(processedByFlow[id]),
			Dropped:   len(droppedByFlow[id]),
		}
		latencies := make([]float64, 0, fm.Processed)
		for _, p := range processedByFlow[id] {
			if lat, ok := p.Latency(); ok {
				latencies = append(latencies, lat)
			}
		}
		if len(latencies) > 0 {
			fm.MeanLatency = stat.Mean(latencies, nil)
		}
		offered := fm.Processed + fm.Dropped
		if offered > 0 {
			fm.ShareRatio = float64(fm.Processed) / float64(offered)
		}
		flows = append(flows, fm)
	}
	return flows
}

// Print displays the aggregated metrics for one run.
func (m *Metrics) Print(name string) {
	fmt.Printf("=== %s Metrics ===\n", name)
	fmt.Printf("Processed Packets    : %d\n", m.Processed)
	fmt.Printf("Dropped Packets      : %d (%.1f%%)\n", m.Dropped, m.DropRate*100)
	fmt.Printf("Average Latency      : %.3f s\n", m.AvgLatency)
	fmt.Printf("Average Waiting Time : %.3f s\n", m.AvgWaitingTime)
	fmt.Printf("P50/P99 Latency      : %.3f / %.3f s\n", m.P50Latency, m.P99Latency)
	fmt.Printf("Throughput           : %.3f packets/s\n", m.Throughput)
	fmt.Printf("Packet Fairness      : %.4f\n", m.PacketFairness)
	fmt.Printf("Flow Fairness        : %.4f\n", m.FlowFairness)
}

// Presentation helpers for the CLI: comparison tables, JSON output, and
// trace summaries. The sim core never depends on this layer.

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/qos-sim/qos-sim/sim"
	"github.com/qos-sim/qos-sim/sim/trace"
)

// printComparisonTable renders one row per discipline.
func printComparisonTable(results []sim.ExperimentResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DISCIPLINE\tPROCESSED\tDROPPED\tDROP RATE\tAVG LATENCY\tAVG WAIT\tTHROUGHPUT\tPKT FAIRNESS\tFLOW FAIRNESS")
	for _, r := range results {
		m := r.Metrics
		fmt.Fprintf(w, "%s\t%d\t%d\t%.1f%%\t%.3fs\t%.3fs\t%.3f/s\t%.4f\t%.4f\n",
			r.Discipline, m.Processed, m.Dropped, m.DropRate*100,
			m.AvgLatency, m.AvgWaitingTime, m.Throughput,
			m.PacketFairness, m.FlowFairness)
	}
	if err := w.Flush(); err != nil {
		logrus.Errorf("failed to flush comparison table: %v", err)
	}
}

// metricsRecord is the JSON shape for one run's metrics.
type metricsRecord struct {
	Discipline     string            `json:"discipline"`
	Processed      int               `json:"processed"`
	Dropped        int               `json:"dropped"`
	DropRate       float64           `json:"drop_rate"`
	AvgLatency     float64           `json:"avg_latency"`
	AvgWaitingTime float64           `json:"avg_waiting_time"`
	P50Latency     float64           `json:"p50_latency"`
	P99Latency     float64           `json:"p99_latency"`
	Throughput     float64           `json:"throughput"`
	PacketFairness float64           `json:"packet_fairness"`
	FlowFairness   float64           `json:"flow_fairness"`
	PerFlow        []sim.FlowMetrics `json:"per_flow"`
}

func toRecord(name string, m sim.Metrics) metricsRecord {
	return metricsRecord{
		Discipline:     name,
		Processed:      m.Processed,
		Dropped:        m.Dropped,
		DropRate:       m.DropRate,
		AvgLatency:     m.AvgLatency,
		AvgWaitingTime: m.AvgWaitingTime,
		P50Latency:     m.P50Latency,
		P99Latency:     m.P99Latency,
		Throughput:     m.Throughput,
		PacketFairness: m.PacketFairness,
		FlowFairness:   m.FlowFairness,
		PerFlow:        m.PerFlow,
	}
}

// printJSONMetrics writes one run's metrics to stdout as indented JSON.
func printJSONMetrics(name string, m sim.Metrics) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toRecord(name, m)); err != nil {
		logrus.Fatalf("failed to encode metrics: %v", err)
	}
}

// printJSONResults writes comparison results to stdout as indented JSON.
func printJSONResults(results []sim.ExperimentResult) {
	records := make([]metricsRecord, 0, len(results))
	for _, r := range results {
		records = append(records, toRecord(r.Discipline, r.Metrics))
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		logrus.Fatalf("failed to encode results: %v", err)
	}
}

// printTraceSummary renders per-flow service/drop counts from a decision trace.
func printTraceSummary(s *trace.TraceSummary) {
	fmt.Println("=== Decision Trace ===")
	fmt.Printf("Services  : %d (mean wait %.3fs, max wait %.3fs)\n", s.TotalServices, s.MeanWait, s.MaxWait)
	fmt.Printf("Drops     : %d\n", s.TotalDrops)
	for _, reason := range []trace.DropReason{trace.DropTail, trace.DropFairShare, trace.DropElephant} {
		if count, ok := s.DropReasons[reason]; ok {
			fmt.Printf("  %-11s: %d\n", reason, count)
		}
	}
	fmt.Printf("Flows     : %d\n", s.UniqueFlows)
}

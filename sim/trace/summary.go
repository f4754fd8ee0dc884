package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalServices int
	TotalDrops    int
	MeanWait      float64
	MaxWait       float64
	UniqueFlows   int
	FlowServices  map[int]int        // flow ID → count of packets serviced
	FlowDrops     map[int]int        // flow ID → count of packets dropped
	DropReasons   map[DropReason]int // reason → count
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		FlowServices: make(map[int]int),
		FlowDrops:    make(map[int]int),
		DropReasons:  make(map[DropReason]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalServices = len(st.Services)
	if len(st.Services) > 0 {
		totalWait := 0.0
		for _, s := range st.Services {
			summary.FlowServices[s.FlowID]++
			totalWait += s.Waited
			if s.Waited > summary.MaxWait {
				summary.MaxWait = s.Waited
			}
		}
		summary.MeanWait = totalWait / float64(len(st.Services))
	}

	summary.TotalDrops = len(st.Drops)
	for _, d := range st.Drops {
		summary.FlowDrops[d.FlowID]++
		summary.DropReasons[d.Reason]++
	}

	flows := make(map[int]bool)
	for f := range summary.FlowServices {
		flows[f] = true
	}
	for f := range summary.FlowDrops {
		flows[f] = true
	}
	summary.UniqueFlows = len(flows)

	return summary
}

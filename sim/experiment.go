// Runs several disciplines over the same logical traffic for side-by-side
// comparison.

package sim

// ExperimentResult pairs a discipline with its run metrics.
type ExperimentResult struct {
	Discipline string
	Metrics    Metrics
}

// RunExperiment runs each discipline over its own deep copy of the packet
// set and returns results in discipline order. Packets are mutated in
// place during servicing, so every discipline must see a fresh clone —
// sharing one slice across runs would leak start/finish times between
// disciplines.
func RunExperiment(packets []*Packet, disciplines []Discipline) []ExperimentResult {
	results := make([]ExperimentResult, 0, len(disciplines))
	for _, d := range disciplines {
		copies := ClonePackets(packets)
		metrics := NewSimulator(d).Run(copies)
		results = append(results, ExperimentResult{
			Discipline: d.Name(),
			Metrics:    metrics,
		})
	}
	return results
}

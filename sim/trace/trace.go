// Package trace provides decision-trace recording for discipline analysis.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures all service and drop decisions.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// DropReason identifies which admission policy dropped a packet.
type DropReason string

const (
	// DropTail is a tail drop: the arriving packet was rejected because
	// the queue was at capacity.
	DropTail DropReason = "tail"
	// DropFairShare is a Fair Queue drop: the packet's flow exceeded its
	// fair share of the buffer.
	DropFairShare DropReason = "fair-share"
	// DropElephant is a LAS eviction: a packet was removed from the tail
	// of the flow with the greatest attained service.
	DropElephant DropReason = "elephant"
)

// ServiceRecord captures one selection decision by a discipline.
type ServiceRecord struct {
	Clock      float64 // simulation time when service began
	Discipline string  // discipline that made the decision
	PacketID   int
	FlowID     int     // packet priority / flow classifier
	Waited     float64 // start - arrival
}

// DropRecord captures one drop decision by a discipline.
type DropRecord struct {
	Clock      float64 // simulation time of the drop
	Discipline string
	PacketID   int
	FlowID     int
	Reason     DropReason
}

// SimulationTrace collects decision records during a simulation run.
type SimulationTrace struct {
	Level    TraceLevel
	Services []ServiceRecord
	Drops    []DropRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(level TraceLevel) *SimulationTrace {
	return &SimulationTrace{
		Level:    level,
		Services: make([]ServiceRecord, 0),
		Drops:    make([]DropRecord, 0),
	}
}

// Enabled reports whether the trace records decisions.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Level == TraceLevelDecisions
}

// RecordService appends a service decision record.
func (st *SimulationTrace) RecordService(record ServiceRecord) {
	if !st.Enabled() {
		return
	}
	st.Services = append(st.Services, record)
}

// RecordDrop appends a drop decision record.
func (st *SimulationTrace) RecordDrop(record DropRecord) {
	if !st.Enabled() {
		return
	}
	st.Drops = append(st.Drops, record)
}

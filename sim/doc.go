// Package sim provides the core discrete-event simulation engine for the
// QoS queueing discipline simulator.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - packet.go: the Packet lifecycle (generated → queued → processed or dropped)
//   - discipline.go: the Discipline interface and shared bookkeeping
//   - simulator.go: the event-stepping loop that drives a discipline on a logical clock
//
// # Architecture
//
// The sim package defines the discipline state machines and the metrics
// engine; collaborators live in sub-packages:
//   - sim/workload/: traffic generation (arrival processes, priority/size sampling)
//   - sim/trace/: service and drop decision recording
//
// # Disciplines
//
// The discipline set is closed — five variants behind one interface,
// dispatched explicitly rather than through open-ended extension:
//   - FCFS: single FIFO, tail-drop at capacity
//   - Priority: max-heap on the priority/arrival contract; starvation by design
//   - RoundRobin: N fixed FIFO queues, rotating pointer, id-mod-N placement
//   - FairQueue: per-flow FIFOs, virtual-finish-time or virtual-round-robin
//     selection, fair-share dropping
//   - LAS: per-flow FIFOs ordered by attained service, elephant eviction
//
// Runs are single-threaded and fully deterministic: the clock is a logical
// value advanced only by explicit computation, never by elapsed wall time.
package sim

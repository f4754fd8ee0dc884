// Drives a queueing discipline through a packet stream on a logical clock.

package sim

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// Simulator drives a queueing discipline through a packet stream on a
// logical clock. There is no wall-clock time or concurrency anywhere in
// a run: given the same input and discipline, the output timeline is
// fully reproducible.
type Simulator struct {
	Discipline Discipline
}

// NewSimulator creates a Simulator for the given discipline.
func NewSimulator(d Discipline) *Simulator {
	return &Simulator{Discipline: d}
}

// Run feeds the packet stream through the discipline and returns the
// computed metrics. The input slice is not modified; packets themselves
// are mutated in place when serviced (start/finish times), so callers
// comparing disciplines must pass a fresh clone per run.
//
// The loop alternates between admitting every packet whose arrival time
// has passed and servicing one packet. When the discipline is empty but
// arrivals remain, the clock jumps straight to the next arrival — no
// busy-waiting.
func (s *Simulator) Run(packets []*Packet) Metrics {
	d := s.Discipline
	d.Reset()

	sorted := make([]*Packet, len(packets))
	copy(sorted, packets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ArrivalTime < sorted[j].ArrivalTime
	})

	cursor := 0
	for cursor < len(sorted) || !d.IsEmpty() {
		// Admit everything that has arrived by the current clock.
		// Admission may drop packets per the discipline's policy.
		for cursor < len(sorted) && sorted[cursor].ArrivalTime <= d.Clock() {
			d.Admit(sorted[cursor])
			cursor++
		}

		if !d.IsEmpty() {
			p, ok := d.SelectNext()
			if !ok {
				// IsEmpty and SelectNext disagree; discipline invariant broken.
				logrus.Errorf("[t=%.3f] %s reported non-empty but selected nothing", d.Clock(), d.Name())
				break
			}
			logrus.Debugf("[t=%.3f] %s serviced %v", d.Clock(), d.Name(), p)
		} else if cursor < len(sorted) {
			// Idle-time skip to the next arrival.
			logrus.Debugf("[t=%.3f] %s idle, jumping to next arrival at %.3f", d.Clock(), d.Name(), sorted[cursor].ArrivalTime)
			d.SetClock(sorted[cursor].ArrivalTime)
		}
	}

	logrus.Debugf("[t=%.3f] %s simulation ended: %d processed, %d dropped",
		d.Clock(), d.Name(), len(d.Processed()), len(d.Dropped()))
	return ComputeMetrics(d.Processed(), d.Dropped(), d.Clock())
}

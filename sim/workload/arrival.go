package workload

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Traffic model names accepted by NewArrivalSampler.
const (
	TrafficPoisson  = "poisson"
	TrafficBursty   = "bursty"
	TrafficConstant = "constant"
)

// validTrafficModels maps accepted traffic model strings.
var validTrafficModels = map[string]bool{
	TrafficPoisson:  true,
	TrafficBursty:   true,
	TrafficConstant: true,
	"":              true, // empty defaults to poisson
}

// IsValidTrafficModel returns true if the given name is a recognized traffic model.
func IsValidTrafficModel(name string) bool {
	return validTrafficModels[name]
}

// ArrivalSampler generates inter-arrival times for a packet stream.
type ArrivalSampler interface {
	// SampleIAT returns the next inter-arrival time in seconds.
	// Always returns a positive value.
	SampleIAT(rng *rand.Rand) float64
}

// PoissonSampler generates exponentially-distributed inter-arrival times
// (a Poisson arrival process, CV=1).
type PoissonSampler struct {
	rate float64 // packets per second
}

func (s *PoissonSampler) SampleIAT(rng *rand.Rand) float64 {
	return rng.ExpFloat64() / s.rate
}

// ConstantSampler generates fixed inter-arrival times (CV=0). Useful for
// regression scenarios where arrival jitter would obscure a discipline's
// ordering behavior.
type ConstantSampler struct {
	interval float64 // seconds between packets
}

func (s *ConstantSampler) SampleIAT(_ *rand.Rand) float64 {
	return s.interval
}

// BurstySampler generates on/off arrivals: runs of closely spaced packets
// separated by long idle gaps, at the same long-run rate as a Poisson
// process. Bursts stress finite-capacity disciplines far harder than
// smooth arrivals at an equal average rate.
type BurstySampler struct {
	rate      float64 // long-run packets per second
	burstLen  int     // mean packets per burst
	burstGain float64 // how much faster than average packets arrive inside a burst

	remaining int // packets left in the current burst
}

func (s *BurstySampler) SampleIAT(rng *rand.Rand) float64 {
	if s.remaining <= 0 {
		// Start a new burst. The idle gap absorbs the time the burst
		// saves, keeping the long-run rate at s.rate.
		s.remaining = 1 + rng.Intn(2*s.burstLen-1)
		gapScale := float64(s.burstLen)*(1-1/s.burstGain) + 1
		return rng.ExpFloat64() * gapScale / s.rate
	}
	s.remaining--
	return rng.ExpFloat64() / (s.rate * s.burstGain)
}

// NewArrivalSampler creates an ArrivalSampler for the named traffic model
// at the given rate in packets per second. The rate must be positive and
// the model valid; Config.Validate enforces both before generation.
func NewArrivalSampler(model string, rate float64) ArrivalSampler {
	switch model {
	case TrafficBursty:
		return &BurstySampler{rate: rate, burstLen: 5, burstGain: 5.0}
	case TrafficConstant:
		return &ConstantSampler{interval: 1.0 / rate}
	case "", TrafficPoisson:
		return &PoissonSampler{rate: rate}
	default:
		logrus.Warnf("unknown traffic model %q, falling back to poisson", model)
		return &PoissonSampler{rate: rate}
	}
}

// Generates reproducible packet streams for the simulator: arrival times
// from a traffic model, priorities and sizes from weighted distributions,
// service times from a uniform range.

package workload

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/qos-sim/qos-sim/sim"
)

// SizeClass is one weighted bucket of a packet size distribution.
type SizeClass struct {
	MinBytes int     `yaml:"min_bytes"`
	MaxBytes int     `yaml:"max_bytes"`
	Weight   float64 `yaml:"weight"`
}

// Config groups traffic generation parameters. Zero-valued fields fall
// back to the defaults below (see DefaultConfig).
type Config struct {
	Count        int     `yaml:"count"`         // number of packets to generate
	Rate         float64 `yaml:"rate"`          // average packets per second
	TrafficModel string  `yaml:"traffic_model"` // "poisson" (default), "bursty", or "constant"

	// PriorityWeights maps a priority level (= flow id) to its relative
	// weight in the stream.
	PriorityWeights map[int]float64 `yaml:"priority_weights"`

	// SizeClasses define the packet size distribution.
	SizeClasses []SizeClass `yaml:"size_classes"`

	// Service time is sampled uniformly from [ServiceTimeMin, ServiceTimeMax].
	ServiceTimeMin float64 `yaml:"service_time_min"`
	ServiceTimeMax float64 `yaml:"service_time_max"`
}

// DefaultConfig returns the baseline traffic mix: 100 packets at 2/s,
// Poisson arrivals, three flows weighted 50/30/20, small/medium/large
// sizes, service times between 0.5 and 2 seconds.
func DefaultConfig() Config {
	return Config{
		Count:        100,
		Rate:         2.0,
		TrafficModel: TrafficPoisson,
		PriorityWeights: map[int]float64{
			1: 0.5,
			2: 0.3,
			3: 0.2,
		},
		SizeClasses: []SizeClass{
			{MinBytes: 500, MaxBytes: 1000, Weight: 0.3},
			{MinBytes: 1000, MaxBytes: 2000, Weight: 0.5},
			{MinBytes: 2000, MaxBytes: 5000, Weight: 0.2},
		},
		ServiceTimeMin: 0.5,
		ServiceTimeMax: 2.0,
	}
}

// Validate checks the generation parameters, filling defaulted fields in
// place. Fails fast rather than clamping.
func (c *Config) Validate() error {
	if c.Count <= 0 {
		return fmt.Errorf("packet count must be > 0, got %d", c.Count)
	}
	if c.Rate <= 0 {
		return fmt.Errorf("arrival rate must be > 0, got %g", c.Rate)
	}
	if !IsValidTrafficModel(c.TrafficModel) {
		return fmt.Errorf("unknown traffic model %q", c.TrafficModel)
	}
	if len(c.PriorityWeights) == 0 {
		c.PriorityWeights = DefaultConfig().PriorityWeights
	}
	totalWeight := 0.0
	for level, w := range c.PriorityWeights {
		if level <= 0 {
			return fmt.Errorf("priority level must be > 0, got %d", level)
		}
		if w < 0 {
			return fmt.Errorf("priority weight for level %d must be >= 0, got %g", level, w)
		}
		totalWeight += w
	}
	if totalWeight <= 0 {
		return fmt.Errorf("priority weights must sum to > 0, got %g", totalWeight)
	}
	if len(c.SizeClasses) == 0 {
		c.SizeClasses = DefaultConfig().SizeClasses
	}
	totalClassWeight := 0.0
	for i, sc := range c.SizeClasses {
		if sc.MinBytes <= 0 || sc.MaxBytes < sc.MinBytes {
			return fmt.Errorf("size class %d has invalid range [%d, %d]", i, sc.MinBytes, sc.MaxBytes)
		}
		if sc.Weight < 0 {
			return fmt.Errorf("size class %d weight must be >= 0, got %g", i, sc.Weight)
		}
		totalClassWeight += sc.Weight
	}
	if totalClassWeight <= 0 {
		return fmt.Errorf("size class weights must sum to > 0, got %g", totalClassWeight)
	}
	if c.ServiceTimeMin == 0 && c.ServiceTimeMax == 0 {
		def := DefaultConfig()
		c.ServiceTimeMin = def.ServiceTimeMin
		c.ServiceTimeMax = def.ServiceTimeMax
	}
	if c.ServiceTimeMin <= 0 || c.ServiceTimeMax < c.ServiceTimeMin {
		return fmt.Errorf("service time range [%g, %g] is invalid", c.ServiceTimeMin, c.ServiceTimeMax)
	}
	return nil
}

// Generator produces packet streams from an explicitly owned random
// source. There is no global generator state: two Generators with the
// same seed and config produce identical streams.
type Generator struct {
	rng    *PartitionedRNG
	nextID int
}

// NewGenerator creates a Generator seeded from the given key.
func NewGenerator(key SimulationKey) *Generator {
	return &Generator{rng: NewPartitionedRNG(key)}
}

// Generate produces cfg.Count packets with monotonically increasing
// arrival times. The returned slice is sorted by arrival time. Packet IDs
// continue from previous calls on the same Generator.
func (g *Generator) Generate(cfg Config) ([]*sim.Packet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	arrivals := NewArrivalSampler(cfg.TrafficModel, cfg.Rate)
	arrivalRNG := g.rng.ForSubsystem(SubsystemArrival)
	priorityRNG := g.rng.ForSubsystem(SubsystemPriority)
	sizeRNG := g.rng.ForSubsystem(SubsystemSize)
	serviceRNG := g.rng.ForSubsystem(SubsystemService)

	priorityPicker := newWeightedPicker(cfg.PriorityWeights)
	sizeWeights := make(map[int]float64, len(cfg.SizeClasses))
	for i, sc := range cfg.SizeClasses {
		sizeWeights[i] = sc.Weight
	}
	sizePicker := newWeightedPicker(sizeWeights)

	packets := make([]*sim.Packet, 0, cfg.Count)
	currentTime := 0.0
	for i := 0; i < cfg.Count; i++ {
		currentTime += arrivals.SampleIAT(arrivalRNG)

		class := cfg.SizeClasses[sizePicker.pick(sizeRNG)]
		size := class.MinBytes
		if class.MaxBytes > class.MinBytes {
			size += sizeRNG.Intn(class.MaxBytes - class.MinBytes + 1)
		}

		serviceTime := cfg.ServiceTimeMin + serviceRNG.Float64()*(cfg.ServiceTimeMax-cfg.ServiceTimeMin)

		packets = append(packets, &sim.Packet{
			ID:          g.nextID,
			ArrivalTime: currentTime,
			Priority:    priorityPicker.pick(priorityRNG),
			Size:        size,
			ServiceTime: serviceTime,
		})
		g.nextID++
	}
	return packets, nil
}

// weightedPicker samples keys proportionally to their weights using an
// inverse-CDF walk. Keys are kept sorted so sampling order is
// deterministic for a given seed.
type weightedPicker struct {
	keys []int
	cdf  []float64
}

func newWeightedPicker(weights map[int]float64) *weightedPicker {
	keys := make([]int, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	total := 0.0
	for _, k := range keys {
		total += weights[k]
	}

	cdf := make([]float64, len(keys))
	cumulative := 0.0
	for i, k := range keys {
		cumulative += weights[k] / total
		cdf[i] = cumulative
	}
	if len(cdf) > 0 {
		cdf[len(cdf)-1] = 1.0 // absorb rounding error
	}
	return &weightedPicker{keys: keys, cdf: cdf}
}

func (w *weightedPicker) pick(rng *rand.Rand) int {
	u := rng.Float64()
	idx := sort.SearchFloat64s(w.cdf, u)
	if idx >= len(w.keys) {
		idx = len(w.keys) - 1
	}
	return w.keys[idx]
}

package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/qos-sim/qos-sim/sim"
	"github.com/qos-sim/qos-sim/sim/trace"
	"github.com/qos-sim/qos-sim/sim/workload"
)

var (
	// CLI flags for traffic generation
	seed            int64     // Seed for random packet generation
	logLevel        string    // Log verbosity level
	numPackets      int       // Number of packets to generate
	rate            float64   // Packet arrivals per second
	trafficModel    string    // Arrival process ("poisson", "bursty", "constant")
	priorityWeights []float64 // Relative weights for priority levels 1..N
	serviceTimeMin  float64   // Min packet service time (seconds)
	serviceTimeMax  float64   // Max packet service time (seconds)

	// CLI flags for discipline configuration
	discipline string  // Discipline to simulate
	capacity   int     // Queue capacity bound (0 = unbounded)
	rrQueues   int     // Round-Robin queue count
	rrQuantum  float64 // Round-Robin time quantum
	fqVariant  string  // Fair Queue bookkeeping variant

	// CLI flags for output
	traceLevel string // Decision trace level ("none", "decisions")
	jsonOutput bool   // Emit metrics as JSON instead of the text table
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "qos-sim",
	Short: "Discrete-event simulator for QoS queueing disciplines",
}

// setupLogging parses and applies the --log flag.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// generatePackets builds the packet stream from the traffic generation flags.
func generatePackets() []*sim.Packet {
	cfg := workload.DefaultConfig()
	cfg.Count = numPackets
	cfg.Rate = rate
	cfg.TrafficModel = trafficModel
	cfg.ServiceTimeMin = serviceTimeMin
	cfg.ServiceTimeMax = serviceTimeMax
	if len(priorityWeights) > 0 {
		weights := make(map[int]float64, len(priorityWeights))
		for i, w := range priorityWeights {
			weights[i+1] = w
		}
		cfg.PriorityWeights = weights
	}

	gen := workload.NewGenerator(workload.NewSimulationKey(seed))
	packets, err := gen.Generate(cfg)
	if err != nil {
		logrus.Fatalf("unable to generate traffic: %v", err)
	}
	return packets
}

// newTrace builds a decision trace from the --trace flag, or nil when disabled.
func newTrace() *trace.SimulationTrace {
	if !trace.IsValidTraceLevel(traceLevel) {
		logrus.Fatalf("Invalid trace level: %s", traceLevel)
	}
	if trace.TraceLevel(traceLevel) != trace.TraceLevelDecisions {
		return nil
	}
	return trace.NewSimulationTrace(trace.TraceLevelDecisions)
}

// runCmd simulates a single discipline over generated traffic.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one queueing discipline over generated traffic",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		tracer := newTrace()
		d, err := sim.NewDiscipline(sim.Config{
			Discipline: discipline,
			Capacity:   capacity,
			NumQueues:  rrQueues,
			Quantum:    rrQuantum,
			FQVariant:  fqVariant,
			Trace:      tracer,
		})
		if err != nil {
			logrus.Fatalf("invalid discipline configuration: %v", err)
		}

		packets := generatePackets()
		logrus.Infof("Simulating %s over %d packets (rate=%.2f/s, traffic=%s, capacity=%d)",
			d.Name(), len(packets), rate, trafficModel, capacity)

		metrics := sim.NewSimulator(d).Run(packets)

		if jsonOutput {
			printJSONMetrics(d.Name(), metrics)
		} else {
			metrics.Print(d.Name())
		}
		if tracer != nil {
			printTraceSummary(trace.Summarize(tracer))
		}
	},
}

// compareCmd runs every discipline over clones of the same traffic.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare all queueing disciplines over identical traffic",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		disciplines := make([]sim.Discipline, 0, len(sim.DisciplineNames()))
		for _, name := range sim.DisciplineNames() {
			d, err := sim.NewDiscipline(sim.Config{
				Discipline: name,
				Capacity:   capacity,
				NumQueues:  rrQueues,
				Quantum:    rrQuantum,
				FQVariant:  fqVariant,
			})
			if err != nil {
				logrus.Fatalf("invalid discipline configuration: %v", err)
			}
			disciplines = append(disciplines, d)
		}

		packets := generatePackets()
		logrus.Infof("Comparing %d disciplines over %d packets", len(disciplines), len(packets))

		results := sim.RunExperiment(packets, disciplines)
		if jsonOutput {
			printJSONResults(results)
		} else {
			printComparisonTable(results)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, cmd := range []*cobra.Command{runCmd, compareCmd} {
		cmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random packet generation")
		cmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

		// Traffic generation configs
		cmd.Flags().IntVar(&numPackets, "packets", 100, "Number of packets to generate")
		cmd.Flags().Float64Var(&rate, "rate", 2.0, "Packet arrivals per second")
		cmd.Flags().StringVar(&trafficModel, "traffic", "poisson", "Traffic model (poisson, bursty, constant)")
		cmd.Flags().Float64SliceVar(&priorityWeights, "priority-weights", []float64{0.5, 0.3, 0.2}, "Comma-separated weights for priority levels 1..N")
		cmd.Flags().Float64Var(&serviceTimeMin, "service-min", 0.5, "Minimum packet service time (seconds)")
		cmd.Flags().Float64Var(&serviceTimeMax, "service-max", 2.0, "Maximum packet service time (seconds)")

		// Discipline configs
		cmd.Flags().IntVar(&capacity, "capacity", 0, "Queue capacity bound (0 = unbounded)")
		cmd.Flags().IntVar(&rrQueues, "rr-queues", sim.DefaultRRQueues, "Round-Robin queue count")
		cmd.Flags().Float64Var(&rrQuantum, "rr-quantum", sim.DefaultRRQuantum, "Round-Robin time quantum (seconds)")
		cmd.Flags().StringVar(&fqVariant, "fq-variant", sim.FQFinishTime, "Fair Queue variant (finish-time, round-robin)")

		// Output configs
		cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit metrics as JSON")
	}

	runCmd.Flags().StringVar(&discipline, "discipline", sim.DisciplineFCFS, "Discipline to simulate (fcfs, priority, round-robin, fair-queue, las)")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Decision trace level (none, decisions)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(scenarioCmd)
}

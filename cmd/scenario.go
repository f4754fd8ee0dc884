package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/qos-sim/qos-sim/sim"
	"github.com/qos-sim/qos-sim/sim/workload"
)

// ScenarioFile is the top-level YAML document for the scenario command.
type ScenarioFile struct {
	Scenarios map[string]Scenario `yaml:"scenarios"`
}

// Scenario is one named experiment: a traffic mix plus the disciplines to
// compare over it.
type Scenario struct {
	Seed        int64            `yaml:"seed"`
	Workload    workload.Config  `yaml:"workload"`
	Disciplines []DisciplineSpec `yaml:"disciplines"`
}

// DisciplineSpec configures one discipline within a scenario.
type DisciplineSpec struct {
	Name      string  `yaml:"name"`
	Capacity  int     `yaml:"capacity"`
	NumQueues int     `yaml:"num_queues"`
	Quantum   float64 `yaml:"quantum"`
	FQVariant string  `yaml:"fq_variant"`
}

// LoadScenarioFile reads and parses a scenario YAML file.
func LoadScenarioFile(path string) (*ScenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	var file ScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}
	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("scenario file %s defines no scenarios", path)
	}
	return &file, nil
}

// runScenario generates the scenario's traffic and compares its disciplines.
func runScenario(name string, sc Scenario) error {
	disciplines := make([]sim.Discipline, 0, len(sc.Disciplines))
	for _, spec := range sc.Disciplines {
		d, err := sim.NewDiscipline(sim.Config{
			Discipline: spec.Name,
			Capacity:   spec.Capacity,
			NumQueues:  spec.NumQueues,
			Quantum:    spec.Quantum,
			FQVariant:  spec.FQVariant,
		})
		if err != nil {
			return fmt.Errorf("scenario %q: %w", name, err)
		}
		disciplines = append(disciplines, d)
	}
	if len(disciplines) == 0 {
		return fmt.Errorf("scenario %q defines no disciplines", name)
	}

	gen := workload.NewGenerator(workload.NewSimulationKey(sc.Seed))
	packets, err := gen.Generate(sc.Workload)
	if err != nil {
		return fmt.Errorf("scenario %q: %w", name, err)
	}

	logrus.Infof("Scenario %q: %d packets, %d disciplines", name, len(packets), len(disciplines))
	fmt.Printf("=== Scenario: %s ===\n", name)
	results := sim.RunExperiment(packets, disciplines)
	if jsonOutput {
		printJSONResults(results)
	} else {
		printComparisonTable(results)
	}
	return nil
}

// scenarioCmd runs every scenario defined in a YAML file.
var scenarioCmd = &cobra.Command{
	Use:   "scenario <file>",
	Short: "Run scenarios from a YAML file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		file, err := LoadScenarioFile(args[0])
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		// Run in name order for stable output.
		names := make([]string, 0, len(file.Scenarios))
		for name := range file.Scenarios {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if err := runScenario(name, file.Scenarios[name]); err != nil {
				logrus.Fatalf("%v", err)
			}
		}
	},
}

// init sets up scenario command flags
func init() {
	scenarioCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	scenarioCmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit metrics as JSON")
}

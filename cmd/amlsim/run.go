package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/synthaml/amlsim/internal/conf"
	"github.com/synthaml/amlsim/internal/load"
	"github.com/synthaml/amlsim/internal/logging"
	"github.com/synthaml/amlsim/internal/sim"
	"github.com/synthaml/amlsim/internal/sink"
	"github.com/synthaml/amlsim/internal/stat"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := conf.Load(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				seed, _ := cmd.Flags().GetInt64("seed")
				cfg.General.RandomSeed = seed
			}
			return runSimulation(cfg)
		},
	}
	cmd.Flags().StringP("config", "c", "conf.yaml", "Path to the configuration file")
	cmd.Flags().Int64("seed", 0, "Override the configured random seed")
	return cmd
}

func runSimulation(cfg *conf.Config) error {
	log := logging.NewLogger(cfg.Logging.Level, os.Stderr)
	runID := uuid.NewString()
	log.Info("run configured",
		"run_id", runID,
		"name", cfg.General.SimulationName,
		"seed", cfg.General.RandomSeed,
		"steps", cfg.General.TotalSteps)

	outDir := cfg.Output.Directory
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	audit := logging.NewAuditLogger(outDir, cfg.Logging.Level)
	defer audit.Close()

	var sinks []sim.TransactionSink
	var csvSink *sink.CSVSink
	var err error
	if cfg.Sinks.CSV {
		csvSink, err = sink.NewCSVSink(
			filepath.Join(outDir, cfg.Output.TransactionLog),
			cfg.General.TotalSteps, cfg.Simulator.TransactionLimit, log)
		if err != nil {
			return err
		}
		sinks = append(sinks, csvSink)
	}
	if cfg.Sinks.SQLite.Enabled {
		sq, err := sink.NewSQLiteSink(cfg.Sinks.SQLite.Path, runID,
			cfg.General.SimulationName, cfg.General.RandomSeed, cfg.General.TotalSteps, log)
		if err != nil {
			return err
		}
		sinks = append(sinks, sq)
	}
	if cfg.Sinks.Kafka.Enabled {
		sinks = append(sinks, sink.NewKafkaSink(
			cfg.Sinks.Kafka.Brokers, cfg.Sinks.Kafka.Topic, runID, log))
	}

	var diameter *stat.Diameter
	if cfg.Simulator.ComputeDiameter {
		diameter, err = stat.NewDiameter(filepath.Join(outDir, cfg.Output.DiameterLog), log)
		if err != nil {
			return err
		}
		sinks = append(sinks, diameter)
	}

	multi := sink.NewMulti(sinks...)

	rnd := rand.New(rand.NewSource(cfg.General.RandomSeed))
	policy := cfg.SimPolicy()
	policy.Bind(rnd)
	ctx := sim.NewContext(rnd, cfg.Params(), policy, multi, log)
	s := sim.NewSimulation(ctx, cfg.Simulator.NumBranches)

	loader := &load.Loader{Log: log, Audit: audit}
	in := func(name string) string { return filepath.Join(cfg.Input.Directory, name) }
	if err := loader.Accounts(in(cfg.Input.Accounts), s); err != nil {
		return err
	}
	if err := loader.Edges(in(cfg.Input.Edges), s); err != nil {
		return err
	}
	if err := loader.NormalModels(in(cfg.Input.NormalModels), s); err != nil {
		return err
	}
	if err := loader.AlertMembers(in(cfg.Input.AlertMembers), s); err != nil {
		return err
	}

	if diameter != nil {
		s.OnStep = func(step int64) {
			if step%10 == 0 {
				diameter.Compute(step)
			}
		}
	}

	s.Run()

	if csvSink != nil {
		if err := csvSink.WriteCounters(filepath.Join(outDir, cfg.Output.CounterLog)); err != nil {
			return err
		}
	}
	if err := multi.Close(); err != nil {
		return fmt.Errorf("closing sinks: %w", err)
	}
	log.Info("run complete", "run_id", runID)
	return nil
}

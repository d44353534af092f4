// Command poolboot boots a work-stealing pool through host-spawned worker
// contexts and runs a divide-and-conquer workload on it.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/utkarsh5026/poolboot/internal/config"
)

func main() {
	cfg, opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(cfg, opts); err != nil {
		colorPrintLn(red, "error:", err)
		os.Exit(1)
	}
}

type cliOptions struct {
	ci    bool
	plain bool
}

func parseFlags(args []string) (config.Config, cliOptions, error) {
	fs := flag.NewFlagSet("poolboot", flag.ContinueOnError)

	def := config.Default()
	configPath := fs.String("config", "", "YAML or JSON config file")
	workers := fs.Int("workers", def.Workers, "Number of worker contexts to spawn")
	pin := fs.Bool("pin", def.PinThreads, "Pin each worker context to a CPU core")
	spawnRate := fs.Float64("spawn-rate", def.SpawnRate, "Worker contexts spawned per second (0 = unlimited)")
	spawnBurst := fs.Int("spawn-burst", def.SpawnBurst, "Spawn burst size when -spawn-rate is set")
	logLevel := fs.String("log-level", def.LogLevel, "Log level: debug, info, warn, error")
	logJSON := fs.Bool("log-json", def.LogJSON, "Write logs as JSON")
	jobs := fs.Int("jobs", def.Jobs, "Size of the demo workload")
	shutdown := fs.Duration("shutdown-timeout", def.ShutdownTimeout, "How long to wait for pool threads to exit")
	metricsFlag := fs.Bool("metrics", def.Metrics, "Print handoff metrics after the run")
	ci := fs.Bool("ci", false, "CI mode: disable progress bar")
	plain := fs.Bool("plain", false, "Plain mode: disable colors")

	if err := fs.Parse(args); err != nil {
		return def, cliOptions{}, err
	}

	cfg := def
	if *configPath != "" {
		fc, err := config.LoadFile(*configPath)
		if err != nil {
			return def, cliOptions{}, err
		}
		if cfg, err = fc.Apply(def); err != nil {
			return def, cliOptions{}, err
		}
	}

	// explicit flags win over the file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "workers":
			cfg.Workers = *workers
		case "pin":
			cfg.PinThreads = *pin
		case "spawn-rate":
			cfg.SpawnRate = *spawnRate
		case "spawn-burst":
			cfg.SpawnBurst = *spawnBurst
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-json":
			cfg.LogJSON = *logJSON
		case "jobs":
			cfg.Jobs = *jobs
		case "shutdown-timeout":
			cfg.ShutdownTimeout = *shutdown
		case "metrics":
			cfg.Metrics = *metricsFlag
		}
	})

	if err := cfg.Validate(); err != nil {
		return cfg, cliOptions{}, fmt.Errorf("invalid configuration:\n%w", err)
	}

	if *plain {
		color.NoColor = true
	}
	return cfg, cliOptions{ci: *ci, plain: *plain}, nil
}

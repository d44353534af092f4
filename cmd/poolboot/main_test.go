package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/utkarsh5026/poolboot/internal/scheduler"
	"github.com/utkarsh5026/poolboot/pool"
)

func TestParseFlags(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "poolboot.yaml")
	if err := os.WriteFile(cfgPath, []byte("workers: 3\njobs: 50\nlog_level: warn\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	tests := []struct {
		name        string
		args        []string
		wantWorkers int
		wantJobs    int
		wantLevel   string
		wantErr     bool
	}{
		{"defaults", []string{"-workers", "2"}, 2, 1 << 16, "info", false},
		{"file", []string{"-config", cfgPath}, 3, 50, "warn", false},
		{"flag overrides file", []string{"-config", cfgPath, "-workers", "5"}, 5, 50, "warn", false},
		{"invalid workers", []string{"-workers", "0"}, 0, 0, "", true},
		{"rate without burst", []string{"-spawn-rate", "10"}, 0, 0, "", true},
		{"missing file", []string{"-config", filepath.Join(dir, "nope.yaml")}, 0, 0, "", true},
		{"unknown flag", []string{"-threads", "4"}, 0, 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, _, err := parseFlags(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFlags: %v", err)
			}
			if cfg.Workers != tt.wantWorkers || cfg.Jobs != tt.wantJobs || cfg.LogLevel != tt.wantLevel {
				t.Errorf("got workers=%d jobs=%d level=%s", cfg.Workers, cfg.Jobs, cfg.LogLevel)
			}
		})
	}
}

func TestWorkload(t *testing.T) {
	if pool.Current() != nil {
		t.Fatal("workload must not depend on the global pool")
	}

	p, err := scheduler.NewBuilder().NumThreads(4).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer func() { _ = p.Shutdown(5 * time.Second) }()

	const n = 100_000
	sum, spawned, err := workload(p, n)
	if err != nil {
		t.Fatalf("workload: %v", err)
	}
	if want := int64(n) * (n - 1) / 2; sum != want {
		t.Errorf("sum = %d, want %d", sum, want)
	}
	if spawned != 4 {
		t.Errorf("spawned = %d, want 4", spawned)
	}

	got, err := parallelSum(context.Background(), p, 10, 10)
	if err != nil || got != 0 {
		t.Errorf("empty range = %d, %v", got, err)
	}
}

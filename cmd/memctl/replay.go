package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/PoojaManglaCMU/MallocImplementation/heap"
	"github.com/PoojaManglaCMU/MallocImplementation/internal/trace"
)

var (
	replayVerify bool
	replayConfig string
	replayLimit  int
)

// replayBatch is the YAML config accepted by --config. It lets a benchmark
// run name its trace set and heap settings in one file:
//
//	traces:
//	  - traces/short2.rep
//	  - traces/binary.rep
//	verify: true
//	region_limit: 67108864
type replayBatch struct {
	Traces      []string `yaml:"traces"`
	Verify      bool     `yaml:"verify"`
	RegionLimit int      `yaml:"region_limit"`
}

// replayReport is one trace's result, shaped for --json output.
type replayReport struct {
	Trace       string  `json:"trace"`
	Ops         int     `json:"ops"`
	PeakPayload int     `json:"peak_payload"`
	HeapSize    int     `json:"heap_size"`
	Extends     int     `json:"extends"`
	Utilization float64 `json:"utilization"`
	OpsPerSec   float64 `json:"ops_per_sec"`
}

func init() {
	cmd := newReplayCmd()
	cmd.Flags().BoolVar(&replayVerify, "verify", false, "Run the consistency checker after every operation")
	cmd.Flags().StringVar(&replayConfig, "config", "", "YAML batch config instead of trace arguments")
	cmd.Flags().IntVar(&replayLimit, "region-limit", 0, "Cap the heap region at this many bytes")
	rootCmd.AddCommand(cmd)
}

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <trace>...",
		Short: "Replay allocator trace files",
		Long: `The replay command drives the allocator through one or more trace
files and reports peak utilization and throughput per trace.

Example:
  memctl replay traces/short2.rep
  memctl replay --verify traces/*.rep
  memctl replay --config bench.yaml --json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(args)
		},
	}
}

func runReplay(args []string) error {
	paths := args
	verify := replayVerify
	limit := replayLimit

	if replayConfig != "" {
		raw, err := os.ReadFile(replayConfig)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		var batch replayBatch
		if err := yaml.Unmarshal(raw, &batch); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
		paths = append(paths, batch.Traces...)
		verify = verify || batch.Verify
		if batch.RegionLimit > 0 {
			limit = batch.RegionLimit
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no traces given; pass files or --config")
	}

	var reports []replayReport
	for _, path := range paths {
		printVerbose("Parsing trace: %s\n", path)
		tr, err := trace.ParseFile(path)
		if err != nil {
			return err
		}

		var opts []heap.Option
		if verify {
			opts = append(opts, heap.WithVerify())
		}
		if limit > 0 {
			opts = append(opts, heap.WithLimit(limit))
		}

		start := time.Now()
		res, err := trace.Replay(tr, opts...)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		elapsed := time.Since(start)

		report := replayReport{
			Trace:       path,
			Ops:         res.Ops,
			PeakPayload: res.PeakPayload,
			HeapSize:    res.HeapSize,
			Extends:     res.Extends,
			Utilization: res.Utilization,
		}
		if elapsed > 0 {
			report.OpsPerSec = float64(res.Ops) / elapsed.Seconds()
		}
		reports = append(reports, report)

		if !jsonOut {
			printInfo("%s\n", path)
			printInfo("  Ops:          %s\n", humanize.Comma(int64(res.Ops)))
			printInfo("  Peak payload: %s\n", humanize.IBytes(uint64(res.PeakPayload)))
			printInfo("  Heap size:    %s (%d extensions)\n",
				humanize.IBytes(uint64(res.HeapSize)), res.Extends)
			printInfo("  Utilization:  %.1f%%\n", res.Utilization*100)
			printInfo("  Throughput:   %s ops/s\n\n",
				humanize.CommafWithDigits(report.OpsPerSec, 0))
		}
	}

	if jsonOut {
		return printJSON(reports)
	}
	return nil
}

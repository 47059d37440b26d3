package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/PoojaManglaCMU/MallocImplementation/heap"
	"github.com/PoojaManglaCMU/MallocImplementation/internal/trace"
)

const testTrace = `1000
2
6
1
a 0 100
a 1 200
f 0
r 1 400
f 1
a 0 50
`

func writeTrace(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.rep")
	require.NoError(t, os.WriteFile(path, []byte(testTrace), 0o600))
	return path
}

func TestRunReplay(t *testing.T) {
	quiet = true
	defer func() { quiet = false }()

	require.NoError(t, runReplay([]string{writeTrace(t)}))
}

func TestRunReplayWithConfig(t *testing.T) {
	quiet = true
	defer func() { quiet = false; replayConfig = "" }()

	batch := replayBatch{
		Traces:      []string{writeTrace(t)},
		Verify:      true,
		RegionLimit: 1 << 20,
	}
	raw, err := yaml.Marshal(batch)
	require.NoError(t, err)

	cfg := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(cfg, raw, 0o600))

	replayConfig = cfg
	require.NoError(t, runReplay(nil))
}

func TestRunReplayNoInput(t *testing.T) {
	replayConfig = ""
	require.Error(t, runReplay(nil))
}

func TestStatsSnapshotCollector(t *testing.T) {
	tr, err := trace.ParseFile(writeTrace(t))
	require.NoError(t, err)
	res, err := trace.Replay(tr, heap.WithVerify())
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(&statsSnapshot{stats: res.Stats, heapSize: res.HeapSize}))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)

	names := make(map[string]bool, len(families))
	for _, fam := range families {
		names[fam.GetName()] = true
	}
	assert.True(t, names["memctl_replay_operations_total"])
	assert.True(t, names["memctl_replay_heap_bytes"])
}

func TestRunExercise(t *testing.T) {
	quiet = true
	defer func() { quiet = false }()

	exerciseOps = 300
	exerciseSeed = 42
	exerciseMaxSize = 512
	require.NoError(t, runExercise())
}

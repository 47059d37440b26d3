package heap

import "github.com/prometheus/client_golang/prometheus"

// Stats holds allocator operation counters. Counters only ever grow; a
// snapshot is returned by value from Stats().
type Stats struct {
	AllocCalls   int
	FreeCalls    int
	ReallocCalls int
	CallocCalls  int

	Extends     int
	ExtendBytes int64

	BytesAllocated int64
	BytesFreed     int64

	Splits           int
	CoalesceForward  int
	CoalesceBackward int
	CoalesceBoth     int
}

// Stats returns a snapshot of the allocator counters.
func (h *Heap) Stats() Stats {
	return h.stats
}

// Collector exposes a heap's counters and region size as Prometheus
// metrics. Register it against the registry that scrapes the process:
//
//	reg.MustRegister(heap.NewCollector(h))
type Collector struct {
	h *Heap
}

var (
	descOps = prometheus.NewDesc(
		"heap_operations_total",
		"Public allocator operations by kind.",
		[]string{"op"}, nil,
	)
	descExtends = prometheus.NewDesc(
		"heap_extends_total",
		"Region extensions performed.",
		nil, nil,
	)
	descExtendBytes = prometheus.NewDesc(
		"heap_extend_bytes_total",
		"Bytes added to the region by extension.",
		nil, nil,
	)
	descBytesAllocated = prometheus.NewDesc(
		"heap_allocated_bytes_total",
		"Block bytes handed out, headers included.",
		nil, nil,
	)
	descBytesFreed = prometheus.NewDesc(
		"heap_freed_bytes_total",
		"Block bytes released, headers included.",
		nil, nil,
	)
	descSplits = prometheus.NewDesc(
		"heap_splits_total",
		"Blocks split during placement.",
		nil, nil,
	)
	descCoalesces = prometheus.NewDesc(
		"heap_coalesces_total",
		"Coalesce operations by merge direction.",
		[]string{"direction"}, nil,
	)
	descRegionBytes = prometheus.NewDesc(
		"heap_region_bytes",
		"Current region size in bytes.",
		nil, nil,
	)
)

// NewCollector returns a Collector reading from h.
func NewCollector(h *Heap) *Collector {
	return &Collector{h: h}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- descOps
	ch <- descExtends
	ch <- descExtendBytes
	ch <- descBytesAllocated
	ch <- descBytesFreed
	ch <- descSplits
	ch <- descCoalesces
	ch <- descRegionBytes
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.h.Stats()

	counter := func(d *prometheus.Desc, v int64, labels ...string) prometheus.Metric {
		return prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), labels...)
	}

	ch <- counter(descOps, int64(s.AllocCalls), "alloc")
	ch <- counter(descOps, int64(s.FreeCalls), "free")
	ch <- counter(descOps, int64(s.ReallocCalls), "realloc")
	ch <- counter(descOps, int64(s.CallocCalls), "calloc")
	ch <- counter(descExtends, int64(s.Extends))
	ch <- counter(descExtendBytes, s.ExtendBytes)
	ch <- counter(descBytesAllocated, s.BytesAllocated)
	ch <- counter(descBytesFreed, s.BytesFreed)
	ch <- counter(descSplits, int64(s.Splits))
	ch <- counter(descCoalesces, int64(s.CoalesceForward), "forward")
	ch <- counter(descCoalesces, int64(s.CoalesceBackward), "backward")
	ch <- counter(descCoalesces, int64(s.CoalesceBoth), "both")
	ch <- prometheus.MustNewConstMetric(descRegionBytes, prometheus.GaugeValue, float64(c.h.Size()))
}

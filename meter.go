package streamkit

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// MeterStats is a snapshot of a Meter's counters.
type MeterStats struct {
	BytesRead    int64
	BytesWritten int64
	Reads        int64
	Writes       int64
	Seeks        int64
	Flushes      int64
}

// Meter counts the traffic through a chain position. It forwards every
// capability of the next component unchanged. Counters are atomic so a
// Prometheus scrape can read them while the pipeline is in use.
type Meter struct {
	link
	name string

	bytesRead    atomic.Int64
	bytesWritten atomic.Int64
	reads        atomic.Int64
	writes       atomic.Int64
	seeks        atomic.Int64
	flushes      atomic.Int64
}

// NewMeter creates a meter. The name labels its Prometheus series.
func NewMeter(name string) *Meter {
	return &Meter{name: name}
}

// Name implements Filter.
func (m *Meter) Name() string {
	return "meter(" + m.name + ")"
}

// Bind implements Filter. Any component can be metered.
func (m *Meter) Bind(next Component) (Component, error) {
	if err := m.attach(m.Name(), next, 0, 0); err != nil {
		return nil, err
	}
	return m, nil
}

// Category forwards the next component's category.
func (m *Meter) Category() Category {
	return m.nextCategory()
}

// Stats returns the current counters.
func (m *Meter) Stats() MeterStats {
	return MeterStats{
		BytesRead:    m.bytesRead.Load(),
		BytesWritten: m.bytesWritten.Load(),
		Reads:        m.reads.Load(),
		Writes:       m.writes.Load(),
		Seeks:        m.seeks.Load(),
		Flushes:      m.flushes.Load(),
	}
}

func (m *Meter) Read(p []byte) (int, error) {
	n, err := m.read(p)
	m.reads.Add(1)
	m.bytesRead.Add(int64(n))
	return n, err
}

func (m *Meter) Write(p []byte) (int, error) {
	n, err := m.write(p)
	m.writes.Add(1)
	m.bytesWritten.Add(int64(n))
	return n, err
}

func (m *Meter) SeekG(offset int64, dir SeekDir) (int64, error) {
	m.seeks.Add(1)
	return m.seekG(offset, dir)
}

func (m *Meter) TellG() int64 { return m.tellG() }

func (m *Meter) SeekP(offset int64, dir SeekDir) (int64, error) {
	m.seeks.Add(1)
	return m.seekP(offset, dir)
}

func (m *Meter) TellP() int64 { return m.tellP() }

func (m *Meter) Flush() error {
	m.flushes.Add(1)
	return m.flush()
}

func (m *Meter) EOF() bool   { return m.eof() }
func (m *Meter) Good() bool  { return m.good() }
func (m *Meter) Fail() bool  { return m.fail() }
func (m *Meter) Size() int64 { return m.size() }

// ReadLine forwards to a line-oriented next component.
func (m *Meter) ReadLine() (string, error) {
	if l, ok := m.next.(LineReader); ok && m.nextCategory().Has(CatLineOriented) {
		line, err := l.ReadLine()
		if err == nil {
			m.reads.Add(1)
			m.bytesRead.Add(int64(len(line)))
		}
		return line, err
	}
	return "", ErrNotSupported
}

// ============================================================================
// Prometheus Collector
// ============================================================================

var (
	meterBytesDesc = prometheus.NewDesc(
		"streamkit_bytes_total",
		"Bytes transferred through a metered stream.",
		[]string{"meter", "direction"}, nil,
	)
	meterOpsDesc = prometheus.NewDesc(
		"streamkit_operations_total",
		"Operations performed on a metered stream.",
		[]string{"meter", "op"}, nil,
	)
)

// Collector returns a prometheus.Collector exposing the meter's counters.
func (m *Meter) Collector() prometheus.Collector {
	return meterCollector{m}
}

type meterCollector struct {
	m *Meter
}

func (c meterCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- meterBytesDesc
	ch <- meterOpsDesc
}

func (c meterCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.m.Stats()
	ch <- prometheus.MustNewConstMetric(meterBytesDesc, prometheus.CounterValue, float64(s.BytesRead), c.m.name, "read")
	ch <- prometheus.MustNewConstMetric(meterBytesDesc, prometheus.CounterValue, float64(s.BytesWritten), c.m.name, "write")
	ch <- prometheus.MustNewConstMetric(meterOpsDesc, prometheus.CounterValue, float64(s.Reads), c.m.name, "read")
	ch <- prometheus.MustNewConstMetric(meterOpsDesc, prometheus.CounterValue, float64(s.Writes), c.m.name, "write")
	ch <- prometheus.MustNewConstMetric(meterOpsDesc, prometheus.CounterValue, float64(s.Seeks), c.m.name, "seek")
	ch <- prometheus.MustNewConstMetric(meterOpsDesc, prometheus.CounterValue, float64(s.Flushes), c.m.name, "flush")
}

var (
	_ Filter               = (*Meter)(nil)
	_ prometheus.Collector = meterCollector{}
)

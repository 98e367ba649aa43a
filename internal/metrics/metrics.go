package metrics

import (
	"time"

	"github.com/san-kum/buddhabrot/internal/engine"
)

// Metric folds pass statistics into a single number.
type Metric interface {
	Name() string
	Observe(s engine.PassStats)
	Value() float64
	Reset()
}

// Throughput is samples traced per second of dispatch time.
type Throughput struct {
	samples uint64
	elapsed time.Duration
}

func NewThroughput() *Throughput {
	return &Throughput{}
}

func (t *Throughput) Name() string {
	return "samples_per_second"
}

func (t *Throughput) Observe(s engine.PassStats) {
	t.samples += uint64(s.Samples)
	t.elapsed += s.Duration
}

func (t *Throughput) Value() float64 {
	if t.elapsed <= 0 {
		return 0
	}
	return float64(t.samples) / t.elapsed.Seconds()
}

func (t *Throughput) Reset() {
	t.samples = 0
	t.elapsed = 0
}

// Latency is the mean pass duration in milliseconds.
type Latency struct {
	passes int
	total  time.Duration
}

func NewLatency() *Latency {
	return &Latency{}
}

func (l *Latency) Name() string {
	return "pass_latency_ms"
}

func (l *Latency) Observe(s engine.PassStats) {
	l.passes++
	l.total += s.Duration
}

func (l *Latency) Value() float64 {
	if l.passes == 0 {
		return 0
	}
	return float64(l.total.Microseconds()) / 1000 / float64(l.passes)
}

func (l *Latency) Reset() {
	l.passes = 0
	l.total = 0
}

// ClearRate is the fraction of passes that started from an empty histogram.
type ClearRate struct {
	passes  int
	cleared int
}

func NewClearRate() *ClearRate {
	return &ClearRate{}
}

func (c *ClearRate) Name() string {
	return "clear_rate"
}

func (c *ClearRate) Observe(s engine.PassStats) {
	c.passes++
	if s.Cleared {
		c.cleared++
	}
}

func (c *ClearRate) Value() float64 {
	if c.passes == 0 {
		return 0
	}
	return float64(c.cleared) / float64(c.passes)
}

func (c *ClearRate) Reset() {
	c.passes = 0
	c.cleared = 0
}

// Set fans pass statistics out to several metrics. It satisfies
// engine.Observer.
type Set []Metric

func Default() Set {
	return Set{NewThroughput(), NewLatency(), NewClearRate()}
}

func (s Set) OnPass(st engine.PassStats) {
	for _, m := range s {
		m.Observe(st)
	}
}

// Values reports every metric by name.
func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}

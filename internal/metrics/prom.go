package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/san-kum/buddhabrot/internal/engine"
)

// Collector exports engine activity to Prometheus. It satisfies
// engine.Observer so it can be attached to any number of engines.
type Collector struct {
	passes   prometheus.Counter
	samples  prometheus.Counter
	clears   prometheus.Counter
	duration prometheus.Histogram
	clients  prometheus.Gauge
	frames   prometheus.Counter
}

// NewCollector registers the collectors with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		passes: f.NewCounter(prometheus.CounterOpts{
			Name: "buddhabrot_passes_total",
			Help: "Total number of accumulation passes dispatched",
		}),
		samples: f.NewCounter(prometheus.CounterOpts{
			Name: "buddhabrot_samples_total",
			Help: "Total number of samples traced",
		}),
		clears: f.NewCounter(prometheus.CounterOpts{
			Name: "buddhabrot_histogram_clears_total",
			Help: "Number of passes that started from a cleared histogram",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "buddhabrot_pass_duration_seconds",
			Help:    "Wall time of one accumulation pass",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		clients: f.NewGauge(prometheus.GaugeOpts{
			Name: "buddhabrot_stream_clients",
			Help: "Currently connected stream clients",
		}),
		frames: f.NewCounter(prometheus.CounterOpts{
			Name: "buddhabrot_stream_frames_total",
			Help: "Frames sent to stream clients",
		}),
	}
}

func (c *Collector) OnPass(s engine.PassStats) {
	c.passes.Inc()
	c.samples.Add(float64(s.Samples))
	if s.Cleared {
		c.clears.Inc()
	}
	c.duration.Observe(s.Duration.Seconds())
}

func (c *Collector) ClientConnected()    { c.clients.Inc() }
func (c *Collector) ClientDisconnected() { c.clients.Dec() }
func (c *Collector) FrameSent()          { c.frames.Inc() }

var _ engine.Observer = (*Collector)(nil)
var _ engine.Observer = Set(nil)

package monte

import "github.com/prometheus/client_golang/prometheus"

// KernelMetrics exposes live Metropolis-kernel counters as prometheus
// gauges/counters (SPEC_FULL.md §B), the long-running-process analogue of
// the teacher's end-of-run Metrics.Print summary: a run here may take
// hours, so progress needs to be scrapeable while it is still in flight
// rather than printed once at exit.
type KernelMetrics struct {
	Accepts  prometheus.Counter
	Rejects  prometheus.Counter
	Steps    prometheus.Counter
	Accepted prometheus.Gauge // instantaneous acceptance ratio

	lastAccept, lastReject, lastCount uint64
}

// NewKernelMetrics registers a fresh set of kernel metrics on reg. Pass
// prometheus.NewRegistry() for test isolation, or a shared registry (e.g.
// prometheus.DefaultRegisterer) when exporting via an HTTP handler.
func NewKernelMetrics(reg prometheus.Registerer, labels prometheus.Labels) (*KernelMetrics, error) {
	m := &KernelMetrics{
		Accepts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "clexmc",
			Name:        "accepted_steps_total",
			Help:        "Total accepted Metropolis steps.",
			ConstLabels: labels,
		}),
		Rejects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "clexmc",
			Name:        "rejected_steps_total",
			Help:        "Total rejected Metropolis steps.",
			ConstLabels: labels,
		}),
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "clexmc",
			Name:        "steps_total",
			Help:        "Total Metropolis steps taken.",
			ConstLabels: labels,
		}),
		Accepted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "clexmc",
			Name:        "acceptance_ratio",
			Help:        "Instantaneous acceptance ratio since the last observation.",
			ConstLabels: labels,
		}),
	}
	for _, c := range []prometheus.Collector{m.Accepts, m.Rejects, m.Steps, m.Accepted} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe updates the counters/gauge from a kernel's cumulative
// NAccept/NReject/Count, adding only the delta since the last call (the
// underlying prometheus counters are monotonic).
func (m *KernelMetrics) Observe(nAccept, nReject, count uint64) {
	if count < m.lastCount {
		// A fresh kernel (e.g. the next condition of a sweep) counts from 0.
		m.lastAccept, m.lastReject, m.lastCount = 0, 0, 0
	}
	if d := nAccept - m.lastAccept; d > 0 {
		m.Accepts.Add(float64(d))
	}
	if d := nReject - m.lastReject; d > 0 {
		m.Rejects.Add(float64(d))
	}
	if d := count - m.lastCount; d > 0 {
		m.Steps.Add(float64(d))
	}
	total := nAccept + nReject
	if total > 0 {
		m.Accepted.Set(float64(nAccept) / float64(total))
	}
	m.lastAccept, m.lastReject, m.lastCount = nAccept, nReject, count
}

package metrics

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chunkview"

// Pipeline collects meshing pipeline metrics. A nil *Pipeline records
// nothing.
type Pipeline struct {
	Enqueued   prometheus.Counter
	Coalesced  prometheus.Counter
	Builds     prometheus.Counter
	Superseded prometheus.Counter
	Discarded  prometheus.Counter
	Delivered  prometheus.Counter
	Pending    prometheus.Gauge
	BuildTime  prometheus.Histogram
}

// NewPipeline creates the pipeline collectors and registers them with reg
// when reg is not nil.
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      name,
			Help:      help,
		})
	}
	p := &Pipeline{
		Enqueued:   counter("enqueued_total", "Snapshots accepted for meshing."),
		Coalesced:  counter("coalesced_total", "Requests merged into an outstanding build or skipped as unchanged."),
		Builds:     counter("builds_total", "Mesh builds executed."),
		Superseded: counter("superseded_total", "Built meshes dropped because a newer snapshot arrived."),
		Discarded:  counter("discarded_total", "Built meshes dropped at shutdown."),
		Delivered:  counter("delivered_total", "Meshes handed to the render thread."),
		Pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "pending",
			Help:      "Chunk keys queued or building.",
		}),
		BuildTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "build_seconds",
			Help:      "Time spent building one chunk mesh.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
	}
	if reg != nil {
		reg.MustRegister(p.Enqueued, p.Coalesced, p.Builds, p.Superseded,
			p.Discarded, p.Delivered, p.Pending, p.BuildTime)
	}
	return p
}

func (p *Pipeline) IncEnqueued() {
	if p != nil {
		p.Enqueued.Inc()
	}
}

func (p *Pipeline) IncCoalesced() {
	if p != nil {
		p.Coalesced.Inc()
	}
}

func (p *Pipeline) IncSuperseded() {
	if p != nil {
		p.Superseded.Inc()
	}
}

func (p *Pipeline) AddDiscarded(n int) {
	if p != nil && n > 0 {
		p.Discarded.Add(float64(n))
	}
}

func (p *Pipeline) IncDelivered() {
	if p != nil {
		p.Delivered.Inc()
	}
}

func (p *Pipeline) SetPending(n int) {
	if p != nil {
		p.Pending.Set(float64(n))
	}
}

// ObserveBuild counts one build and records its duration.
func (p *Pipeline) ObserveBuild(d time.Duration) {
	if p != nil {
		p.Builds.Inc()
		p.BuildTime.Observe(d.Seconds())
	}
}

// Meshes collects metrics for the realized mesh collection. A nil *Meshes
// records nothing.
type Meshes struct {
	Realized prometheus.Counter
	Stale    prometheus.Counter
	Resident prometheus.Gauge
	Drawn    prometheus.Gauge
}

func NewMeshes(reg prometheus.Registerer) *Meshes {
	m := &Meshes{
		Realized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "meshes",
			Name:      "realized_total",
			Help:      "Meshes uploaded to the GPU.",
		}),
		Stale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "meshes",
			Name:      "stale_total",
			Help:      "Completed meshes ignored because a newer one was already resident.",
		}),
		Resident: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "meshes",
			Name:      "resident",
			Help:      "Chunk meshes currently held on the GPU.",
		}),
		Drawn: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "meshes",
			Name:      "drawn",
			Help:      "Chunk meshes drawn in the last frame.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Realized, m.Stale, m.Resident, m.Drawn)
	}
	return m
}

func (m *Meshes) IncRealized() {
	if m != nil {
		m.Realized.Inc()
	}
}

func (m *Meshes) IncStale() {
	if m != nil {
		m.Stale.Inc()
	}
}

func (m *Meshes) SetResident(n int) {
	if m != nil {
		m.Resident.Set(float64(n))
	}
}

func (m *Meshes) SetDrawn(n int) {
	if m != nil {
		m.Drawn.Set(float64(n))
	}
}

// Serve exposes g on addr at /metrics in a background goroutine and returns
// the server so the caller can shut it down.
func Serve(addr string, g prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Printf("Metrics available at http://%s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server: %v", err)
		}
	}()
	return srv
}

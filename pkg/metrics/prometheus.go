package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Metrics on top of a prometheus registry.
// Metric instruments are created lazily on first use and reused afterwards.
type PrometheusCollector struct {
	registry   *prometheus.Registry
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histograms map[string]prometheus.Histogram
	mu         sync.Mutex
}

// NewPrometheusCollector creates a collector backed by its own registry.
func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		registry:   prometheus.NewRegistry(),
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		histograms: make(map[string]prometheus.Histogram),
	}
}

// Registry exposes the underlying prometheus registry for scraping.
func (p *PrometheusCollector) Registry() *prometheus.Registry {
	return p.registry
}

func (p *PrometheusCollector) Counter(name string) Counter {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := sanitizeName(name)
	if counter, exists := p.counters[key]; exists {
		return promCounter{counter}
	}

	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: key})
	p.registry.MustRegister(counter)
	p.counters[key] = counter
	return promCounter{counter}
}

func (p *PrometheusCollector) Gauge(name string) Gauge {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := sanitizeName(name)
	if gauge, exists := p.gauges[key]; exists {
		return promGauge{gauge}
	}

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: key})
	p.registry.MustRegister(gauge)
	p.gauges[key] = gauge
	return promGauge{gauge}
}

func (p *PrometheusCollector) Histogram(name string) Histogram {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := sanitizeName(name)
	if histogram, exists := p.histograms[key]; exists {
		return promHistogram{histogram}
	}

	histogram := prometheus.NewHistogram(prometheus.HistogramOpts{Name: key})
	p.registry.MustRegister(histogram)
	p.histograms[key] = histogram
	return promHistogram{histogram}
}

// Prometheus metric names cannot contain dots.
func sanitizeName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}

type promCounter struct {
	counter prometheus.Counter
}

func (c promCounter) Inc()              { c.counter.Inc() }
func (c promCounter) Add(delta float64) { c.counter.Add(delta) }

type promGauge struct {
	gauge prometheus.Gauge
}

func (g promGauge) Set(value float64) { g.gauge.Set(value) }
func (g promGauge) Inc()              { g.gauge.Inc() }
func (g promGauge) Dec()              { g.gauge.Dec() }

type promHistogram struct {
	histogram prometheus.Histogram
}

func (h promHistogram) Observe(value float64) { h.histogram.Observe(value) }

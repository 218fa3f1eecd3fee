package metrics

// Metrics is the collection interface consumed by the container.
// Implementations must be safe for concurrent use.
type Metrics interface {
	Counter(name string) Counter
	Gauge(name string) Gauge
	Histogram(name string) Histogram
}

// Counter is a monotonically increasing value.
type Counter interface {
	Inc()
	Add(delta float64)
}

// Gauge is a value that can go up and down.
type Gauge interface {
	Set(value float64)
	Inc()
	Dec()
}

// Histogram samples observations into buckets.
type Histogram interface {
	Observe(value float64)
}

// noop implements Metrics but records nothing.
type noop struct{}

type noopMetric struct{}

// NewNoop creates a metrics sink that discards everything.
func NewNoop() Metrics {
	return noop{}
}

func (noop) Counter(name string) Counter     { return noopMetric{} }
func (noop) Gauge(name string) Gauge         { return noopMetric{} }
func (noop) Histogram(name string) Histogram { return noopMetric{} }

func (noopMetric) Inc()            {}
func (noopMetric) Add(float64)     {}
func (noopMetric) Set(float64)     {}
func (noopMetric) Dec()            {}
func (noopMetric) Observe(float64) {}

package stats

import (
	"time"

	"github.com/rcrowley/go-metrics"

	"github.com/metadeploy/metadeploy-sdk/pkg/util/log"
)

// Counter and histogram names
const (
	RequestCount       = "http.requests"
	RequestFailures    = "http.failures"
	RequestDuration    = "http.duration"
	SocketMessages     = "socket.messages"
	SocketIgnored      = "socket.ignored"
	SocketReconnects   = "socket.reconnects"
	SocketSubscription = "socket.subscriptions"
)

// Collector - counters and duration histograms shared by the transport and push channel
type Collector interface {
	Inc(name string)
	Observe(name string, d time.Duration)
	Count(name string) int64
	Log()
}

type collector struct {
	logger   log.FieldLogger
	registry metrics.Registry
}

var defaultCollector = New()

// Default - the process wide collector
func Default() Collector {
	return defaultCollector
}

// New - a collector with its own registry
func New() Collector {
	return &collector{
		logger:   log.NewFieldLogger().WithPackage("stats").WithComponent("collector"),
		registry: metrics.NewRegistry(),
	}
}

func (c *collector) getOrRegisterCounter(name string) metrics.Counter {
	return metrics.GetOrRegisterCounter(name, c.registry)
}

func (c *collector) getOrRegisterHistogram(name string) metrics.Histogram {
	return metrics.GetOrRegisterHistogram(name, c.registry, metrics.NewUniformSample(2048))
}

// Inc -
func (c *collector) Inc(name string) {
	c.getOrRegisterCounter(name).Inc(1)
}

// Observe records a duration in milliseconds
func (c *collector) Observe(name string, d time.Duration) {
	c.getOrRegisterHistogram(name).Update(d.Milliseconds())
}

// Count - current value of a counter, or the sample count of a histogram
func (c *collector) Count(name string) int64 {
	switch m := c.registry.Get(name).(type) {
	case metrics.Counter:
		return m.Count()
	case metrics.Histogram:
		return m.Count()
	}
	return 0
}

// Log writes every metric at debug level
func (c *collector) Log() {
	c.registry.Each(func(name string, i interface{}) {
		switch m := i.(type) {
		case metrics.Counter:
			c.logger.WithField("metric", name).WithField("count", m.Count()).Debug("counter")
		case metrics.Histogram:
			snapshot := m.Snapshot()
			c.logger.
				WithField("metric", name).
				WithField("count", snapshot.Count()).
				WithField("min(ms)", snapshot.Min()).
				WithField("max(ms)", snapshot.Max()).
				WithField("mean(ms)", snapshot.Mean()).
				Debug("histogram")
		}
	})
}

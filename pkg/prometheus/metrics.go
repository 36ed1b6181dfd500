package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Labels 标签类型
type Labels = prometheus.Labels

type (
	CounterVec   = prometheus.CounterVec
	GaugeVec     = prometheus.GaugeVec
	HistogramVec = prometheus.HistogramVec
	Collector    = prometheus.Collector
)

// register 按名称注册指标，同名指标只能注册一次
func (c *Client) register(name string, collector prometheus.Collector) error {
	if c.IsClosed() {
		return ErrClientClosed
	}
	if _, loaded := c.metrics.LoadOrStore(name, collector); loaded {
		return ErrMetricExists
	}
	if err := c.registry.Register(collector); err != nil {
		c.metrics.Delete(name)
		return err
	}
	return nil
}

// NewCounter 创建并注册 Counter
func (c *Client) NewCounter(name, help string, labels []string) (*CounterVec, error) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.config.Namespace,
		Subsystem: c.config.Subsystem,
		Name:      name,
		Help:      help,
	}, labels)

	if err := c.register(name, counter); err != nil {
		return nil, err
	}
	return counter, nil
}

// NewGauge 创建并注册 Gauge
func (c *Client) NewGauge(name, help string, labels []string) (*GaugeVec, error) {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: c.config.Namespace,
		Subsystem: c.config.Subsystem,
		Name:      name,
		Help:      help,
	}, labels)

	if err := c.register(name, gauge); err != nil {
		return nil, err
	}
	return gauge, nil
}

// NewHistogram 创建并注册 Histogram，buckets 为空时使用默认桶
func (c *Client) NewHistogram(name, help string, labels []string, buckets []float64) (*HistogramVec, error) {
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}
	histogram := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.config.Namespace,
		Subsystem: c.config.Subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)

	if err := c.register(name, histogram); err != nil {
		return nil, err
	}
	return histogram, nil
}

// Register 注册自定义采集器
func (c *Client) Register(name string, collector Collector) error {
	return c.register(name, collector)
}

// Unregister 注销指标
func (c *Client) Unregister(name string) bool {
	v, ok := c.metrics.LoadAndDelete(name)
	if !ok {
		return false
	}
	return c.registry.Unregister(v.(prometheus.Collector))
}

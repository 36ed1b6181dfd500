// Package metrics 行为树 tick 指标
package metrics

import (
	"time"

	"github.com/lk2023060901/xdooria-bt/pkg/bt"
	"github.com/lk2023060901/xdooria-bt/pkg/prometheus"
)

// tick 耗时通常在微秒到毫秒级
var tickBuckets = []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1}

// TickCollector 实现 bt.TickObserver，记录每棵树的 tick 次数、耗时和根状态
type TickCollector struct {
	ticks    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	status   *prometheus.GaugeVec
}

var _ bt.TickObserver = (*TickCollector)(nil)

// NewTickCollector 在 client 上注册 tick 指标
func NewTickCollector(c *prometheus.Client) (*TickCollector, error) {
	ticks, err := c.NewCounter("ticks_total", "Behavior tree ticks by root status.", []string{"tree", "status"})
	if err != nil {
		return nil, err
	}
	duration, err := c.NewHistogram("tick_duration_seconds", "Behavior tree tick latency.", []string{"tree"}, tickBuckets)
	if err != nil {
		return nil, err
	}
	status, err := c.NewGauge("tree_status", "Root status of the last tick (0 idle, 1 running, 2 success, 3 failure).", []string{"tree"})
	if err != nil {
		return nil, err
	}
	return &TickCollector{ticks: ticks, duration: duration, status: status}, nil
}

func (c *TickCollector) OnTick(t *bt.Tree, status bt.Status, elapsed time.Duration) {
	c.ticks.WithLabelValues(t.Name(), status.String()).Inc()
	c.duration.WithLabelValues(t.Name()).Observe(elapsed.Seconds())
	c.status.WithLabelValues(t.Name()).Set(float64(status))
}

// Forget 删除某棵树的全部序列
func (c *TickCollector) Forget(tree string) {
	labels := prometheus.Labels{"tree": tree}
	c.ticks.DeletePartialMatch(labels)
	c.duration.DeletePartialMatch(labels)
	c.status.DeletePartialMatch(labels)
}

package metric

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	gometrics "github.com/rcrowley/go-metrics"
)

// MetricItem - one independent metric module exposes one MetricItem.
type MetricItem interface {
	JSONString() string
}

type mockMetricItem struct {
	name string
}

func (mock *mockMetricItem) JSONString() string {
	return mock.name
}

// NewCounterItem returns a MetricItem backed by a go-metrics counter.
func NewCounterItem(name string) *CounterItem {
	return &CounterItem{
		name:    name,
		counter: gometrics.NewCounter(),
	}
}

type CounterItem struct {
	name    string
	counter gometrics.Counter
}

func (c *CounterItem) Inc() {
	c.counter.Inc(1)
}

func (c *CounterItem) Count() int64 {
	return c.counter.Count()
}

func (c *CounterItem) JSONString() string {
	s, _ := jsoniter.MarshalToString(map[string]int64{c.name: c.counter.Count()})
	return s
}

// NewTimerItem returns a MetricItem backed by a go-metrics timer.
func NewTimerItem(name string) *TimerItem {
	return &TimerItem{
		name:  name,
		timer: gometrics.NewTimer(),
	}
}

type TimerItem struct {
	name  string
	timer gometrics.Timer
}

func (t *TimerItem) Time(fn func()) {
	t.timer.Time(fn)
}

func (t *TimerItem) UpdateSince(start time.Time) {
	t.timer.UpdateSince(start)
}

func (t *TimerItem) Timer() gometrics.Timer {
	return t.timer
}

func (t *TimerItem) JSONString() string {
	snapshot := map[string]interface{}{
		t.name + "_count":   t.timer.Count(),
		t.name + "_mean_ns": t.timer.Mean(),
		t.name + "_max_ns":  t.timer.Max(),
	}
	s, _ := jsoniter.MarshalToString(snapshot)
	return s
}

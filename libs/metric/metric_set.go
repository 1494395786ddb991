package metric

import (
	"errors"
	"sync"
)

var (
	ErrMetricLabelExist = errors.New("metric label already exist")
)

func NewMetricSet() *MetricSet {
	return &MetricSet{
		metrics: make(map[string]MetricItem),
	}
}

type MetricSet struct {
	mtx     sync.RWMutex
	metrics map[string]MetricItem
}

// SetMetrics registers the item under label; registering an existing label
// returns an error.
func (ms *MetricSet) SetMetrics(label string, item MetricItem) error {
	if ms.HasMetrics(label) {
		return ErrMetricLabelExist
	}

	ms.mtx.Lock()
	ms.metrics[label] = item
	ms.mtx.Unlock()
	return nil
}

func (ms *MetricSet) HasMetrics(label string) bool {
	ms.mtx.RLock()
	_, existed := ms.metrics[label]
	ms.mtx.RUnlock()
	return existed
}

func (ms *MetricSet) GetMetrics(label string) MetricItem {
	if !ms.HasMetrics(label) {
		return nil
	}

	ms.mtx.RLock()
	defer ms.mtx.RUnlock()

	metric := ms.metrics[label]
	return metric
}

func (ms *MetricSet) GetAllLabels() []string {
	ms.mtx.RLock()
	defer ms.mtx.RUnlock()

	keys := make([]string, 0, len(ms.metrics))
	for k := range ms.metrics {
		keys = append(keys, k)
	}

	return keys
}

func (ms *MetricSet) GetAllMetrics() []MetricItem {
	ms.mtx.RLock()
	defer ms.mtx.RUnlock()

	vals := make([]MetricItem, 0, len(ms.metrics))
	for _, v := range ms.metrics {
		vals = append(vals, v)
	}

	return vals
}

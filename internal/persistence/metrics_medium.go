package persistence

import (
	"personad/internal/persistence/interfaces"
	"personad/internal/providers"
	"time"
)

// MetricsMedium times every read and write of the wrapped medium.
type MetricsMedium struct {
	interfaces.MediumInterface
	metrics providers.MetricsProviderInterface
}

func NewInstrumentedMedium(inner interfaces.MediumInterface, metrics providers.MetricsProviderInterface) interfaces.MediumInterface {
	if !inner.Available() {
		return inner
	}
	return &MetricsMedium{MediumInterface: inner, metrics: metrics}
}

func (m *MetricsMedium) GetItem(key string) ([]byte, bool, error) {
	start := time.Now()
	val, ok, err := m.MediumInterface.GetItem(key)
	m.metrics.ObserveStorageDuration("get", key, time.Since(start))
	return val, ok, err
}

func (m *MetricsMedium) SetItem(key string, value []byte) error {
	start := time.Now()
	err := m.MediumInterface.SetItem(key, value)
	m.metrics.ObserveStorageDuration("set", key, time.Since(start))
	return err
}

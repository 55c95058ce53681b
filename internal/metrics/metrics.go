// Package metrics exposes keyring controller metrics to prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "keyring"

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// Service implements wallet.Recorder.
type Service struct {
	PersistTotal *prometheus.CounterVec
	SignTotal    *prometheus.CounterVec
	Accounts     prometheus.Gauge
	Unlocked     prometheus.Gauge
}

// New registers all metrics with registry, falling back to the default registerer.
func New(registry prometheus.Registerer) *Service {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Service{
		PersistTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_total",
			Help:      "Number of vault persist attempts by result",
		}, []string{"result"}),
		SignTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sign_total",
			Help:      "Number of signing requests by kind and result",
		}, []string{"kind", "result"}),
		Accounts: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "accounts",
			Help:      "Number of accounts held by the live keyrings",
		}),
		Unlocked: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unlocked",
			Help:      "1 while the keyrings are unlocked",
		}),
	}
}

func (s *Service) ObservePersist(err error) {
	s.PersistTotal.WithLabelValues(result(err)).Inc()
}

func (s *Service) ObserveSign(kind string, err error) {
	s.SignTotal.WithLabelValues(kind, result(err)).Inc()
}

func (s *Service) SetAccounts(n int) {
	s.Accounts.Set(float64(n))
}

func (s *Service) SetUnlocked(unlocked bool) {
	if unlocked {
		s.Unlocked.Set(1)
		return
	}
	s.Unlocked.Set(0)
}

func result(err error) string {
	if err != nil {
		return resultFailure
	}

	return resultSuccess
}

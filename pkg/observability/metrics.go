package observability

import (
	"errors"
	"time"

	"github.com/aretw0/lexfsm/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the engine.
type Metrics struct {
	StatesEntered *prometheus.CounterVec
	Stops         *prometheus.CounterVec
	Loads         *prometheus.CounterVec
	LoadDuration  *prometheus.HistogramVec
	Tokens        *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		StatesEntered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexfsm_states_entered_total",
				Help: "Total number of states entered",
			},
			[]string{"definition", "state", "phase"},
		),
		Stops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexfsm_traversal_stops_total",
				Help: "Total number of traversals stopped by a callback",
			},
			[]string{"definition", "state", "callback"},
		),
		Loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexfsm_description_loads_total",
				Help: "Total number of description loads",
			},
			[]string{"definition", "result"},
		),
		LoadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lexfsm_description_load_duration_seconds",
				Help:    "Duration of description loads",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"definition"},
		),
		Tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexfsm_tokens_total",
				Help: "Total number of tokens emitted",
			},
			[]string{"definition", "type"},
		),
	}

	var err error
	if m.StatesEntered, err = register(reg, m.StatesEntered); err != nil {
		return nil, err
	}
	if m.Stops, err = register(reg, m.Stops); err != nil {
		return nil, err
	}
	if m.Loads, err = register(reg, m.Loads); err != nil {
		return nil, err
	}
	if m.LoadDuration, err = register(reg, m.LoadDuration); err != nil {
		return nil, err
	}
	if m.Tokens, err = register(reg, m.Tokens); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to reg, returning the collector already registered under the same name if any.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Hooks returns lifecycle hooks that record state entries and stops.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEnter: func(e domain.StateEvent) {
			m.StatesEntered.WithLabelValues(e.Definition, e.StateName, string(e.Phase)).Inc()
		},
		OnStop: func(e domain.StateEvent) {
			m.Stops.WithLabelValues(e.Definition, e.StateName, e.Callback).Inc()
		},
	}
}

// ObserveLoad records a description load. It matches registry.LoadObserver.
func (m *Metrics) ObserveLoad(name string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Loads.WithLabelValues(name, result).Inc()
	m.LoadDuration.WithLabelValues(name).Observe(elapsed.Seconds())
}

// ObserveToken records a token emitted while tokenizing with definition.
func (m *Metrics) ObserveToken(definition, typ string) {
	m.Tokens.WithLabelValues(definition, typ).Inc()
}

package observability

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/tabula/pkg/domain"
)

// Metrics holds the validation collectors.
type Metrics struct {
	Validations *prometheus.CounterVec
	CacheHits   *prometheus.CounterVec
	Symbols     *prometheus.HistogramVec
	Duration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tabula_validations_total",
				Help: "Total number of validations by machine and verdict",
			},
			[]string{"machine", "accepted"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tabula_cache_hits_total",
				Help: "Validations answered from the verdict cache",
			},
			[]string{"machine"},
		),
		Symbols: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tabula_input_symbols",
				Help:    "Length of validated inputs in symbols",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"machine"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tabula_validation_duration_seconds",
				Help:    "Duration of validations",
				Buckets: prometheus.ExponentialBuckets(1e-6, 10, 7),
			},
			[]string{"machine"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Validations, m.CacheHits, m.Symbols, m.Duration)
	}
	return m
}

// Observe records one validation.
func (m *Metrics) Observe(e *domain.ValidationEvent) {
	m.Validations.WithLabelValues(e.Machine, strconv.FormatBool(e.Accepted)).Inc()
	if e.Cached {
		m.CacheHits.WithLabelValues(e.Machine).Inc()
	}
	m.Symbols.WithLabelValues(e.Machine).Observe(float64(e.InputLength))
	m.Duration.WithLabelValues(e.Machine).Observe(e.Duration.Seconds())
}

// Hooks returns lifecycle hooks feeding these metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnValidate: func(ctx context.Context, e *domain.ValidationEvent) {
			m.Observe(e)
		},
	}
}

// Chain merges hooks so that each callback runs in order.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnValidate: func(ctx context.Context, e *domain.ValidationEvent) {
			for _, h := range hooks {
				if h.OnValidate != nil {
					h.OnValidate(ctx, e)
				}
			}
		},
	}
}

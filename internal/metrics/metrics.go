package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	InputFetchFailures *prometheus.CounterVec
	Recomputations     prometheus.Counter
	OrdersCreated      *prometheus.CounterVec
	CheckoutsBlocked   prometheus.Counter
}

// New creates the checkout collectors and registers them with reg when it is not nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		InputFetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "input_fetch_failures_total",
			Help:      "Pricing inputs that could not be fetched and were replaced by empty defaults.",
		}, []string{"input"}),
		Recomputations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "recomputations_total",
			Help:      "Order total recomputations.",
		}),
		OrdersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "orders_created_total",
			Help:      "Orders created from a checkout, by payment method.",
		}, []string{"payment_method"}),
		CheckoutsBlocked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "blocked_total",
			Help:      "Checkouts refused because no payment method was available.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.InputFetchFailures, m.Recomputations, m.OrdersCreated, m.CheckoutsBlocked)
	}

	return m
}

package market

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	purchases     *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	fetchDuration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "audiodrop",
			Name:      "purchases_total",
			Help:      "Purchases by outcome.",
		}, []string{"outcome"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "audiodrop",
			Name:      "listing_fetches_total",
			Help:      "Listing fetches from the drop by outcome.",
		}, []string{"outcome"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "audiodrop",
			Name:      "listing_fetch_duration_seconds",
			Help:      "Time spent fetching listings from the drop.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.purchases, m.fetches, m.fetchDuration)
	return m
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

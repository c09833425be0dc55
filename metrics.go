package edgelimit

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the limiter's Prometheus collectors. All methods are nil
// receiver safe, so an uninstrumented limiter pays no checks.
type Metrics struct {
	ChecksTotal          *prometheus.CounterVec
	RedemptionsTotal     prometheus.Counter
	StoreErrorsTotal     *prometheus.CounterVec
	DecodeFallbacksTotal prometheus.Counter
}

// NewMetrics builds the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgelimit_checks_total",
				Help: "Total admission checks by verdict",
			},
			[]string{"verdict"},
		),
		RedemptionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "edgelimit_redemptions_total",
				Help: "Total tickets redeemed to the store",
			},
		),
		StoreErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgelimit_store_errors_total",
				Help: "Total store transport failures by operation",
			},
			[]string{"op"},
		),
		DecodeFallbacksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "edgelimit_decode_fallbacks_total",
				Help: "Total stored records discarded as undecodable",
			},
		),
	}

	reg.MustRegister(m.ChecksTotal, m.RedemptionsTotal, m.StoreErrorsTotal, m.DecodeFallbacksTotal)
	return m
}

func (m *Metrics) check(allowed bool) {
	if m == nil {
		return
	}
	verdict := "deny"
	if allowed {
		verdict = "allow"
	}
	m.ChecksTotal.WithLabelValues(verdict).Inc()
}

func (m *Metrics) redemption() {
	if m == nil {
		return
	}
	m.RedemptionsTotal.Inc()
}

func (m *Metrics) storeError(op string) {
	if m == nil {
		return
	}
	m.StoreErrorsTotal.WithLabelValues(op).Inc()
}

func (m *Metrics) decodeFallback() {
	if m == nil {
		return
	}
	m.DecodeFallbacksTotal.Inc()
}

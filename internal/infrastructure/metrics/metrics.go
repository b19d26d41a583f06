package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MarketMetrics groups the marketplace counters. Registered once at startup;
// usecases record through it after each committed transition.
type MarketMetrics struct {
	ListingsCreatedTotal prometheus.Counter
	ListingsExpiredTotal prometheus.Counter

	EscrowsCreatedTotal   prometheus.Counter
	EscrowsCompletedTotal prometheus.Counter
	EscrowsRefundedTotal  prometheus.Counter

	DisputesOpenedTotal   prometheus.Counter
	DisputesResolvedTotal prometheus.Counter

	StxCustodiedTotal   prometheus.Counter
	PlatformFeesTotal   prometheus.Counter
	OracleChecksTotal   *prometheus.CounterVec
	OracleCheckDuration prometheus.Histogram
}

func NewMarketMetrics(reg prometheus.Registerer) *MarketMetrics {
	factory := promauto.With(reg)
	return &MarketMetrics{
		ListingsCreatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketplace_listings_created_total",
			Help: "Listings created",
		}),
		ListingsExpiredTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketplace_listings_expired_total",
			Help: "Listings deactivated by the expiry sweep",
		}),
		EscrowsCreatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketplace_escrows_created_total",
			Help: "Escrows opened by purchases",
		}),
		EscrowsCompletedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketplace_escrows_completed_total",
			Help: "Escrows released to sellers",
		}),
		EscrowsRefundedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketplace_escrows_refunded_total",
			Help: "Escrows refunded to buyers",
		}),
		DisputesOpenedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketplace_disputes_opened_total",
			Help: "Disputes opened",
		}),
		DisputesResolvedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketplace_disputes_resolved_total",
			Help: "Disputes resolved by the platform",
		}),
		StxCustodiedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketplace_stx_custodied_total",
			Help: "microSTX taken into custody",
		}),
		PlatformFeesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketplace_platform_fees_total",
			Help: "microSTX collected as platform fees",
		}),
		OracleChecksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "marketplace_oracle_checks_total",
			Help: "BTC verification attempts by outcome",
		}, []string{"outcome"}),
		OracleCheckDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "marketplace_oracle_check_duration_seconds",
			Help:    "BTC verification round-trip time",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

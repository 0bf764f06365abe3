package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StockReceiptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bevdistro_stock_receipts_total",
		Help: "Stock receipts recorded.",
	})

	DistributionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bevdistro_distributions_total",
		Help: "Distributions recorded.",
	})

	DistributionsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bevdistro_distributions_rejected_total",
		Help: "Distribution attempts rejected, by reason.",
	}, []string{"reason"})

	PaymentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bevdistro_payments_total",
		Help: "Payments recorded.",
	})
)

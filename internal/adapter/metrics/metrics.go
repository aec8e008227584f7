package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Orders accepted by the storefront.",
	})

	OrdersRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_orders_rejected_total",
		Help: "Order placements rejected before any write, by reason.",
	}, []string{"reason"})

	OrdersDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_dispatched_total",
		Help: "Orders handed to a rider.",
	})

	GeocodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_geocode_failures_total",
		Help: "Geocoder lookups that fell back to a placeholder name.",
	})

	OrderValue = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_order_value_naira",
		Help:    "Final order totals after any reward discount.",
		Buckets: prometheus.LinearBuckets(1000, 1000, 10),
	})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_ws_connections",
		Help: "Live websocket subscribers.",
	})
)

// Package monitoring exposes Prometheus metrics for the ticketing API.
// Counters are registered through promauto and served on /metrics.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total orders created through checkout",
		},
	)

	OrdersSoldOut = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_sold_out_total",
			Help: "Checkout attempts rejected because a session lacked seats",
		},
	)

	PaymentsConfirmed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_confirmed_total",
			Help: "Payments confirmed, labeled by method",
		},
		[]string{"method"},
	)

	GatewayFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_gateway_fallbacks_total",
			Help: "Wallet gateway failures served with a fallback bank QR",
		},
		[]string{"method"},
	)

	TicketsCheckedIn = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_checked_in_total",
			Help: "Tickets successfully checked in at the gate",
		},
	)
)

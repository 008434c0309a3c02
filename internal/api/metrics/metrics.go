// Package metrics defines and registers all custom Prometheus metrics for
// the marketplace API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at init time and are
// exposed on /metrics by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersPlacedTotal counts successfully placed orders.
var OrdersPlacedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of orders successfully placed.",
	},
)

// OrdersCancelledTotal counts cancelled orders (stock-restoring transitions).
var OrdersCancelledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_cancelled_total",
		Help:      "Total number of orders cancelled.",
	},
)

// OrderPlacementErrorsTotal counts rejected placements.
// Label:
//   - reason: "forbidden", "empty_cart", or "insufficient_stock"
var OrderPlacementErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_placement_errors_total",
		Help:      "Total number of order placements rejected, by reason.",
	},
	[]string{"reason"},
)

// ── Seller account metrics ────────────────────────────────────────────────────

// SellerDecisionsTotal counts admin decisions on seller accounts.
// Label:
//   - decision: "approved" or "rejected"
var SellerDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "seller_decisions_total",
		Help:      "Total number of admin decisions on seller accounts, by decision.",
	},
	[]string{"decision"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts notification delivery attempts.
// Label:
//   - result: "sent", "failed", or "dropped"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notification delivery attempts, by result.",
	},
	[]string{"result"},
)

// NotifyQueueDepth tracks notifications waiting in each dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotifyQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notify_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// Package metrics defines all custom Prometheus metrics for the orderstack
// services. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry via promauto at
// package init.
package metrics

import (
	"sync"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "orderstack"

var (
	httpMu  sync.Mutex
	httpMWs = map[string]echo.MiddlewareFunc{}
)

// HTTPMiddleware returns the request-duration middleware for a subsystem.
// The underlying collectors register with the default registry exactly once
// per subsystem, so routers can be constructed repeatedly in one process.
func HTTPMiddleware(subsystem string) echo.MiddlewareFunc {
	httpMu.Lock()
	defer httpMu.Unlock()
	if mw, ok := httpMWs[subsystem]; ok {
		return mw
	}
	mw := echoprometheus.NewMiddleware(subsystem)
	httpMWs[subsystem] = mw
	return mw
}

// OrdersCreatedTotal counts newly created orders.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created.",
	},
)

// StatusTransitionsTotal counts status transition requests.
// Labels:
//   - status: the requested target status (e.g. "cancelled")
//   - result: "applied" or "rejected"
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of order status transition requests, by requested status and outcome.",
	},
	[]string{"status", "result"},
)

// AuthFailuresTotal counts rejected authentication attempts at the gateway.
// Label:
//   - reason: "missing_token", "invalid_token"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected at the gateway trust boundary.",
	},
	[]string{"reason"},
)

// UpstreamErrorsTotal counts proxy failures mapped to 502 responses.
// Label:
//   - upstream: "users" or "orders"
var UpstreamErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_errors_total",
		Help:      "Total number of gateway-to-backend proxy failures, by upstream.",
	},
	[]string{"upstream"},
)

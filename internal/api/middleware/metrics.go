package middleware

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oubuilding/apartment-client/internal/api/metrics"
)

// Metrics records the count, latency and size of every request by route
// pattern as apartment_http_* on reg. Websocket feeds are skipped since they
// last as long as the chat screen stays open.
func Metrics(reg prometheus.Registerer) echo.MiddlewareFunc {
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  metrics.Namespace,
		Subsystem:  "http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return strings.EqualFold(c.Request().Header.Get(echo.HeaderUpgrade), "websocket")
		},
	})
}

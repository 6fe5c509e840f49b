package prometheus

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/homecare-api/pkg/metrics"
)

type Handler struct {
	metrics *metrics.Metrics
}

func New(m *metrics.Metrics) *Handler {
	return &Handler{metrics: m}
}

// Middleware records request count and latency labelled by route template.
func (h *Handler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		statusLabel := strconv.Itoa(status)
		method := c.Request.Method

		h.metrics.RequestDuration.WithLabelValues(method, path, statusLabel).Observe(time.Since(start).Seconds())
		h.metrics.RequestTotal.WithLabelValues(method, path, statusLabel).Inc()

		switch {
		case status >= 500:
			h.metrics.ErrorTotal.WithLabelValues(method, path, "5xx").Inc()
		case status >= 400:
			h.metrics.ErrorTotal.WithLabelValues(method, path, "4xx").Inc()
		}
	}
}

func (h *Handler) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(h.metrics.Registry, promhttp.HandlerOpts{}))
}

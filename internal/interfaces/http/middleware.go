package httpinterface

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const metricsNamespace = "dogecustody"

type metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	transfers       *prometheus.CounterVec
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Number of API requests by route and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of API requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "transfers_total",
			Help:      "Number of transfers by kind and resulting status.",
		}, []string{"kind", "status"}),
	}

	for _, c := range []prometheus.Collector{
		m.requests, m.requestDuration, m.transfers,
	} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *metrics) observeTransfer(kind, status string) {
	m.transfers.WithLabelValues(kind, status).Inc()
}

// instrument logs every request and records its outcome
func (m *metrics) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		code := c.Writer.Status()
		m.requests.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(code),
		).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).
			Observe(elapsed.Seconds())

		entry := log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"code":    code,
			"elapsed": elapsed.String(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithError(c.Errors.Last())
		}
		if code >= 500 {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request served")
	}
}

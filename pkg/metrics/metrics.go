package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	queryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "accessmodel",
		Subsystem: "warehouse",
		Name:      "queries_total",
		Help:      "Total number of warehouse statements broken down by statement and result.",
	}, []string{"statement", "result"})

	queryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "accessmodel",
		Subsystem: "warehouse",
		Name:      "query_latency_seconds",
		Help:      "Latency distribution for warehouse statements.",
		Buckets: []float64{
			0.01, 0.05, 0.1, 0.25,
			0.5, 1, 2, 5,
			10, 30, 60,
		},
	}, []string{"statement", "result"})

	commandTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "accessmodel",
		Subsystem: "grid",
		Name:      "commands_total",
		Help:      "Total number of grid commands broken down by command and outcome severity.",
	}, []string{"command", "severity"})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "accessmodel",
		Subsystem: "dashboard",
		Name:      "active_sessions",
		Help:      "Number of dashboard sessions currently held in memory.",
	})
)

// ObserveQuery records one warehouse round trip.
func ObserveQuery(statement string, err error, latency time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	labels := prometheus.Labels{
		"statement": statement,
		"result":    result,
	}
	queryTotal.With(labels).Inc()
	queryLatency.With(labels).Observe(latency.Seconds())
}

// ObserveCommand records the outcome of a grid command. An empty severity means the
// command completed without producing an alert.
func ObserveCommand(command, severity string) {
	if severity == "" {
		severity = "none"
	}
	commandTotal.With(prometheus.Labels{"command": command, "severity": severity}).Inc()
}

func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

func Handler() http.Handler {
	return promhttp.Handler()
}

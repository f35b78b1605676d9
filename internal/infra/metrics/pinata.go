package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(pinataOpsTotal, pinataLatencyMs, pinataUploadBytes)
}

var (
	pinataOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pinata_operations_total",
			Help: "Pinata calls by operation (upload/fetch) and success.",
		},
		[]string{"op", "success"},
	)

	pinataLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pinata_latency_ms",
			Help:    "Pinata call latency distribution in milliseconds.",
			Buckets: []float64{25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"op"},
	)

	pinataUploadBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pinata_upload_bytes_total",
			Help: "Decoded bytes forwarded to Pinata.",
		},
	)
)

func ObservePinata(op string, latencyMs int64, success bool) {
	pinataOpsTotal.WithLabelValues(norm(op), strconv.FormatBool(success)).Inc()
	pinataLatencyMs.WithLabelValues(norm(op)).Observe(float64(latencyMs))
}

func AddUploadBytes(n int) { pinataUploadBytes.Add(float64(n)) }

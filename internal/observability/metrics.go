package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	InboundMessages    *prometheus.CounterVec
	ModelCalls         *prometheus.CounterVec
	ModelLatency       prometheus.Histogram
	LedgerSaves        *prometheus.CounterVec
	OutboundChunks     prometheus.Counter
	KnownConversations prometheus.Gauge
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		InboundMessages: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inbound_messages_total",
			Help:      "Inbound transport events by handling outcome.",
		}, []string{"outcome"}),
		ModelCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_calls_total",
			Help:      "Model completion calls by outcome.",
		}, []string{"outcome"}),
		ModelLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_latency_seconds",
			Help:      "Latency of model completion calls in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		}),
		LedgerSaves: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_saves_total",
			Help:      "Ledger persistence attempts by table and outcome.",
		}, []string{"table", "outcome"}),
		OutboundChunks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbound_chunks_total",
			Help:      "Outbound message chunks delivered to the transport.",
		}),
		KnownConversations: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "known_conversations",
			Help:      "Conversations with stored history.",
		}),
	}
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

package relay

import "github.com/prometheus/client_golang/prometheus"

var (
	switchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ollamachat",
			Subsystem: "relay",
			Name:      "model_switches_total",
			Help:      "Model switch attempts by result (ok, failed, ignored)",
		},
		[]string{"result"},
	)

	backendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ollamachat",
			Subsystem: "relay",
			Name:      "backend_requests_total",
			Help:      "Backend invocations by model and result",
		},
		[]string{"model", "result"},
	)

	backendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ollamachat",
			Subsystem: "relay",
			Name:      "backend_request_duration_seconds",
			Help:      "Duration of backend invocations in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"model"},
	)

	activeModelInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "ollamachat",
			Subsystem: "relay",
			Name:      "active_model",
			Help:      "1 for the model currently bound, 0 for models previously bound",
		},
		[]string{"model"},
	)
)

func init() {
	prometheus.MustRegister(switchesTotal, backendRequestsTotal, backendDuration, activeModelInfo)
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

type Prometheus struct {
	Fits   *prometheus.CounterVec
	Scores *prometheus.GaugeVec
	Loss   *prometheus.GaugeVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Fits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "diabetes",
				Name:      "fits",
			}, []string{"model", "stage"}),
		Scores: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "diabetes",
				Name:      "score",
			}, []string{"model", "stage", "fold", "metric"}),
		Loss: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "diabetes",
				Name:      "loss",
			}, []string{"model", "stage", "fold"}),
	}
}

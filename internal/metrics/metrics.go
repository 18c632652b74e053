package metrics

import (
	"net/http"
	"strconv"

	"github.com/drakos74/diabetes-risk/internal/math/ml"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	SVM     = "svm"
	Network = "network"
	Forest  = "forest"
	KNN     = "knn"

	Validation = "validation"
	Test       = "test"

	// NoFold marks values that do not belong to a cross validation fold.
	NoFold = -1
)

var Observer = NewMetrics(NewPrometheusMetrics())

func init() {
	Observer.MustRegister(prometheus.DefaultRegisterer)
}

type Metrics struct {
	prometheus Prometheus
}

func NewMetrics(p Prometheus) *Metrics {
	return &Metrics{prometheus: p}
}

// MustRegister registers all collectors with the given registerer.
func (m *Metrics) MustRegister(r prometheus.Registerer) {
	r.MustRegister(m.prometheus.Fits, m.prometheus.Scores, m.prometheus.Loss)
}

// Fit counts a completed model fit.
func (m *Metrics) Fit(model, stage string) {
	m.prometheus.Fits.WithLabelValues(model, stage).Inc()
}

// Score exposes the metrics of an evaluation.
func (m *Metrics) Score(model, stage string, fold int, score ml.Score) {
	f := label(fold)
	m.prometheus.Scores.WithLabelValues(model, stage, f, "accuracy").Set(score.Accuracy)
	m.prometheus.Scores.WithLabelValues(model, stage, f, "precision").Set(score.Precision)
	m.prometheus.Scores.WithLabelValues(model, stage, f, "recall").Set(score.Recall)
	m.prometheus.Scores.WithLabelValues(model, stage, f, "f1").Set(score.F1)
}

// Loss exposes the final loss of a fit.
func (m *Metrics) Loss(model, stage string, fold int, loss float64) {
	m.prometheus.Loss.WithLabelValues(model, stage, label(fold)).Set(loss)
}

func label(fold int) string {
	if fold < 0 {
		return "all"
	}
	return strconv.Itoa(fold)
}

// Handler serves the default prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

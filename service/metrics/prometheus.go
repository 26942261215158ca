package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vs_analyses_total",
		Help: "Total number of analysis requests, by media type and outcome",
	}, []string{"media", "outcome"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vs_analysis_duration_seconds",
		Help:    "Duration of one analysis request",
		Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300},
	}, []string{"media"})

	FramesAnalyzedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vs_frames_analyzed_total",
		Help: "Total number of sampled frames classified, by verdict status",
	}, []string{"mode", "status"})

	OracleCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vs_oracle_calls_total",
		Help: "Total number of oracle calls, by provider and outcome",
	}, []string{"provider", "outcome"})

	OracleCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vs_oracle_call_duration_seconds",
		Help:    "Duration of one oracle round trip",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"provider"})

	CropsExtractedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vs_person_crops_extracted_total",
		Help: "Total number of person crops attached to flagged frames",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}

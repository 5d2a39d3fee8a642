package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clipscribe_pipeline_runs_total",
		Help: "Pipeline executions by outcome.",
	}, []string{"outcome"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "clipscribe_pipeline_duration_seconds",
		Help:    "Wall-clock duration of full pipeline runs.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	})
)

const (
	outcomeSuccess         = "success"
	outcomeAcquisition     = "acquisition_error"
	outcomeNormalization   = "normalization_error"
	outcomeTranscription   = "transcription_error"
	outcomeEmptyTranscript = "empty_transcript"
	outcomeInternal        = "internal_error"
)

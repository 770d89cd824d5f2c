package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OperationFindAll  = "find_all"
	OperationFindBest = "find_best"

	OutcomeMatched      = "matched"
	OutcomeNoMatch      = "no_match"
	OutcomeNoAttributes = "no_attributes"
	OutcomeStorageError = "storage_error"
	OutcomeInvalidRow   = "invalid_row"
	OutcomeBadRequest   = "bad_request"

	SourceStorage = "storage"
	SourceAliases = "aliases"
)

var (
	MatchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vehicle_match_requests_total",
			Help: "Total number of match requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	MatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vehicle_match_duration_seconds",
			Help:    "Duration of match requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CatalogValues = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vehicle_catalog_values",
			Help: "Number of canonical values per attribute type in the loaded catalog",
		},
		[]string{"attribute_type"},
	)

	CatalogLoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vehicle_catalog_load_errors_total",
			Help: "Catalog load failures by source",
		},
		[]string{"source"},
	)
)

// Package matcher identifies the catalogued vehicle a free-text description
// most plausibly refers to.
package matcher

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"vehicle-matcher/internal/aliases"
	apperrors "vehicle-matcher/internal/common/errors"
	"vehicle-matcher/internal/common/logger"
	"vehicle-matcher/internal/common/metrics"
	"vehicle-matcher/internal/matching/catalog"
	"vehicle-matcher/internal/matching/extractor"
	"vehicle-matcher/internal/matching/resolver"
	"vehicle-matcher/internal/matching/scorer"
	"vehicle-matcher/internal/models"
	"vehicle-matcher/internal/store"
)

type Matcher struct {
	catalog   *catalog.Catalog
	extractor *extractor.Extractor
	resolver  *resolver.Resolver
	scorer    *scorer.Scorer
	logger    logger.Logger
}

// New loads the attribute catalog from s (plus aliases from src, which may
// be nil) and returns a matcher ready to serve queries. Catalog load
// failures are logged, never returned.
func New(ctx context.Context, s store.Store, src aliases.Source, log logger.Logger) *Matcher {
	return NewWithCatalog(catalog.Load(ctx, s, src, log), s, log)
}

func NewWithCatalog(c *catalog.Catalog, vehicles resolver.VehicleSource, log logger.Logger) *Matcher {
	return &Matcher{
		catalog:   c,
		extractor: extractor.New(c),
		resolver:  resolver.New(vehicles),
		scorer:    scorer.New(),
		logger:    log.WithFields(map[string]interface{}{"component": "matcher"}),
	}
}

func (m *Matcher) Catalog() *catalog.Catalog {
	return m.catalog
}

// Extract exposes the attribute extraction for a description.
func (m *Matcher) Extract(description string) models.ExtractionResult {
	return m.extractor.Extract(description)
}

// FindAllMatches returns every candidate for description ordered by
// descending similarity, ties kept in storage order. Storage failures yield
// an empty list; only malformed storage rows produce an error.
func (m *Matcher) FindAllMatches(ctx context.Context, description string) ([]models.Vehicle, error) {
	start := time.Now()
	defer func() {
		metrics.MatchDuration.WithLabelValues(metrics.OperationFindAll).Observe(time.Since(start).Seconds())
	}()

	_, candidates, err := m.candidates(ctx, metrics.OperationFindAll, description)
	if err != nil || len(candidates) == 0 {
		return []models.Vehicle{}, err
	}

	scores := make(map[int64]int, len(candidates))
	for _, c := range candidates {
		scores[c.ID] = m.scorer.Similarity(description, c)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return scores[candidates[i].ID] > scores[candidates[j].ID]
	})

	m.record(metrics.OperationFindAll, metrics.OutcomeMatched)
	return candidates, nil
}

// FindBestMatch returns the single best candidate and the extraction
// confidence (0..10). It returns (nil, 0, nil) when nothing was recognised,
// nothing matched or storage failed.
func (m *Matcher) FindBestMatch(ctx context.Context, description string) (*models.Vehicle, int, error) {
	start := time.Now()
	defer func() {
		metrics.MatchDuration.WithLabelValues(metrics.OperationFindBest).Observe(time.Since(start).Seconds())
	}()

	extraction, candidates, err := m.candidates(ctx, metrics.OperationFindBest, description)
	if err != nil {
		return nil, 0, err
	}

	best, found, ranked := m.scorer.PickBest(candidates, description)
	if !found {
		return nil, 0, nil
	}

	confidence := m.scorer.Confidence(extraction)
	m.logger.Debug("best match selected", map[string]interface{}{
		"vehicleId":    best.ID,
		"candidates":   len(candidates),
		"ranked":       ranked,
		"confidence":   confidence,
		"listingCount": best.ListingCount,
	})
	m.record(metrics.OperationFindBest, metrics.OutcomeMatched)
	return &best, confidence, nil
}

// candidates runs extraction and resolution. An empty candidate list with a
// nil error covers no attributes, no rows and degraded storage failures.
func (m *Matcher) candidates(ctx context.Context, op, description string) (models.ExtractionResult, []models.Vehicle, error) {
	log := m.logger.WithFields(map[string]interface{}{
		"queryId":   uuid.NewString(),
		"operation": op,
	})

	extraction := m.extractor.Extract(description)
	if extraction.IsEmpty() {
		log.Debug("no attributes recognised", map[string]interface{}{"description": description})
		m.record(op, metrics.OutcomeNoAttributes)
		return extraction, nil, nil
	}

	vehicles, err := m.resolver.Resolve(ctx, extraction)
	if err != nil {
		outcome, surface := classify(err)
		m.record(op, outcome)
		fields := map[string]interface{}{
			"description":   description,
			"error":         err,
			"errorCategory": apperrors.CategoryOf(err),
		}
		switch {
		case surface:
			log.Error("vehicle lookup rejected", fields)
			return extraction, nil, err
		case apperrors.IsRetryable(err):
			log.Warn("vehicle lookup failed, returning no match", fields)
		default:
			log.Error("vehicle lookup failed, returning no match", fields)
		}
		return extraction, nil, nil
	}

	if len(vehicles) == 0 {
		m.record(op, metrics.OutcomeNoMatch)
	}
	log.Debug("candidates resolved", map[string]interface{}{
		"attributeTypes": len(extraction),
		"candidates":     len(vehicles),
	})
	return extraction, vehicles, nil
}

// classify maps a resolver error to its outcome label and reports whether
// the caller must see it. Malformed rows and broken preconditions surface;
// everything else is a storage failure and degrades to no match.
func classify(err error) (outcome string, surface bool) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return metrics.OutcomeInvalidRow, true
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return metrics.OutcomeBadRequest, true
	default:
		return metrics.OutcomeStorageError, false
	}
}

func (m *Matcher) record(op, outcome string) {
	metrics.MatchRequests.WithLabelValues(op, outcome).Inc()
}

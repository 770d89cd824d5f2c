// Package store is the storage collaborator for the matcher: distinct
// attribute values for the catalog and filtered vehicle lookups with
// listing counts.
package store

import (
	"context"

	"vehicle-matcher/internal/models"
)

// Filter constrains vehicle lookups. Every present key must match one of its
// values; absent keys are unconstrained.
type Filter map[models.AttributeType][]string

// Store is implemented by PostgresStore and CachedStore. Failures are
// reported as *errors.StandardError with code STORAGE_ERROR.
type Store interface {
	QueryDistinct(ctx context.Context, attributeType models.AttributeType) ([]string, error)
	QueryVehicles(ctx context.Context, filter Filter) ([]models.Row, error)
}

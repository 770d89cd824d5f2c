package resolver

import (
	"context"

	apperrors "vehicle-matcher/internal/common/errors"
	"vehicle-matcher/internal/models"
	"vehicle-matcher/internal/store"
)

// ErrEmptyExtraction is returned when Resolve is called with nothing to
// filter on. It matches apperrors.ErrInvalidArgument, never ErrStorage.
var ErrEmptyExtraction = apperrors.NewInvalidArgumentError("resolve called with empty extraction")

// VehicleSource is the part of the store the resolver needs.
type VehicleSource interface {
	QueryVehicles(ctx context.Context, filter store.Filter) ([]models.Row, error)
}

type Resolver struct {
	source VehicleSource
}

func New(source VehicleSource) *Resolver {
	return &Resolver{source: source}
}

// Filter turns an extraction into a conjunctive filter: every present type
// must take one of its matched values.
func Filter(extraction models.ExtractionResult) store.Filter {
	filter := make(store.Filter, len(extraction))
	for _, at := range extraction.Types() {
		filter[at] = append([]string(nil), extraction[at]...)
	}
	return filter
}

// Resolve fetches the vehicles matching extraction, one per identifier in
// storage order. Storage failures come back as STORAGE_ERROR, malformed rows
// as VALIDATION_ERROR, an empty extraction as INVALID_ARGUMENT.
func (r *Resolver) Resolve(ctx context.Context, extraction models.ExtractionResult) ([]models.Vehicle, error) {
	if extraction.IsEmpty() {
		return nil, ErrEmptyExtraction
	}

	rows, err := r.source.QueryVehicles(ctx, Filter(extraction))
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(rows))
	vehicles := make([]models.Vehicle, 0, len(rows))
	for _, row := range rows {
		v, err := models.VehicleFromRow(row)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[v.ID]; dup {
			continue
		}
		seen[v.ID] = struct{}{}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}

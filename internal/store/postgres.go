package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "vehicle-matcher/internal/common/errors"
	"vehicle-matcher/internal/common/logger"
	"vehicle-matcher/internal/models"
)

const (
	OpQueryDistinct = "query_distinct"
	OpQueryVehicles = "query_vehicles"
)

const vehicleSelect = `SELECT v.id, v.make, v.model, v.badge, v.transmission_type, v.fuel_type, v.drive_type, COUNT(l.id) AS listing_count FROM vehicle v LEFT JOIN listing l ON l.vehicle_id = v.id`

const vehicleGroupBy = ` GROUP BY v.id, v.make, v.model, v.badge, v.transmission_type, v.fuel_type, v.drive_type ORDER BY v.id`

type PostgresStore struct {
	db      *sql.DB
	timeout time.Duration
	logger  logger.Logger
}

// NewPostgresStore wraps db. A zero timeout leaves queries bounded only by
// the caller's context.
func NewPostgresStore(db *sql.DB, timeout time.Duration, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:      db,
		timeout: timeout,
		logger:  log.WithFields(map[string]interface{}{"component": "postgres-store"}),
	}
}

func (s *PostgresStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

func (s *PostgresStore) QueryDistinct(ctx context.Context, attributeType models.AttributeType) ([]string, error) {
	if _, ok := models.ParseAttributeType(string(attributeType)); !ok {
		return nil, apperrors.NewStorageError(OpQueryDistinct, fmt.Errorf("unknown attribute type %q", attributeType))
	}
	if s.db == nil {
		return nil, apperrors.NewStorageError(OpQueryDistinct, fmt.Errorf("no database connection"))
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	col := attributeType.Column()
	query := fmt.Sprintf("SELECT DISTINCT %s FROM vehicle WHERE %s IS NOT NULL", col, col)

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewStorageError(OpQueryDistinct, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, apperrors.NewStorageError(OpQueryDistinct, err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError(OpQueryDistinct, err)
	}

	s.logger.Debug("distinct values loaded", map[string]interface{}{
		"attributeType": string(attributeType),
		"count":         len(values),
		"durationMs":    time.Since(start).Milliseconds(),
	})
	return values, nil
}

func (s *PostgresStore) QueryVehicles(ctx context.Context, filter Filter) ([]models.Row, error) {
	query, args, ok := buildVehicleQuery(filter)
	if !ok {
		// some key allows no values at all, nothing can match
		return []models.Row{}, nil
	}
	if s.db == nil {
		return nil, apperrors.NewStorageError(OpQueryVehicles, fmt.Errorf("no database connection"))
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStorageError(OpQueryVehicles, err)
	}
	defer rows.Close()

	results := []models.Row{}
	for rows.Next() {
		var id, listingCount int64
		var mk, model, badge, transmission, fuel, drive sql.NullString
		if err := rows.Scan(&id, &mk, &model, &badge, &transmission, &fuel, &drive, &listingCount); err != nil {
			return nil, apperrors.NewStorageError(OpQueryVehicles, err)
		}
		results = append(results, models.Row{
			"id":                id,
			"make":              nullable(mk),
			"model":             nullable(model),
			"badge":             nullable(badge),
			"transmission_type": nullable(transmission),
			"fuel_type":         nullable(fuel),
			"drive_type":        nullable(drive),
			"listing_count":     listingCount,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError(OpQueryVehicles, err)
	}

	s.logger.Debug("vehicles queried", map[string]interface{}{
		"filterKeys": len(filter),
		"rowCount":   len(results),
		"durationMs": time.Since(start).Milliseconds(),
	})
	return results, nil
}

// buildVehicleQuery renders the conjunctive IN filter in fixed attribute
// order. ok is false when a present key has an empty value set.
func buildVehicleQuery(filter Filter) (string, []interface{}, bool) {
	var conditions []string
	var args []interface{}

	for _, at := range models.AttributeTypes {
		values, present := filter[at]
		if !present {
			continue
		}
		if len(values) == 0 {
			return "", nil, false
		}
		placeholders := make([]string, len(values))
		for i, v := range values {
			args = append(args, v)
			placeholders[i] = "$" + strconv.Itoa(len(args))
		}
		conditions = append(conditions, fmt.Sprintf("v.%s IN (%s)", at.Column(), strings.Join(placeholders, ",")))
	}

	query := vehicleSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	return query + vehicleGroupBy, args, true
}

func nullable(s sql.NullString) interface{} {
	if !s.Valid {
		return nil
	}
	return s.String
}

package models

import (
	"fmt"
	"strings"

	apperrors "vehicle-matcher/internal/common/errors"
)

// Row is a storage record in mapping form, keyed by column name.
type Row map[string]interface{}

type Vehicle struct {
	ID               int64  `json:"id"`
	Make             string `json:"make"`
	Model            string `json:"model"`
	Badge            string `json:"badge"`
	TransmissionType string `json:"transmissionType"`
	FuelType         string `json:"fuelType"`
	DriveType        string `json:"driveType"`
	ListingCount     int    `json:"listingCount"`
}

// Equal compares vehicles by identifier only.
func (v Vehicle) Equal(other Vehicle) bool {
	return v.ID == other.ID
}

// Description joins the non-empty text fields with single spaces, lower-cased.
func (v Vehicle) Description() string {
	parts := make([]string, 0, 6)
	for _, s := range []string{v.Make, v.Model, v.Badge, v.TransmissionType, v.FuelType, v.DriveType} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

var vehicleTextColumns = []string{"make", "model", "badge", "transmission_type", "fuel_type", "drive_type"}

// VehicleFromRow builds a Vehicle from a storage row. Missing columns or
// values of the wrong type yield a ValidationError. NULL text columns become
// empty strings; a missing listing_count defaults to 0.
func VehicleFromRow(row Row) (Vehicle, error) {
	if row == nil {
		return Vehicle{}, apperrors.NewValidationError("row is nil")
	}

	rawID, ok := row["id"]
	if !ok {
		return Vehicle{}, apperrors.NewValidationError("missing required field: id")
	}
	id, err := toInt64(rawID)
	if err != nil {
		return Vehicle{}, apperrors.NewValidationError(fmt.Sprintf("field id: %v", err))
	}

	text := make(map[string]string, len(vehicleTextColumns))
	for _, col := range vehicleTextColumns {
		raw, ok := row[col]
		if !ok {
			return Vehicle{}, apperrors.NewValidationError("missing required field: " + col)
		}
		s, err := toString(raw)
		if err != nil {
			return Vehicle{}, apperrors.NewValidationError(fmt.Sprintf("field %s: %v", col, err))
		}
		text[col] = s
	}

	var listingCount int64
	if raw, ok := row["listing_count"]; ok && raw != nil {
		listingCount, err = toInt64(raw)
		if err != nil {
			return Vehicle{}, apperrors.NewValidationError(fmt.Sprintf("field listing_count: %v", err))
		}
		if listingCount < 0 {
			return Vehicle{}, apperrors.NewValidationError("field listing_count: negative value")
		}
	}

	return Vehicle{
		ID:               id,
		Make:             text["make"],
		Model:            text["model"],
		Badge:            text["badge"],
		TransmissionType: text["transmission_type"],
		FuelType:         text["fuel_type"],
		DriveType:        text["drive_type"],
		ListingCount:     int(listingCount),
	}, nil
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func toString(v interface{}) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", fmt.Errorf("expected text, got %T", v)
	}
}

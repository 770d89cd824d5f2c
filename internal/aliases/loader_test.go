package aliases

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "vehicle-matcher/internal/common/errors"
	"vehicle-matcher/internal/models"
)

func TestParse(t *testing.T) {
	data := []byte(`{
		"fuel_type": [
			{"name": "Hybrid-Petrol", "aliases": ["Hybrid"]},
			{"name": "Diesel"}
		],
		"make": [
			{"name": "Volkswagen", "aliases": ["VW", "Volks"]}
		],
		"colour": "ignored entirely"
	}`)

	entries, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, []Entry{
		{AttributeType: models.AttributeMake, Name: "Volkswagen", Aliases: []string{"VW", "Volks"}},
		{AttributeType: models.AttributeFuelType, Name: "Hybrid-Petrol", Aliases: []string{"Hybrid"}},
		{AttributeType: models.AttributeFuelType, Name: "Diesel"},
	}, entries)
}

func TestParse_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `make: [Toyota]`},
		{"top level array", `[{"name": "Toyota"}]`},
		{"type is not a list", `{"make": {"name": "Toyota"}}`},
		{"entry without name", `{"make": [{"aliases": ["VW"]}]}`},
		{"empty name", `{"make": [{"name": ""}]}`},
		{"aliases not strings", `{"fuel_type": [{"name": "Diesel", "aliases": [1, 2]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrConfig))
			assert.Nil(t, entries)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"drive_type": [{"name": "All Wheel Drive", "aliases": ["AWD"]}]}`), 0o600))

	entries, err := FileSource{Path: path}.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AttributeDriveType, entries[0].AttributeType)

	_, err = Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConfig))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o600))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
}

func TestShippedAliasFileIsValid(t *testing.T) {
	entries, err := Load(filepath.Join("..", "..", "configs", "aliases.json"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDescriptions(t *testing.T) {
	input := `# sample listings
Toyota Camry Automatic

   VW Golf GTI Manual   
#Ford F-150
Hybrid Camry
`
	got, err := readDescriptions(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, []string{
		"Toyota Camry Automatic",
		"VW Golf GTI Manual",
		"Hybrid Camry",
	}, got)
}

func TestReadDescriptions_Empty(t *testing.T) {
	got, err := readDescriptions(strings.NewReader("\n# only a comment\n"))

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadDescriptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("Toyota Camry\n"), 0o644))

	got, err := loadDescriptions(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Toyota Camry"}, got)

	_, err = loadDescriptions(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

// Package aliases reads the alias document that augments the attribute
// catalog with alternate spellings.
//
// The document maps attribute-type names to entries:
//
//	{"fuel_type": [{"name": "Hybrid-Petrol", "aliases": ["Hybrid"]}]}
//
// Keys that are not attribute types are ignored.
package aliases

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "vehicle-matcher/internal/common/errors"
	"vehicle-matcher/internal/models"
)

type Entry struct {
	AttributeType models.AttributeType
	Name          string
	Aliases       []string
}

// Source produces alias entries for the catalog.
type Source interface {
	Entries() ([]Entry, error)
}

// FileSource reads the document from disk on every call to Entries.
type FileSource struct {
	Path string
}

func (f FileSource) Entries() ([]Entry, error) {
	return Load(f.Path)
}

// StaticSource serves a fixed entry list.
type StaticSource []Entry

func (s StaticSource) Entries() ([]Entry, error) {
	return s, nil
}

func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigError(path, err)
	}
	entries, err := Parse(data)
	if err != nil {
		if stdErr, ok := err.(*apperrors.StandardError); ok {
			stdErr.Details = fmt.Sprintf("source: %s, %s", path, stdErr.Details)
		}
		return nil, err
	}
	return entries, nil
}

// Parse validates data against the alias schema and returns the entries of
// known attribute types in fixed type order, document order within a type.
func Parse(data []byte) ([]Entry, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.NewConfigError("alias document", err)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, apperrors.NewConfigError("alias document", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, apperrors.NewConfigError("alias document", fmt.Errorf("schema violation: %s", strings.Join(errs, "; ")))
	}

	var entries []Entry
	for _, at := range models.AttributeTypes {
		raw, ok := doc[string(at)]
		if !ok {
			continue
		}
		var values []models.AttributeValue
		if err := json.Unmarshal(raw, &values); err != nil {
			return nil, apperrors.NewConfigError("alias document", err)
		}
		for _, v := range values {
			entries = append(entries, Entry{
				AttributeType: at,
				Name:          v.Name,
				Aliases:       v.Aliases,
			})
		}
	}
	return entries, nil
}

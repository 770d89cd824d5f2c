package extractor

import "vehicle-matcher/internal/models"

// Lookup is the part of the catalog the extractor needs.
type Lookup interface {
	Matches(text string, attributeType models.AttributeType) []string
}

type Extractor struct {
	lookup Lookup
}

func New(lookup Lookup) *Extractor {
	return &Extractor{lookup: lookup}
}

// Extract records, per attribute type, every canonical value whose name or
// alias occurs in description. Ambiguous types keep all their matches.
func (e *Extractor) Extract(description string) models.ExtractionResult {
	result := models.ExtractionResult{}
	for _, at := range models.AttributeTypes {
		if matched := e.lookup.Matches(description, at); len(matched) > 0 {
			result[at] = matched
		}
	}
	return result
}

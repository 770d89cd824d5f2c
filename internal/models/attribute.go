package models

import "strings"

// AttributeType is one of the fixed vehicle dimensions used for extraction.
type AttributeType string

const (
	AttributeMake             AttributeType = "make"
	AttributeModel            AttributeType = "model"
	AttributeTransmissionType AttributeType = "transmission_type"
	AttributeFuelType         AttributeType = "fuel_type"
	AttributeDriveType        AttributeType = "drive_type"
)

// AttributeTypes lists every attribute type in extraction order.
var AttributeTypes = []AttributeType{
	AttributeMake,
	AttributeModel,
	AttributeTransmissionType,
	AttributeFuelType,
	AttributeDriveType,
}

// ParseAttributeType reports whether s names a known attribute type.
func ParseAttributeType(s string) (AttributeType, bool) {
	for _, at := range AttributeTypes {
		if string(at) == s {
			return at, true
		}
	}
	return "", false
}

// Column is the vehicle table column holding this attribute. Attribute
// names double as column names; only values from AttributeTypes ever reach SQL.
func (a AttributeType) Column() string {
	return string(a)
}

// AttributeValue is a canonical value plus the alternate spellings that
// should also be recognised in free text.
type AttributeValue struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}

// Terms returns the canonical name followed by all aliases.
func (v AttributeValue) Terms() []string {
	terms := make([]string, 0, 1+len(v.Aliases))
	terms = append(terms, v.Name)
	return append(terms, v.Aliases...)
}

// MatchesText reports whether any term occurs in text, ignoring case.
// Empty terms never match.
func (v AttributeValue) MatchesText(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range v.Terms() {
		if term == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// ExtractionResult maps each attribute type that matched to the canonical
// names found for it. Types with no match are absent.
type ExtractionResult map[AttributeType][]string

// Types returns the present attribute types in fixed order.
func (r ExtractionResult) Types() []AttributeType {
	out := make([]AttributeType, 0, len(r))
	for _, at := range AttributeTypes {
		if _, ok := r[at]; ok {
			out = append(out, at)
		}
	}
	return out
}

func (r ExtractionResult) IsEmpty() bool {
	return len(r) == 0
}

// Package catalog holds the known canonical values (and their aliases) for
// every attribute type and answers substring lookups against free text.
package catalog

import (
	"context"

	"vehicle-matcher/internal/aliases"
	apperrors "vehicle-matcher/internal/common/errors"
	"vehicle-matcher/internal/common/logger"
	"vehicle-matcher/internal/common/metrics"
	"vehicle-matcher/internal/models"
)

// DistinctSource supplies the distinct stored values of one attribute column.
type DistinctSource interface {
	QueryDistinct(ctx context.Context, attributeType models.AttributeType) ([]string, error)
}

// Catalog is read-only once Load returns and safe for concurrent reads.
type Catalog struct {
	values   map[models.AttributeType][]models.AttributeValue
	index    map[models.AttributeType]map[string]int
	warnings []error
}

func newCatalog() *Catalog {
	c := &Catalog{
		values: make(map[models.AttributeType][]models.AttributeValue, len(models.AttributeTypes)),
		index:  make(map[models.AttributeType]map[string]int, len(models.AttributeTypes)),
	}
	for _, at := range models.AttributeTypes {
		c.values[at] = nil
		c.index[at] = map[string]int{}
	}
	return c
}

// Load builds the catalog from storage and then applies aliases from src,
// which may be nil. Failures never abort the load: a storage error leaves
// that attribute type empty, an alias error skips aliasing. Each failure is
// logged and kept in Warnings.
func Load(ctx context.Context, store DistinctSource, src aliases.Source, log logger.Logger) *Catalog {
	log = log.WithFields(map[string]interface{}{"component": "catalog"})
	c := newCatalog()

	for _, at := range models.AttributeTypes {
		values, err := store.QueryDistinct(ctx, at)
		if err != nil {
			loadErr := apperrors.NewLoadError(string(at), err)
			c.warnings = append(c.warnings, loadErr)
			metrics.CatalogLoadErrors.WithLabelValues(metrics.SourceStorage).Inc()
			log.Warn("attribute values unavailable, continuing without them", map[string]interface{}{
				"attributeType": string(at),
				"error":         loadErr,
			})
			continue
		}
		for _, v := range values {
			c.add(at, v)
		}
	}

	if src != nil {
		entries, err := src.Entries()
		if err != nil {
			c.warnings = append(c.warnings, err)
			metrics.CatalogLoadErrors.WithLabelValues(metrics.SourceAliases).Inc()
			log.Warn("alias source rejected, catalog has database values only", map[string]interface{}{
				"error": err,
			})
		} else {
			c.ApplyAliases(entries)
		}
	}

	for _, at := range models.AttributeTypes {
		metrics.CatalogValues.WithLabelValues(string(at)).Set(float64(len(c.values[at])))
	}

	log.Info("catalog loaded", map[string]interface{}{
		"make":              len(c.values[models.AttributeMake]),
		"model":             len(c.values[models.AttributeModel]),
		"transmission_type": len(c.values[models.AttributeTransmissionType]),
		"fuel_type":         len(c.values[models.AttributeFuelType]),
		"drive_type":        len(c.values[models.AttributeDriveType]),
		"warnings":          len(c.warnings),
	})
	return c
}

// FromValues builds a catalog without storage, one value per distinct name.
func FromValues(values map[models.AttributeType][]string) *Catalog {
	c := newCatalog()
	for _, at := range models.AttributeTypes {
		for _, v := range values[at] {
			c.add(at, v)
		}
	}
	return c
}

// add appends name unless it is already present for the type.
func (c *Catalog) add(at models.AttributeType, name string) int {
	if i, ok := c.index[at][name]; ok {
		return i
	}
	c.values[at] = append(c.values[at], models.AttributeValue{Name: name})
	i := len(c.values[at]) - 1
	c.index[at][name] = i
	return i
}

// ApplyAliases extends the alias list of existing names and appends unknown
// names as new values. Aliases are appended as given, duplicates included.
// Must not be called once the catalog is serving lookups.
func (c *Catalog) ApplyAliases(entries []aliases.Entry) {
	for _, e := range entries {
		if _, ok := c.index[e.AttributeType]; !ok {
			continue
		}
		i := c.add(e.AttributeType, e.Name)
		c.values[e.AttributeType][i].Aliases = append(c.values[e.AttributeType][i].Aliases, e.Aliases...)
	}
}

// Matches returns, in catalog order, the canonical names of attributeType
// whose name or any alias occurs in text, ignoring case.
func (c *Catalog) Matches(text string, attributeType models.AttributeType) []string {
	var out []string
	for _, v := range c.values[attributeType] {
		if v.MatchesText(text) {
			out = append(out, v.Name)
		}
	}
	return out
}

// Values returns a copy of the values known for attributeType.
func (c *Catalog) Values(attributeType models.AttributeType) []models.AttributeValue {
	src := c.values[attributeType]
	out := make([]models.AttributeValue, len(src))
	for i, v := range src {
		out[i] = models.AttributeValue{Name: v.Name, Aliases: append([]string(nil), v.Aliases...)}
	}
	return out
}

// Warnings lists the non-fatal failures seen while loading.
func (c *Catalog) Warnings() []error {
	return c.warnings
}

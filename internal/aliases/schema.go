package aliases

import (
	"github.com/xeipuuv/gojsonschema"

	"vehicle-matcher/internal/models"
)

var schemaLoader = gojsonschema.NewGoLoader(buildSchema())

func buildSchema() map[string]interface{} {
	entry := map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"name"},
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":      "string",
				"minLength": 1,
			},
			"aliases": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string", "minLength": 1},
			},
		},
	}

	properties := map[string]interface{}{}
	for _, at := range models.AttributeTypes {
		properties[string(at)] = map[string]interface{}{
			"type":  "array",
			"items": entry,
		}
	}

	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
}

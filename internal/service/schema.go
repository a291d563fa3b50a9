package service

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

var (
	intentSchema = gojsonschema.NewGoLoader(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"category":      map[string]any{"type": []string{"string", "null"}},
			"minPrice":      map[string]any{"type": []string{"number", "null"}},
			"maxPrice":      map[string]any{"type": []string{"number", "null"}},
			"keywords":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"semanticQuery": map[string]any{"type": "string"},
			"explanation":   map[string]any{"type": "string"},
		},
		"required": []string{"keywords"},
	})

	rankingSchema = gojsonschema.NewGoLoader(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"rankedIds": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{"rankedIds"},
	})
)

// validateModelOutput checks decoded model output against schema.
func validateModelOutput(schema gojsonschema.JSONLoader, doc any) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("model output validation failed: %v", errs)
	}
	return nil
}

// decodeModelDoc converts a validated document into its typed form.
func decodeModelDoc(doc any, out any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("re-encode: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
)

// compiled once at startup; the schema is static.
var extractionSchema = mustCompileExtractionSchema()

// buildExtractionSchema describes the structural shape of the model's reply:
// each canonical field, when present, must be {value: string, confidence:
// number}. Range clamping and missing-field normalization happen after
// validation, so the schema stays purely structural.
func buildExtractionSchema() map[string]any {
	fieldProp := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"value":      map[string]any{"type": "string"},
			"confidence": map[string]any{"type": "number"},
		},
		"required": []string{"value"},
	}

	props := make(map[string]any, len(domain.ExtractionFieldNames))
	for _, name := range domain.ExtractionFieldNames {
		props[name] = fieldProp
	}

	return map[string]any{
		"type":       "object",
		"properties": props,
	}
}

func mustCompileExtractionSchema() *jsonschema.Schema {
	b, err := json.Marshal(buildExtractionSchema())
	if err != nil {
		panic(fmt.Sprintf("marshal extraction schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("extraction.json", bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("add extraction schema: %v", err))
	}
	schema, err := compiler.Compile("extraction.json")
	if err != nil {
		panic(fmt.Sprintf("compile extraction schema: %v", err))
	}
	return schema
}

// validateExtractionJSON checks raw model output against the structural schema.
func validateExtractionJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal extraction json: %w", err)
	}
	if err := extractionSchema.Validate(v); err != nil {
		return fmt.Errorf("extraction json does not match schema: %w", err)
	}
	return nil
}

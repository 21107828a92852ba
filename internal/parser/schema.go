package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// extractionSchema constrains the JSON a model is allowed to return. Kept as a
// map so the schema and the prompt stay easy to diff side by side.
var extractionSchema = map[string]any{
	"type":                 "object",
	"required":             []any{"doc_type"},
	"additionalProperties": false,
	"properties": map[string]any{
		"doc_type": map[string]any{
			"type": "string",
			"enum": []any{"hbl", "mbl", "unknown"},
		},
		"bl_number":         nullableString(),
		"shipper_name":      nullableString(),
		"consignee_name":    nullableString(),
		"notify_party_name": nullableString(),
		"carrier_name":      nullableString(),
		"port_of_loading":   nullableString(),
		"port_of_discharge": nullableString(),
		"place_of_receipt":  nullableString(),
		"place_of_delivery": nullableString(),
		"etd":               nullableDate(),
		"eta":               nullableDate(),
		"legal_excerpt":     nullableString(),
		"containers": map[string]any{
			"type": []any{"array", "null"},
			"items": map[string]any{
				"type":                 "object",
				"required":             []any{"number"},
				"additionalProperties": false,
				"properties": map[string]any{
					"number": map[string]any{
						"type":      "string",
						"minLength": 1,
					},
					"weight_kg":  map[string]any{"type": []any{"number", "null"}},
					"volume_cbm": map[string]any{"type": []any{"number", "null"}},
				},
			},
		},
	},
}

func nullableString() map[string]any {
	return map[string]any{"type": []any{"string", "null"}}
}

func nullableDate() map[string]any {
	return map[string]any{
		"type":    []any{"string", "null"},
		"pattern": `^\d{4}-\d{2}-\d{2}$`,
	}
}

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	b, err := json.Marshal(extractionSchema)
	if err != nil {
		panic(fmt.Sprintf("parser: marshal schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("extraction.json", bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("parser: add schema: %v", err))
	}
	schema, err := compiler.Compile("extraction.json")
	if err != nil {
		panic(fmt.Sprintf("parser: compile schema: %v", err))
	}
	return schema
}

// ValidateExtractionJSON checks a model's raw JSON output against the
// extraction schema before it is decoded into domain types.
func ValidateExtractionJSON(raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("unmarshal extraction json: %w", err)
	}
	if err := compiledSchema.Validate(v); err != nil {
		return fmt.Errorf("extraction json does not match schema: %w", err)
	}
	return nil
}

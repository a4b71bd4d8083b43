package llm

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-lesson",
		Description: "A test object",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":  map[string]any{"type": "string", "minLength": 1},
				"blocks": map[string]any{"type": "array"},
				"level":  map[string]any{"type": "string", "enum": []any{"beginner", "advanced"}},
			},
			"required": []any{"title", "blocks"},
		},
	}
}

func TestSchemaValidateJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"title":"Gravity","blocks":[],"level":"beginner"}`, false},
		{"valid without optional", `{"title":"Gravity","blocks":[]}`, false},
		{"missing required", `{"title":"Gravity"}`, true},
		{"wrong type", `{"title":"Gravity","blocks":"none"}`, true},
		{"empty title", `{"title":"","blocks":[]}`, true},
		{"bad enum", `{"title":"Gravity","blocks":[],"level":"expert"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := testSchema().ValidateJSON(json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var se *SchemaError
				if !errors.As(err, &se) {
					t.Fatalf("expected SchemaError, got %T", err)
				}
			}
		})
	}
}

func TestSchemaValidateJSON_Malformed(t *testing.T) {
	err := testSchema().ValidateJSON(json.RawMessage(`{not json`))
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	var se *SchemaError
	if errors.As(err, &se) {
		t.Fatal("malformed JSON must not be reported as a schema violation")
	}
}

func TestSchemaCache(t *testing.T) {
	s := testSchema()
	if err := s.ValidateJSON(json.RawMessage(`{"title":"a","blocks":[]}`)); err != nil {
		t.Fatalf("first validation: %v", err)
	}
	if _, ok := schemaCache.Load(s.Name); !ok {
		t.Fatal("expected schema to be cached after first use")
	}
	if err := s.ValidateJSON(json.RawMessage(`{"title":"b","blocks":[]}`)); err != nil {
		t.Fatalf("second validation: %v", err)
	}
}

func TestSchemaErrorDetails(t *testing.T) {
	err := testSchema().ValidateJSON(json.RawMessage(`{"blocks":[]}`))
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %T (%v)", err, err)
	}
	details := se.Details()
	if !strings.Contains(details, "title") {
		t.Fatalf("details should name the missing property, got %q", details)
	}
	if strings.Contains(details, "\n") {
		t.Fatalf("details should be a single line, got %q", details)
	}
}

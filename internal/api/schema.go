package api

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/noema/dashboard/internal/domain"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed payload.schema.json
var payloadSchemaJSON string

// Schema checks outgoing payloads before they hit the network
type Schema struct {
	schema *gojsonschema.Schema
}

// NewSchema compiles a JSON schema document
func NewSchema(document string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(document))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// MustPayloadSchema compiles the embedded payload schema
func MustPayloadSchema() *Schema {
	s, err := NewSchema(payloadSchemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

// Check validates p against the schema
func (s *Schema) Check(p domain.Payload) error {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(p))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("payload does not match schema: %s", strings.Join(errs, "; "))
	}
	return nil
}

package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	k8syaml "sigs.k8s.io/yaml"
)

const schemaURL = "https://transformhub.dev/schemas/catalog.schema.json"

//go:embed catalog.schema.json
var schemaJSON []byte

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("failed to register catalog schema: %w", err)
	}

	return compiler.Compile(schemaURL)
})

// ValidateSchema checks a YAML (or JSON) catalog document against the embedded JSON Schema
func ValidateSchema(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	jsonData, err := k8syaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("failed to convert catalog to JSON: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to decode catalog document: %w", err)
	}

	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("catalog does not match schema: %w", err)
	}
	return nil
}

package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
)

// NamedSchema pairs a public type name with its JSON schema.
type NamedSchema struct {
	Name   string
	Schema *jsonschema.Schema
}

// Schemas returns the JSON schemas of the public API types, in a stable order.
func Schemas() []NamedSchema {
	r := &jsonschema.Reflector{DoNotReference: true}
	return []NamedSchema{
		{Name: "ErrorDetail", Schema: r.Reflect(&ErrorDetail{})},
		{Name: "School", Schema: r.Reflect(&School{})},
		{Name: "CreateSchool", Schema: r.Reflect(&CreateSchool{})},
		{Name: "List", Schema: r.Reflect([]School{})},
	}
}

// WriteSchemas writes one <Name>.schema.json file per schema into dir, creating it if needed.
// It returns the paths written.
func WriteSchemas(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create schema dir: %w", err)
	}

	var written []string
	for _, s := range Schemas() {
		b, err := json.MarshalIndent(s.Schema, "", "  ")
		if err != nil {
			return written, fmt.Errorf("marshal %s schema: %w", s.Name, err)
		}
		path := filepath.Join(dir, s.Name+".schema.json")
		if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

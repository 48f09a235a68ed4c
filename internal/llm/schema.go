package llm

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Schema is a strict output contract: every property required, no
// additional properties, everything inlined.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// ReflectSchema builds a strict Schema from the JSON shape of v. Fields
// without omitempty are required.
func ReflectSchema(name, description string, v any) (*Schema, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		Anonymous:      true,
	}
	raw, err := json.Marshal(r.Reflect(v))
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", name, err)
	}

	var def map[string]any
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("unmarshal schema %s: %w", name, err)
	}
	// providers reject meta keys inside tool/response schemas
	delete(def, "$schema")
	delete(def, "$id")

	return &Schema{Name: name, Description: description, Definition: def}, nil
}

// MustReflectSchema is ReflectSchema for package-level vars.
func MustReflectSchema(name, description string, v any) *Schema {
	s, err := ReflectSchema(name, description, v)
	if err != nil {
		panic(err)
	}
	return s
}

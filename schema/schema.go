// Package schema provides JSON Schema building and validation utilities.
//
// # Quick Start
//
//	raw := schema.Object(map[string]*schema.Property{
//	    "fn_name":     schema.String("Function identifier"),
//	    "args_types":  schema.Map("Argument name to type tag", schema.String("Type tag")),
//	    "return_type": schema.String("Return type"),
//	}, "fn_name", "args_types", "return_type")
//
//	s := schema.MustCompile(raw)
//	err := s.Validate(record)
//
// The catalog compiles one such schema to check function definition records, and
// renders every definition's arguments with [ForTypeTag] so the model can be told
// which calls exist.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rickchristie/fncall"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema represents a JSON Schema definition.
// It provides both the raw map representation (for serialization/prompts)
// and a compiled validator (for runtime validation).
type Schema struct {
	raw      map[string]any
	compiled *jsonschema.Schema
}

// Raw returns the underlying map[string]any representation.
func (s *Schema) Raw() map[string]any {
	if s == nil {
		return nil
	}
	return s.raw
}

// Validate validates a decoded JSON value against the schema.
// Returns nil if valid, or a *ValidationError describing the failure.
//
// The value is normalized through a JSON round trip first, so Go maps such as
// map[string]string and YAML-decoded values validate the same way as values
// decoded from JSON text.
func (s *Schema) Validate(data any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	normalized, err := normalize(data)
	if err != nil {
		return &ValidationError{Err: err}
	}
	if err := s.compiled.Validate(normalized); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

func normalize(data any) (any, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("value is not JSON-encodable: %w", err)
	}
	return jsonschema.UnmarshalJSON(strings.NewReader(string(encoded)))
}

// ValidationError wraps a JSON Schema validation error with a cleaner message.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Compile compiles a raw schema map into a Schema with a compiled validator.
// Returns an error if the schema is invalid.
func Compile(raw map[string]any) (*Schema, error) {
	if raw == nil {
		return nil, nil
	}

	schemaJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	schemaData, err := jsonschema.UnmarshalJSON(strings.NewReader(string(schemaJSON)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaData); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Schema{
		raw:      raw,
		compiled: compiled,
	}, nil
}

// MustCompile is like Compile but panics on error.
// Use this for schemas defined at init time.
func MustCompile(raw map[string]any) *Schema {
	s, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// -----------------------------------------------------------------------------
// Schema Builders
// -----------------------------------------------------------------------------

// Object creates a closed object schema with the given properties.
// Pass property names as variadic arguments to mark them as required.
// Properties not listed are rejected (additionalProperties: false), matching the
// exact key sets function calls must have.
//
// Example:
//
//	schema.Object(map[string]*schema.Property{
//	    "a": schema.Number("first addend"),
//	    "b": schema.Number("second addend"),
//	}, "a", "b")
func Object(properties map[string]*Property, required ...string) map[string]any {
	props := make(map[string]any, len(properties))
	for name, prop := range properties {
		props[name] = prop.build()
	}

	schema := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}

	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

// OpenObject is like Object but accepts properties that are not listed. Use it
// for records that may carry extra annotations, such as a description.
func OpenObject(properties map[string]*Property, required ...string) map[string]any {
	schema := Object(properties, required...)
	delete(schema, "additionalProperties")
	return schema
}

// Property represents a property in an object schema.
type Property struct {
	typ         string
	description string
	values      *Property // map value schema
}

func (p *Property) build() map[string]any {
	m := map[string]any{}

	if p.typ != "" {
		m["type"] = p.typ
	}
	if p.description != "" {
		m["description"] = p.description
	}
	if p.values != nil {
		m["additionalProperties"] = p.values.build()
	}

	return m
}

// String creates a string property.
func String(description string) *Property {
	return &Property{typ: "string", description: description}
}

// Integer creates an integer property.
func Integer(description string) *Property {
	return &Property{typ: "integer", description: description}
}

// Number creates a number property (floating point).
func Number(description string) *Property {
	return &Property{typ: "number", description: description}
}

// Boolean creates a boolean property.
func Boolean(description string) *Property {
	return &Property{typ: "boolean", description: description}
}

// Map creates an object property with arbitrary keys whose values all match
// the given property.
//
// Example:
//
//	schema.Map("Argument name to type tag", schema.String("Type tag"))
func Map(description string, values *Property) *Property {
	return &Property{typ: "object", description: description, values: values}
}

// ForTypeTag returns the property for a function argument type tag. Tags are
// matched case-insensitively and synonyms are accepted ("double", "string").
// Returns false for a tag no JSON Schema type corresponds to.
func ForTypeTag(tag, description string) (*Property, bool) {
	normalized, ok := fncall.NormalizeType(tag)
	if !ok {
		return nil, false
	}
	switch normalized {
	case fncall.TypeFloat:
		return Number(description), true
	case fncall.TypeInt:
		return Integer(description), true
	case fncall.TypeBool:
		return Boolean(description), true
	default:
		return String(description), true
	}
}

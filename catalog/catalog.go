// Package catalog holds the function definitions a model may call.
//
// A Catalog is built once from raw records (decoded JSON or YAML) and is
// read-only afterwards, so one Catalog can be shared by any number of
// concurrent validations without locking.
//
//	cat, err := catalog.LoadFile("functions_definition.json")
//	if err != nil {
//	    // fatal: a malformed definition aborts the run
//	}
//	def, ok := cat.Lookup("fn_add_numbers")
package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rickchristie/fncall"
	"github.com/rickchristie/fncall/schema"
)

// recordSchema is the shape every raw function definition record must have.
// Other keys, such as a description, are ignored.
var recordSchema = schema.MustCompile(schema.OpenObject(map[string]*schema.Property{
	"fn_name":     schema.String("Exact function identifier"),
	"args_types":  schema.Map("Argument name to type tag", schema.String("Type tag")),
	"return_type": schema.String("Return type, descriptive only"),
}, "fn_name", "args_types", "return_type"))

// Catalog is an immutable lookup of function definitions keyed by fn_name.
type Catalog struct {
	defs  map[string]*fncall.FunctionDefinition
	names []string // sorted
}

// Build validates every record and builds a Catalog.
//
// Each record must be an object with fn_name (string), args_types (object of
// string to string) and return_type (string); any other keys are ignored. The
// first malformed record fails the whole build with an error wrapping
// [fncall.ErrSchemaBuild].
// When two records share a fn_name the later one wins.
func Build(records []any) (*Catalog, error) {
	c := &Catalog{defs: make(map[string]*fncall.FunctionDefinition, len(records))}

	for i, record := range records {
		def, err := decodeRecord(record)
		if err != nil {
			return nil, fmt.Errorf("%w: records[%d]: %v", fncall.ErrSchemaBuild, i, err)
		}
		c.defs[def.FnName] = def
	}

	c.names = make([]string, 0, len(c.defs))
	for name := range c.defs {
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)

	return c, nil
}

// New builds a Catalog from typed definitions. The same checks as Build apply.
func New(defs ...fncall.FunctionDefinition) (*Catalog, error) {
	records := make([]any, len(defs))
	for i, def := range defs {
		records[i] = map[string]any{
			"fn_name":     def.FnName,
			"args_types":  def.ArgsTypes,
			"return_type": def.ReturnType,
		}
	}
	return Build(records)
}

// MustNew is like New but panics on error. Use it for catalogs defined in code.
func MustNew(defs ...fncall.FunctionDefinition) *Catalog {
	c, err := New(defs...)
	if err != nil {
		panic(err)
	}
	return c
}

func decodeRecord(record any) (*fncall.FunctionDefinition, error) {
	if err := recordSchema.Validate(record); err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var def fncall.FunctionDefinition
	if err := json.Unmarshal(encoded, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

// Lookup returns the definition for fn_name. The returned definition is shared
// and must not be modified.
func (c *Catalog) Lookup(fnName string) (*fncall.FunctionDefinition, bool) {
	def, ok := c.defs[fnName]
	return def, ok
}

// Names returns the function names in sorted order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Len returns the number of functions.
func (c *Catalog) Len() int {
	return len(c.names)
}

// JSONSchema returns the JSON Schema of the args object of fnName. Arguments
// with an unrecognized type tag are described without a type constraint.
func (c *Catalog) JSONSchema(fnName string) (map[string]any, bool) {
	def, ok := c.defs[fnName]
	if !ok {
		return nil, false
	}

	props := make(map[string]*schema.Property, len(def.ArgsTypes))
	required := make([]string, 0, len(def.ArgsTypes))
	for name, tag := range def.ArgsTypes {
		prop, ok := schema.ForTypeTag(tag, tag)
		if !ok {
			prop = &schema.Property{}
		}
		props[name] = prop
		required = append(required, name)
	}
	sort.Strings(required)

	return schema.Object(props, required...), true
}

// AvailableFunctionsPrompt returns the catalog rendered for a model prompt: one
// entry per function with its signature and the JSON Schema of its args.
func (c *Catalog) AvailableFunctionsPrompt() string {
	var sb strings.Builder
	sb.WriteString("Available functions:\n")

	for _, name := range c.names {
		def := c.defs[name]
		args := def.ArgNames()
		sort.Strings(args)
		params := make([]string, len(args))
		for i, arg := range args {
			params[i] = arg + ": " + def.ArgsTypes[arg]
		}
		fmt.Fprintf(&sb, "\n- %s(%s) -> %s\n", name, strings.Join(params, ", "), def.ReturnType)

		if argsSchema, ok := c.JSONSchema(name); ok {
			schemaJSON, err := json.Marshal(argsSchema)
			if err == nil {
				sb.WriteString("  args: ")
				sb.Write(schemaJSON)
				sb.WriteString("\n")
			}
		}
	}

	return sb.String()
}

package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rickchristie/fncall"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a definitions file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension: .yaml and .yml are
// YAML, anything else is JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadFile reads a definitions file and builds a Catalog. The file must hold a
// list of definition records.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fncall.ErrSchemaBuild, err)
	}
	defer f.Close()

	c, err := Load(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Load decodes a list of definition records from r and builds a Catalog.
func Load(r io.Reader, format Format) (*Catalog, error) {
	var doc any
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: invalid YAML: %v", fncall.ErrSchemaBuild, err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: invalid JSON: %v", fncall.ErrSchemaBuild, err)
		}
	}

	records, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a list of function definitions, got %T",
			fncall.ErrSchemaBuild, doc)
	}
	return Build(records)
}

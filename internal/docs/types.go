// Package docs assembles OpenAPI-style schema documents from a type graph
// and renders them into canonical, integrity-stamped output files. One
// Generate call is one generation pass: walk, assign identifiers, assemble,
// format, hash.
package docs

import (
	"github.com/schemadoc-dev/schemadoc/internal/canonical"
	"github.com/schemadoc-dev/schemadoc/internal/integrity"
)

// Format represents a document output format
type Format string

const (
	// FormatJSON renders the document as canonical JSON
	FormatJSON Format = "json"

	// FormatYAML renders the document as canonical YAML
	FormatYAML Format = "yaml"
)

// Syntax maps the output format to its canonical syntax
func (f Format) Syntax() canonical.Syntax {
	if f == FormatYAML {
		return canonical.SyntaxYAML
	}
	return canonical.SyntaxJSON
}

// Filename is the output file name for the format
func (f Format) Filename() string {
	if f == FormatYAML {
		return "openapi.yaml"
	}
	return "openapi.json"
}

// Config holds configuration for document generation
type Config struct {
	// Title is the API title placed in the document info block
	Title string

	// Version is the API version
	Version string

	// Description is an optional API description
	Description string

	// OutputDir is the directory generated files are written to
	OutputDir string

	// Formats specifies which formats to generate
	Formats []Format

	// MaxDepth bounds schema nesting; zero selects the walker default
	MaxDepth int
}

// Output is one generated document plus its integrity record
type Output struct {
	Format   Format
	Path     string
	Document *canonical.Document
	Record   integrity.Record
}

// Result collects everything one generation pass produced
type Result struct {
	Outputs []Output
}

// Output returns the generated document for a format, if any
func (r *Result) Output(format Format) (*Output, bool) {
	for i := range r.Outputs {
		if r.Outputs[i].Format == format {
			return &r.Outputs[i], true
		}
	}
	return nil, false
}

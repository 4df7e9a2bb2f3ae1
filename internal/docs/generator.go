package docs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schemadoc-dev/schemadoc/internal/canonical"
	"github.com/schemadoc-dev/schemadoc/internal/diag"
	"github.com/schemadoc-dev/schemadoc/internal/integrity"
	"github.com/schemadoc-dev/schemadoc/internal/schema"
	"github.com/schemadoc-dev/schemadoc/internal/typegraph"
)

// IntegrityFilename is the sidecar file holding the integrity record of
// every generated document
const IntegrityFilename = "integrity.json"

// Generator runs generation passes over type graphs. Each pass owns its own
// walker and, unless a shared registry is injected for cross-pass identifier
// stability, its own collision registry, so concurrent passes never share
// mutable state.
type Generator struct {
	config   *Config
	reporter *diag.Reporter
	registry *schema.CollisionRegistry
	naming   schema.NamingStrategy
}

// GeneratorOption customizes a Generator
type GeneratorOption func(*Generator)

// WithReporter sets the diagnostics reporter
func WithReporter(reporter *diag.Reporter) GeneratorOption {
	return func(g *Generator) {
		if reporter != nil {
			g.reporter = reporter
		}
	}
}

// WithSharedRegistry makes every pass bind identifiers through one shared
// collision registry, which keeps SchemaIDs stable across regenerations at
// the cost of serializing assignments behind the registry lock
func WithSharedRegistry(registry *schema.CollisionRegistry) GeneratorOption {
	return func(g *Generator) {
		g.registry = registry
	}
}

// WithNaming overrides the schema id naming strategy
func WithNaming(strategy schema.NamingStrategy) GeneratorOption {
	return func(g *Generator) {
		if strategy != nil {
			g.naming = strategy
		}
	}
}

// NewGenerator creates a generator for the given configuration
func NewGenerator(config *Config, opts ...GeneratorOption) (*Generator, error) {
	if config == nil {
		return nil, fmt.Errorf("docs: config must not be nil")
	}
	if config.Title == "" {
		return nil, fmt.Errorf("docs: config requires a title")
	}
	if config.MaxDepth < 0 {
		return nil, fmt.Errorf("docs: max depth must not be negative, got %d", config.MaxDepth)
	}
	if len(config.Formats) == 0 {
		config.Formats = []Format{FormatJSON}
	}
	for _, format := range config.Formats {
		if format != FormatJSON && format != FormatYAML {
			return nil, fmt.Errorf("docs: unsupported format %q", format)
		}
	}

	g := &Generator{
		config:   config,
		reporter: diag.NewNopReporter(),
		naming:   schema.DefaultNamingStrategy,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Build runs one in-memory generation pass: walk every root, assemble the
// document, render each configured format canonically and stamp it with its
// integrity record. Nothing is written to disk.
func (g *Generator) Build(graph *typegraph.Graph) (*Result, error) {
	if graph == nil {
		return nil, fmt.Errorf("docs: graph must not be nil")
	}
	roots := graph.Roots()
	if len(roots) == 0 {
		return nil, fmt.Errorf("docs: graph declares no root types")
	}

	registry := g.registry
	if registry == nil {
		registry = schema.NewCollisionRegistry()
	}
	assigner := schema.NewAssigner(registry,
		schema.WithNamingStrategy(g.naming),
		schema.WithAssignerReporter(g.reporter),
	)
	walker := schema.NewWalker(graph, assigner, schema.WithWalkerReporter(g.reporter))

	for _, root := range roots {
		if _, err := walker.Walk(root, g.config.MaxDepth); err != nil {
			return nil, fmt.Errorf("docs: walking %s: %w", root, err)
		}
	}

	value := assembleDocument(g.config, walker.Components())
	engine := integrity.NewEngine(g.reporter)

	result := &Result{}
	for _, format := range g.config.Formats {
		doc, err := canonical.Format(value, format.Syntax())
		if err != nil {
			return nil, fmt.Errorf("docs: rendering %s: %w", format, err)
		}
		result.Outputs = append(result.Outputs, Output{
			Format:   format,
			Path:     filepath.Join(g.config.OutputDir, format.Filename()),
			Document: doc,
			Record:   engine.NewRecord(doc.Bytes()),
		})
	}
	return result, nil
}

// Generate runs a pass and writes every rendered document plus the
// integrity sidecar to the output directory
func (g *Generator) Generate(graph *typegraph.Graph) (*Result, error) {
	result, err := g.Build(graph)
	if err != nil {
		return nil, err
	}

	outputDir, err := resolveOutputDir(g.config.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("docs: failed to create output directory: %w", err)
	}

	sidecar := make(map[string]any, len(result.Outputs))
	for i := range result.Outputs {
		output := &result.Outputs[i]
		output.Path = filepath.Join(outputDir, output.Format.Filename())
		if err := os.WriteFile(output.Path, output.Document.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("docs: failed to write %s: %w", output.Format.Filename(), err)
		}
		sidecar[output.Format.Filename()] = map[string]any{
			"algorithm":  output.Record.Algorithm,
			"hash":       output.Record.Hash,
			"shortToken": output.Record.ShortToken,
			"etag":       output.Record.ETag,
			"integrity":  output.Record.Integrity,
		}
	}

	// The sidecar goes through the same canonical renderer as the documents
	// it describes, so regenerating an unchanged API leaves it untouched.
	sidecarDoc, err := canonical.Format(sidecar, canonical.SyntaxJSON)
	if err != nil {
		return nil, fmt.Errorf("docs: rendering integrity sidecar: %w", err)
	}
	sidecarPath := filepath.Join(outputDir, IntegrityFilename)
	if err := os.WriteFile(sidecarPath, sidecarDoc.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("docs: failed to write %s: %w", IntegrityFilename, err)
	}

	return result, nil
}

// resolveOutputDir validates and absolutizes the output directory, refusing
// traversal sequences the same way the rest of the tooling does
func resolveOutputDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if containsPathTraversal(dir) {
		return "", fmt.Errorf("docs: invalid output directory: path traversal detected")
	}
	dir = filepath.Clean(dir)
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("docs: failed to resolve working directory: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}
	return dir, nil
}

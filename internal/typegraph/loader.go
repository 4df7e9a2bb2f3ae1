package typegraph

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// DescriptorFormat identifies the encoding of a type graph descriptor file
type DescriptorFormat string

const (
	DescriptorJSON DescriptorFormat = "json"
	DescriptorYAML DescriptorFormat = "yaml"
)

// descriptorFile is the on-disk shape of a type graph descriptor
type descriptorFile struct {
	Types []typeDescriptor `json:"types" yaml:"types"`
	Roots []string         `json:"roots" yaml:"roots"`
}

type typeDescriptor struct {
	Name        string            `json:"name" yaml:"name"`
	Kind        string            `json:"kind" yaml:"kind"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	WireType    string            `json:"wireType,omitempty" yaml:"wireType,omitempty"`
	Format      string            `json:"format,omitempty" yaml:"format,omitempty"`
	Fields      []fieldDescriptor `json:"fields,omitempty" yaml:"fields,omitempty"`
	Additional  string            `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
	Element     string            `json:"element,omitempty" yaml:"element,omitempty"`
	Variants    []string          `json:"variants,omitempty" yaml:"variants,omitempty"`
}

type fieldDescriptor struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Load reads a type graph descriptor from disk, detecting the encoding from
// the file extension (.json, .yaml, .yml)
func Load(path string) (*Graph, error) {
	format, err := formatForPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("typegraph: failed to read descriptor: %w", err)
	}

	graph, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("typegraph: %s: %w", filepath.Base(path), err)
	}
	return graph, nil
}

// Parse decodes a type graph descriptor from raw bytes
func Parse(data []byte, format DescriptorFormat) (*Graph, error) {
	var file descriptorFile
	switch format {
	case DescriptorJSON:
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("invalid JSON descriptor: %w", err)
		}
	case DescriptorYAML:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("invalid YAML descriptor: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported descriptor format %q", format)
	}
	return file.build()
}

func (f *descriptorFile) build() (*Graph, error) {
	graph := NewGraph()

	for _, td := range f.Types {
		t, err := td.build()
		if err != nil {
			return nil, err
		}
		if err := graph.Add(t); err != nil {
			return nil, err
		}
	}

	if len(f.Roots) == 0 {
		return nil, fmt.Errorf("descriptor declares no root types")
	}
	for _, expr := range f.Roots {
		key, err := ParseRef(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid root reference %q: %w", expr, err)
		}
		if _, ok := graph.Resolve(key); !ok {
			return nil, fmt.Errorf("root type %s is not defined", key)
		}
		if err := graph.AddRoot(key); err != nil {
			return nil, err
		}
	}

	return graph, nil
}

func (td *typeDescriptor) build() (*Type, error) {
	key, err := ParseRef(td.Name)
	if err != nil {
		return nil, fmt.Errorf("invalid type name %q: %w", td.Name, err)
	}

	t := &Type{
		Key:         key,
		Kind:        Kind(td.Kind),
		Primitive:   td.WireType,
		Format:      td.Format,
		Description: td.Description,
	}

	for _, fd := range td.Fields {
		fieldType, err := ParseRef(fd.Type)
		if err != nil {
			return nil, fmt.Errorf("invalid type for field %s.%s: %w", td.Name, fd.Name, err)
		}
		t.Fields = append(t.Fields, Field{
			Name:        fd.Name,
			Type:        fieldType,
			Required:    fd.Required,
			Description: fd.Description,
		})
	}

	if td.Additional != "" {
		additional, err := ParseRef(td.Additional)
		if err != nil {
			return nil, fmt.Errorf("invalid additionalProperties for %s: %w", td.Name, err)
		}
		t.AdditionalProperties = &additional
	}

	if td.Element != "" {
		element, err := ParseRef(td.Element)
		if err != nil {
			return nil, fmt.Errorf("invalid element type for %s: %w", td.Name, err)
		}
		t.Element = element
	}

	for _, expr := range td.Variants {
		variant, err := ParseRef(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid variant %q for %s: %w", expr, td.Name, err)
		}
		t.Variants = append(t.Variants, variant)
	}

	return t, nil
}

func formatForPath(path string) (DescriptorFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DescriptorJSON, nil
	case ".yaml", ".yml":
		return DescriptorYAML, nil
	default:
		return "", fmt.Errorf("typegraph: unsupported descriptor extension on %q (want .json, .yaml or .yml)", filepath.Base(path))
	}
}

package typegraph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlDescriptor = `
types:
  - name: api.User
    kind: object
    description: A registered user
    fields:
      - name: id
        type: string
        required: true
      - name: email
        type: string
        required: true
      - name: tags
        type: List<string>
  - name: List<string>
    kind: array
    element: string
roots:
  - api.User
`

const jsonDescriptor = `{
  "types": [
    {
      "name": "Pet",
      "kind": "union",
      "variants": ["Cat", "Dog"]
    },
    {
      "name": "Cat",
      "kind": "object",
      "fields": [{"name": "name", "type": "string", "required": true}]
    },
    {
      "name": "Dog",
      "kind": "object",
      "fields": [{"name": "name", "type": "string", "required": true}]
    }
  ],
  "roots": ["Pet"]
}`

func TestParseYAMLDescriptor(t *testing.T) {
	graph, err := Parse([]byte(yamlDescriptor), DescriptorYAML)
	require.NoError(t, err)

	assert.Equal(t, 2, graph.Len())
	require.Len(t, graph.Roots(), 1)
	assert.Equal(t, "api.User", graph.Roots()[0].String())

	user, ok := graph.Resolve(MustParseRef("api.User"))
	require.True(t, ok)
	assert.Equal(t, KindObject, user.Kind)
	require.Len(t, user.Fields, 3)
	assert.Equal(t, "id", user.Fields[0].Name)
	assert.True(t, user.Fields[0].Required)
	assert.Equal(t, "List<string>", user.Fields[2].Type.String())

	list, ok := graph.Resolve(MustParseRef("List<string>"))
	require.True(t, ok)
	assert.Equal(t, KindArray, list.Kind)
	assert.Equal(t, "string", list.Element.String())
}

func TestParseJSONDescriptor(t *testing.T) {
	graph, err := Parse([]byte(jsonDescriptor), DescriptorJSON)
	require.NoError(t, err)

	pet, ok := graph.Resolve(MustParseRef("Pet"))
	require.True(t, ok)
	assert.Equal(t, KindUnion, pet.Kind)
	require.Len(t, pet.Variants, 2)
	assert.Equal(t, "Cat", pet.Variants[0].String())
	assert.Equal(t, "Dog", pet.Variants[1].String())
}

func TestLoadDetectsFormatFromExtension(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "graph.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlDescriptor), 0644))
	jsonPath := filepath.Join(dir, "graph.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(jsonDescriptor), 0644))

	_, err := Load(yamlPath)
	assert.NoError(t, err)
	_, err = Load(jsonPath)
	assert.NoError(t, err)

	otherPath := filepath.Join(dir, "graph.toml")
	require.NoError(t, os.WriteFile(otherPath, []byte(""), 0644))
	_, err = Load(otherPath)
	assert.Error(t, err)
}

func TestDescriptorValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "no roots",
			body: `{"types": [{"name": "A", "kind": "object"}], "roots": []}`,
		},
		{
			name: "undefined root",
			body: `{"types": [{"name": "A", "kind": "object"}], "roots": ["B"]}`,
		},
		{
			name: "duplicate type",
			body: `{"types": [{"name": "A", "kind": "object"}, {"name": "A", "kind": "object"}], "roots": ["A"]}`,
		},
		{
			name: "array without element",
			body: `{"types": [{"name": "A", "kind": "array"}], "roots": ["A"]}`,
		},
		{
			name: "union without variants",
			body: `{"types": [{"name": "A", "kind": "union"}], "roots": ["A"]}`,
		},
		{
			name: "unknown kind",
			body: `{"types": [{"name": "A", "kind": "tuple"}], "roots": ["A"]}`,
		},
		{
			name: "duplicate field",
			body: `{"types": [{"name": "A", "kind": "object", "fields": [{"name": "x", "type": "string"}, {"name": "x", "type": "string"}]}], "roots": ["A"]}`,
		},
		{
			name: "primitive without wire type",
			body: `{"types": [{"name": "A", "kind": "primitive"}], "roots": ["A"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body), DescriptorJSON)
			assert.Error(t, err)
		})
	}
}

func TestBuiltinResolution(t *testing.T) {
	graph := NewGraph()

	for _, name := range []string{"string", "integer", "number", "boolean"} {
		key := TypeKey{Name: name}
		resolved, ok := graph.Resolve(key)
		require.True(t, ok, "builtin %s must resolve implicitly", name)
		assert.Equal(t, KindPrimitive, resolved.Kind)
		assert.Equal(t, name, resolved.Primitive)
		assert.True(t, IsBuiltin(key))
	}

	assert.False(t, IsBuiltin(TypeKey{Name: "Widget"}))
	assert.False(t, IsBuiltin(TypeKey{Namespace: "api", Name: "string"}))
	assert.True(t, IsBuiltin(TypeKey{Name: "string", Nullable: true}))

	_, ok := graph.Resolve(TypeKey{Name: "Widget"})
	assert.False(t, ok)
}

func TestNullableResolvesToInnerType(t *testing.T) {
	graph := NewGraph()
	require.NoError(t, graph.Add(&Type{
		Key:  TypeKey{Name: "Widget"},
		Kind: KindObject,
	}))

	resolved, ok := graph.Resolve(TypeKey{Name: "Widget", Nullable: true})
	require.True(t, ok)
	assert.Equal(t, "Widget", resolved.Key.String())
}

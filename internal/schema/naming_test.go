package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schemadoc-dev/schemadoc/internal/typegraph"
)

func TestDefaultNamingStrategy(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"Widget", "Widget"},
		{"widget", "Widget"},
		{"api.User", "api.User"},
		{"List<string>", "List«String»"},
		{"Map<string,Widget>", "Map«String,Widget»"},
		{"List<Map<string,api.User>>", "List«Map«String,api.User»»"},
		{"List<integer?>", "List«Nullable«Integer»»"},
		{"integer?", "Nullable«Integer»"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			key := typegraph.MustParseRef(tt.expr)
			assert.Equal(t, tt.want, DefaultNamingStrategy(key))
		})
	}
}

func TestDefaultNamingStrategyPreservesArgumentOrder(t *testing.T) {
	ab := DefaultNamingStrategy(typegraph.MustParseRef("Map<Alpha,Beta>"))
	ba := DefaultNamingStrategy(typegraph.MustParseRef("Map<Beta,Alpha>"))

	assert.Equal(t, "Map«Alpha,Beta»", ab)
	assert.Equal(t, "Map«Beta,Alpha»", ba)
	assert.NotEqual(t, ab, ba, "argument order must round-trip, never alphabetize")
}

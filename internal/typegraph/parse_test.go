package typegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want TypeKey
	}{
		{
			name: "plain name",
			expr: "Widget",
			want: TypeKey{Name: "Widget"},
		},
		{
			name: "namespaced name",
			expr: "api.User",
			want: TypeKey{Namespace: "api", Name: "User"},
		},
		{
			name: "deep namespace",
			expr: "api.v2.models.User",
			want: TypeKey{Namespace: "api.v2.models", Name: "User"},
		},
		{
			name: "single generic argument",
			expr: "List<string>",
			want: TypeKey{Name: "List", Args: []TypeKey{{Name: "string"}}},
		},
		{
			name: "multiple generic arguments keep declared order",
			expr: "Map<string,Widget>",
			want: TypeKey{Name: "Map", Args: []TypeKey{{Name: "string"}, {Name: "Widget"}}},
		},
		{
			name: "nested generics",
			expr: "List<Map<string,api.User>>",
			want: TypeKey{Name: "List", Args: []TypeKey{
				{Name: "Map", Args: []TypeKey{{Name: "string"}, {Namespace: "api", Name: "User"}}},
			}},
		},
		{
			name: "nullable",
			expr: "integer?",
			want: TypeKey{Name: "integer", Nullable: true},
		},
		{
			name: "nullable generic argument",
			expr: "List<integer?>",
			want: TypeKey{Name: "List", Args: []TypeKey{{Name: "integer", Nullable: true}}},
		},
		{
			name: "spaces between arguments",
			expr: "Map<string, Widget>",
			want: TypeKey{Name: "Map", Args: []TypeKey{{Name: "string"}, {Name: "Widget"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRef(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRefRoundTrip(t *testing.T) {
	exprs := []string{
		"Widget",
		"api.User",
		"List<string>",
		"Map<string,api.User>",
		"List<Map<string,Widget>>",
		"integer?",
		"List<integer?>",
	}

	for _, expr := range exprs {
		key, err := ParseRef(expr)
		require.NoError(t, err)
		assert.Equal(t, expr, key.String(), "String() must round-trip the reference")
	}
}

func TestParseRefErrors(t *testing.T) {
	exprs := []string{
		"",
		"List<",
		"List<string",
		"List<>",
		"<string>",
		"Widget extra",
		"a..b",
		".Widget",
		"Widget.",
		"Map<string,>",
	}

	for _, expr := range exprs {
		_, err := ParseRef(expr)
		assert.Error(t, err, "expected %q to fail", expr)
	}
}

func TestArgumentOrderIsSignificant(t *testing.T) {
	ab, err := ParseRef("Map<A,B>")
	require.NoError(t, err)
	ba, err := ParseRef("Map<B,A>")
	require.NoError(t, err)

	assert.False(t, ab.Equal(ba), "argument order is semantically meaningful")
}

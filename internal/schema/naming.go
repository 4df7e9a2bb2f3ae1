package schema

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/schemadoc-dev/schemadoc/internal/typegraph"
)

// NamingStrategy produces the pre-collision base name for a type. The
// strategy runs before any collision logic, so a custom strategy can
// eliminate collisions entirely by construction.
type NamingStrategy func(key typegraph.TypeKey) string

// Guillemets delimit generic arguments in default schema ids. They are
// deliberately non-ASCII so they can never collide with characters that
// appear in ordinary type names.
const (
	genericOpen  = "«"
	genericClose = "»"
)

// DefaultNamingStrategy renders "Namespace.TypeName" with generic arguments
// in guillemet notation, e.g. List«String» or Dictionary«String,Widget».
// Argument order is the declared order; it is semantically meaningful and is
// never alphabetized. Value-nullability wrappers render as a Nullable«T»
// argument so they round-trip like any other generic.
func DefaultNamingStrategy(key typegraph.TypeKey) string {
	var sb strings.Builder
	writeBaseName(&sb, key)
	return sb.String()
}

func writeBaseName(sb *strings.Builder, key typegraph.TypeKey) {
	if key.Nullable {
		sb.WriteString("Nullable")
		sb.WriteString(genericOpen)
		writeBaseName(sb, key.WithoutNullable())
		sb.WriteString(genericClose)
		return
	}

	if key.Namespace != "" {
		sb.WriteString(key.Namespace)
		sb.WriteByte('.')
	}
	sb.WriteString(titleCase(key.Name))

	if len(key.Args) > 0 {
		sb.WriteString(genericOpen)
		for i, arg := range key.Args {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeBaseName(sb, arg)
		}
		sb.WriteString(genericClose)
	}
}

// titleCase upper-cases the first rune so wire primitives like "string"
// render as "String" in schema ids
func titleCase(name string) string {
	if name == "" {
		return name
	}
	first, size := utf8.DecodeRuneInString(name)
	upper := unicode.ToUpper(first)
	if upper == first {
		return name
	}
	return string(upper) + name[size:]
}

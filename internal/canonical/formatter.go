package canonical

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Format renders a value tree into a canonical document. It is a pure
// function of its input: no hidden state, no current time, no locale
// dependence. Supported values are nil, bool, string, int, int64, float64,
// []any and map[string]any; anything else is a caller bug.
func Format(value any, syntax Syntax) (*Document, error) {
	var sb strings.Builder

	switch syntax {
	case SyntaxJSON:
		if err := writeJSON(&sb, value, 0); err != nil {
			return nil, err
		}
	case SyntaxYAML:
		if err := writeYAMLRoot(&sb, value); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("canonical: unsupported syntax %q", syntax)
	}

	sb.WriteByte('\n')
	return &Document{bytes: []byte(sb.String()), syntax: syntax}, nil
}

// sortedKeys returns map keys in strict byte-wise order. Go string
// comparison is ordinal, never locale-aware, which is exactly the total
// ordering the canonical form requires.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// normalizeNewlines rewrites CRLF pairs to LF so string content cannot smuggle
// platform line endings into the canonical bytes
func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// formatNumber renders numbers in a fixed, locale-invariant way: integers in
// base 10, floats in shortest round-trip form. NaN and infinities have no
// canonical rendering and are rejected.
func formatNumber(value any) (string, error) {
	switch n := value.(type) {
	case int:
		return strconv.Itoa(n), nil
	case int64:
		return strconv.FormatInt(n, 10), nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return "", fmt.Errorf("canonical: %v has no canonical representation", n)
		}
		return strconv.FormatFloat(n, 'g', -1, 64), nil
	}
	return "", fmt.Errorf("canonical: %T is not a supported number type", value)
}

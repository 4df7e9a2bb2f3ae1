package canonical

import (
	"fmt"
	"strings"
)

const indentUnit = "  "

func writeJSON(sb *strings.Builder, value any, depth int) error {
	switch v := value.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		if v {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case string:
		writeJSONString(sb, v)
	case int, int64, float64:
		rendered, err := formatNumber(v)
		if err != nil {
			return err
		}
		sb.WriteString(rendered)
	case []any:
		return writeJSONArray(sb, v, depth)
	case map[string]any:
		return writeJSONObject(sb, v, depth)
	default:
		return fmt.Errorf("canonical: cannot format value of type %T", value)
	}
	return nil
}

func writeJSONObject(sb *strings.Builder, m map[string]any, depth int) error {
	if len(m) == 0 {
		sb.WriteString("{}")
		return nil
	}

	sb.WriteByte('{')
	for i, key := range sortedKeys(m) {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
		writeIndent(sb, depth+1)
		writeJSONString(sb, key)
		sb.WriteString(": ")
		if err := writeJSON(sb, m[key], depth+1); err != nil {
			return err
		}
	}
	sb.WriteByte('\n')
	writeIndent(sb, depth)
	sb.WriteByte('}')
	return nil
}

func writeJSONArray(sb *strings.Builder, items []any, depth int) error {
	if len(items) == 0 {
		sb.WriteString("[]")
		return nil
	}

	sb.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
		writeIndent(sb, depth+1)
		if err := writeJSON(sb, item, depth+1); err != nil {
			return err
		}
	}
	sb.WriteByte('\n')
	writeIndent(sb, depth)
	sb.WriteByte(']')
	return nil
}

// writeJSONString emits a double-quoted string with minimal escaping: only
// what JSON itself requires. Unicode content passes through unescaped and
// HTML-significant characters are left alone.
func writeJSONString(sb *strings.Builder, s string) {
	s = normalizeNewlines(s)

	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
}

func writeIndent(sb *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		sb.WriteString(indentUnit)
	}
}

package canonical

import (
	"fmt"
	"strings"
)

// The YAML emitter writes plain block style with a fixed quoting policy:
// string values are always double-quoted, keys are quoted only when they
// could be misread as something other than a string. Upstream YAML libraries
// make their own folding and quoting decisions, which is exactly what a
// byte-level canonical contract cannot tolerate, so emission is explicit.

func writeYAMLRoot(sb *strings.Builder, value any) error {
	switch v := value.(type) {
	case map[string]any:
		if len(v) == 0 {
			sb.WriteString("{}")
			return nil
		}
		return writeYAMLMap(sb, v, 0)
	case []any:
		if len(v) == 0 {
			sb.WriteString("[]")
			return nil
		}
		return writeYAMLSeq(sb, v, 0)
	default:
		return writeYAMLScalar(sb, value)
	}
}

func writeYAMLMap(sb *strings.Builder, m map[string]any, depth int) error {
	for i, key := range sortedKeys(m) {
		if i > 0 {
			sb.WriteByte('\n')
		}
		writeIndent(sb, depth)
		writeYAMLKey(sb, key)

		switch child := m[key].(type) {
		case map[string]any:
			if len(child) == 0 {
				sb.WriteString(": {}")
				continue
			}
			sb.WriteString(":\n")
			if err := writeYAMLMap(sb, child, depth+1); err != nil {
				return err
			}
		case []any:
			if len(child) == 0 {
				sb.WriteString(": []")
				continue
			}
			sb.WriteString(":\n")
			if err := writeYAMLSeq(sb, child, depth+1); err != nil {
				return err
			}
		default:
			sb.WriteString(": ")
			if err := writeYAMLScalar(sb, child); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeYAMLSeq(sb *strings.Builder, items []any, depth int) error {
	for i, item := range items {
		if i > 0 {
			sb.WriteByte('\n')
		}
		writeIndent(sb, depth)

		switch child := item.(type) {
		case map[string]any:
			if len(child) == 0 {
				sb.WriteString("- {}")
				continue
			}
			sb.WriteString("-\n")
			if err := writeYAMLMap(sb, child, depth+1); err != nil {
				return err
			}
		case []any:
			if len(child) == 0 {
				sb.WriteString("- []")
				continue
			}
			sb.WriteString("-\n")
			if err := writeYAMLSeq(sb, child, depth+1); err != nil {
				return err
			}
		default:
			sb.WriteString("- ")
			if err := writeYAMLScalar(sb, child); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeYAMLScalar(sb *strings.Builder, value any) error {
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
		writeJSONString(sb, v) // YAML double-quoted style shares JSON escapes
	case int, int64, float64:
		rendered, err := formatNumber(v)
		if err != nil {
			return err
		}
		sb.WriteString(rendered)
	default:
		return fmt.Errorf("canonical: cannot format value of type %T", value)
	}
	return nil
}

// writeYAMLKey emits a map key, quoting it unless it reads unambiguously as
// a plain string
func writeYAMLKey(sb *strings.Builder, key string) {
	if isPlainYAMLKey(key) {
		sb.WriteString(key)
		return
	}
	writeJSONString(sb, key)
}

// isPlainYAMLKey accepts keys that begin with a letter, underscore or dollar
// sign and continue with identifier-ish characters, including the guillemets
// used in generic schema ids. Everything else (numeric-looking keys, paths,
// spaces) is quoted.
func isPlainYAMLKey(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '$':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '.' || r == ',' || r == '«' || r == '»'):
		default:
			return false
		}
	}
	switch key {
	case "true", "false", "null", "yes", "no", "on", "off":
		return false
	}
	return true
}

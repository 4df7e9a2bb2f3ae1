package typegraph

import (
	"fmt"
	"strings"
)

// ParseRef parses a type reference expression into a TypeKey.
//
// Grammar:
//
//	ref      = qualified [ "<" ref { "," ref } ">" ] [ "?" ]
//	qualified = ident { "." ident }
//
// The last dot-separated segment is the type name; everything before it is
// the namespace. A trailing "?" marks a value-nullability wrapper. Generic
// argument order is preserved exactly as written.
func ParseRef(expr string) (TypeKey, error) {
	p := &refParser{input: expr}
	key, err := p.parseRef()
	if err != nil {
		return TypeKey{}, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return TypeKey{}, fmt.Errorf("typegraph: unexpected %q at position %d in type reference %q",
			p.input[p.pos], p.pos, p.input)
	}
	return key, nil
}

// MustParseRef is ParseRef for statically known expressions; it panics on
// malformed input
func MustParseRef(expr string) TypeKey {
	key, err := ParseRef(expr)
	if err != nil {
		panic(err)
	}
	return key
}

type refParser struct {
	input string
	pos   int
}

func (p *refParser) parseRef() (TypeKey, error) {
	p.skipSpaces()
	qualified, err := p.parseQualified()
	if err != nil {
		return TypeKey{}, err
	}

	key := TypeKey{}
	if idx := strings.LastIndexByte(qualified, '.'); idx >= 0 {
		key.Namespace = qualified[:idx]
		key.Name = qualified[idx+1:]
	} else {
		key.Name = qualified
	}

	p.skipSpaces()
	if p.peek() == '<' {
		p.pos++
		for {
			arg, err := p.parseRef()
			if err != nil {
				return TypeKey{}, err
			}
			key.Args = append(key.Args, arg)
			p.skipSpaces()
			switch p.peek() {
			case ',':
				p.pos++
			case '>':
				p.pos++
			default:
				return TypeKey{}, fmt.Errorf("typegraph: unterminated generic argument list in %q", p.input)
			}
			if p.input[p.pos-1] == '>' {
				break
			}
		}
	}

	p.skipSpaces()
	if p.peek() == '?' {
		p.pos++
		key.Nullable = true
	}

	return key, nil
}

func (p *refParser) parseQualified() (string, error) {
	start := p.pos
	for p.pos < len(p.input) && isIdentChar(p.input[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", fmt.Errorf("typegraph: expected type name at position %d in %q", start, p.input)
	}
	name := p.input[start:p.pos]
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") || strings.Contains(name, "..") {
		return "", fmt.Errorf("typegraph: malformed qualified name %q in %q", name, p.input)
	}
	return name, nil
}

func (p *refParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *refParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func isIdentChar(c byte) bool {
	return c == '.' || c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

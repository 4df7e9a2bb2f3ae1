// Package canonical renders value trees into canonical byte sequences. The
// output contract is byte-for-byte reproducibility: the same tree formats to
// the same bytes on every run, machine and locale. Keys follow a total
// byte-wise ordering, numbers use locale-invariant encodings, line endings
// are LF only and the document ends with exactly one newline.
package canonical

// Syntax selects the textual output format
type Syntax string

const (
	SyntaxJSON Syntax = "json"
	SyntaxYAML Syntax = "yaml"
)

// Encoding is the declared character encoding of every canonical document.
// No byte-order mark is ever emitted.
const Encoding = "utf-8"

// Document is a finished canonical byte sequence. Immutable once produced.
type Document struct {
	bytes  []byte
	syntax Syntax
}

// Bytes returns a copy of the canonical byte sequence
func (d *Document) Bytes() []byte {
	out := make([]byte, len(d.bytes))
	copy(out, d.bytes)
	return out
}

// String returns the canonical content as a string
func (d *Document) String() string {
	return string(d.bytes)
}

// Syntax returns the syntax the document was rendered in
func (d *Document) Syntax() Syntax {
	return d.syntax
}

// Len returns the document size in bytes
func (d *Document) Len() int {
	return len(d.bytes)
}

// Package integrity computes and verifies content hashes for canonical
// documents: a full SHA-256 digest, a short cache-validator token, a weak
// HTTP ETag and a subresource-integrity string. Verification fails closed:
// any ambiguity (unknown algorithm, malformed input, digest mismatch) is
// reported as untrusted content, never as a crash.
package integrity

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/schemadoc-dev/schemadoc/internal/diag"
)

// Algorithm is the fixed content hash algorithm identifier
const Algorithm = "sha256"

const (
	// shortTokenLength is the hex-character length of the weak validator
	// token. Weak validators are for cache revalidation, not security
	// decisions, so a 64-bit prefix is plenty.
	shortTokenLength = 16

	// redactLength bounds how much of a digest a diagnostic may reveal
	redactLength = 8
)

// Record is the integrity envelope of one canonical document. It is
// recomputable from content alone, which is what makes later verification
// possible.
type Record struct {
	Algorithm  string `json:"algorithm"`
	Hash       string `json:"hash"`
	ShortToken string `json:"shortToken"`
	ETag       string `json:"etag"`
	Integrity  string `json:"integrity"`
}

// Engine computes and verifies integrity values. All operations are pure
// functions of their input and safe for concurrent use.
type Engine struct {
	reporter *diag.Reporter
}

// NewEngine creates an engine that reports verification failures to the
// given reporter
func NewEngine(reporter *diag.Reporter) *Engine {
	if reporter == nil {
		reporter = diag.NewNopReporter()
	}
	return &Engine{reporter: reporter}
}

// ComputeHash returns the lowercase hex SHA-256 digest of the content with
// line endings normalized, so otherwise identical CRLF and LF content hash
// the same
func (e *Engine) ComputeHash(content []byte) string {
	digest := sha256.Sum256(normalize(content))
	return hex.EncodeToString(digest[:])
}

// ShortToken derives the compact cache-validator token from a full hex hash
func (e *Engine) ShortToken(hash string) string {
	hash = strings.ToLower(hash)
	if len(hash) <= shortTokenLength {
		return hash
	}
	return hash[:shortTokenLength]
}

// ETag formats a hash as a weak HTTP validator, e.g. W/"sha256:49f68a5c8493".
// Weak form is deliberate: two documents with equal canonical bytes are
// semantically identical even if transfer encodings differ.
func (e *Engine) ETag(hash string) string {
	return fmt.Sprintf(`W/"%s:%s"`, Algorithm, e.ShortToken(hash))
}

// IntegrityString formats the content digest for subresource-integrity
// consumers: "<algorithm>-<base64 digest>"
func (e *Engine) IntegrityString(content []byte) string {
	digest := sha256.Sum256(normalize(content))
	return Algorithm + "-" + base64.StdEncoding.EncodeToString(digest[:])
}

// NewRecord computes the full integrity record for a canonical byte sequence
func (e *Engine) NewRecord(content []byte) Record {
	hash := e.ComputeHash(content)
	return Record{
		Algorithm:  Algorithm,
		Hash:       hash,
		ShortToken: e.ShortToken(hash),
		ETag:       e.ETag(hash),
		Integrity:  e.IntegrityString(content),
	}
}

// Verify recomputes the digest of content and compares it against expected,
// which may be a hex digest or an "<algorithm>-<base64>" integrity string.
// The comparison is case-insensitive on hex and constant-structure. On any
// failure (mismatch, malformed expectation, unsupported algorithm) Verify
// returns false and emits exactly one diagnostic; it never panics. The
// diagnostic redacts the resource path and truncates both digests.
func (e *Engine) Verify(content []byte, expected, resourceLabel string) bool {
	actual := e.ComputeHash(content)

	expectedHex, ok := parseExpected(expected)
	if !ok {
		e.reporter.IntegrityMismatch(redactLabel(resourceLabel), redactHash(expected), redactHash(actual))
		return false
	}

	if subtle.ConstantTimeCompare([]byte(expectedHex), []byte(actual)) != 1 {
		e.reporter.IntegrityMismatch(redactLabel(resourceLabel), redactHash(expectedHex), redactHash(actual))
		return false
	}
	return true
}

// parseExpected normalizes an expected value to lowercase hex. It accepts a
// bare hex digest or an integrity string; anything else fails closed.
func parseExpected(expected string) (string, bool) {
	expected = strings.TrimSpace(expected)

	if idx := strings.IndexByte(expected, '-'); idx >= 0 {
		if expected[:idx] != Algorithm {
			return "", false
		}
		digest, err := base64.StdEncoding.DecodeString(expected[idx+1:])
		if err != nil || len(digest) != sha256.Size {
			return "", false
		}
		return hex.EncodeToString(digest), true
	}

	expected = strings.ToLower(expected)
	if len(expected) != hex.EncodedLen(sha256.Size) {
		return "", false
	}
	if _, err := hex.DecodeString(expected); err != nil {
		return "", false
	}
	return expected, true
}

func normalize(content []byte) []byte {
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
}

// redactHash keeps only a short prefix so diagnostics never leak enough of
// both digests to help forge a match
func redactHash(hash string) string {
	hash = strings.ToLower(strings.TrimSpace(hash))
	if len(hash) <= redactLength {
		return hash
	}
	return hash[:redactLength] + "…"
}

// redactLabel strips any directory components from a resource label; full
// paths never reach the log stream
func redactLabel(label string) string {
	if label == "" {
		return "resource"
	}
	return filepath.Base(label)
}

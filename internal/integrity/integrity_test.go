package integrity

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/schemadoc-dev/schemadoc/internal/diag"
)

// Fixed vector: sha256("hello\n")
const helloHash = "5891b5b522d5df086d0ff0b110fbd9d21bb4fc7163af34d08286a2e846f6be03"

func TestComputeHashKnownVector(t *testing.T) {
	engine := NewEngine(nil)
	assert.Equal(t, helloHash, engine.ComputeHash([]byte("hello\n")))
}

func TestComputeHashIsLowercaseHex(t *testing.T) {
	engine := NewEngine(nil)
	hash := engine.ComputeHash([]byte("content"))

	assert.Len(t, hash, 64)
	assert.Equal(t, strings.ToLower(hash), hash)
}

func TestComputeHashNormalizesLineEndings(t *testing.T) {
	engine := NewEngine(nil)

	lf := engine.ComputeHash([]byte("line one\nline two\n"))
	crlf := engine.ComputeHash([]byte("line one\r\nline two\r\n"))
	assert.Equal(t, lf, crlf, "CRLF and LF renditions of the same content hash identically")

	other := engine.ComputeHash([]byte("line one\nline 2\n"))
	assert.NotEqual(t, lf, other)
}

func TestShortTokenAndETag(t *testing.T) {
	engine := NewEngine(nil)

	token := engine.ShortToken(helloHash)
	assert.Equal(t, helloHash[:16], token)
	assert.Equal(t, `W/"sha256:`+token+`"`, engine.ETag(helloHash))

	assert.Equal(t, "abc", engine.ShortToken("ABC"), "tokens are lowercased")
}

func TestIntegrityStringFormat(t *testing.T) {
	engine := NewEngine(nil)
	content := []byte("hello\n")

	sri := engine.IntegrityString(content)
	require.True(t, strings.HasPrefix(sri, "sha256-"))

	digest, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sri, "sha256-"))
	require.NoError(t, err)
	assert.Len(t, digest, sha256.Size)

	want := sha256.Sum256(content)
	assert.Equal(t, want[:], digest)
}

func TestNewRecordIsSelfConsistent(t *testing.T) {
	engine := NewEngine(nil)
	content := []byte("{\n  \"a\": 1\n}\n")

	record := engine.NewRecord(content)
	assert.Equal(t, Algorithm, record.Algorithm)
	assert.Equal(t, engine.ComputeHash(content), record.Hash)
	assert.Equal(t, record.Hash[:16], record.ShortToken)
	assert.Equal(t, `W/"sha256:`+record.ShortToken+`"`, record.ETag)

	assert.True(t, engine.Verify(content, record.Hash, "doc"))
	assert.True(t, engine.Verify(content, record.Integrity, "doc"))
}

func TestVerifyAcceptsUppercaseHex(t *testing.T) {
	engine := NewEngine(nil)
	assert.True(t, engine.Verify([]byte("hello\n"), strings.ToUpper(helloHash), "doc"))
}

func TestVerifyRejectsMismatch(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	engine := NewEngine(diag.NewReporter(zap.New(core)))

	ok := engine.Verify([]byte("hello\r\n"), helloHash, "/srv/docs/openapi.json")
	assert.True(t, ok, "CRLF content still matches after normalization")

	ok = engine.Verify([]byte("tampered\n"), helloHash, "/srv/docs/openapi.json")
	assert.False(t, ok)

	events := logs.FilterField(zap.String("code", string(diag.CodeIntegrityMismatch)))
	require.Equal(t, 1, events.Len(), "exactly one diagnostic per failed verification")
}

func TestVerifyFailsClosedOnMalformedExpectation(t *testing.T) {
	content := []byte("hello\n")

	tests := []struct {
		name     string
		expected string
	}{
		{"empty", ""},
		{"short hex", "abc123"},
		{"non-hex", strings.Repeat("z", 64)},
		{"wrong algorithm", "md5-" + base64.StdEncoding.EncodeToString(make([]byte, 16))},
		{"bad base64", "sha256-!!!not-base64!!!"},
		{"truncated digest", "sha256-" + base64.StdEncoding.EncodeToString([]byte("short"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			engine := NewEngine(diag.NewReporter(zap.New(core)))

			assert.False(t, engine.Verify(content, tt.expected, "doc"))
			assert.Equal(t, 1, logs.Len())
		})
	}
}

func TestVerifyDiagnosticsAreRedacted(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	engine := NewEngine(diag.NewReporter(zap.New(core)))

	actual := engine.ComputeHash([]byte("tampered\n"))
	engine.Verify([]byte("tampered\n"), helloHash, "/home/alice/secret-project/openapi.json")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()

	assert.Equal(t, "openapi.json", fields["resource"], "directory components never reach the log")
	assert.Equal(t, helloHash[:8]+"…", fields["expected_prefix"])
	assert.Equal(t, actual[:8]+"…", fields["actual_prefix"])

	for _, value := range fields {
		s, ok := value.(string)
		if !ok {
			continue
		}
		assert.NotContains(t, s, helloHash, "full digests never reach the log")
		assert.NotContains(t, s, actual)
		assert.NotContains(t, s, "secret-project")
	}
}

func TestVerifyWithoutReporterDoesNotPanic(t *testing.T) {
	engine := NewEngine(nil)
	assert.NotPanics(t, func() {
		engine.Verify([]byte("content"), "garbage", "")
	})
}

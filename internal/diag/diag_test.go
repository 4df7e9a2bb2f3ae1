package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestReportCarriesCodeAndPassID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	reporter := NewReporter(zap.New(core))

	reporter.Report(Event{
		Code:     CodeCollision,
		Severity: SeverityInfo,
		Message:  "hello",
		Context:  map[string]string{"extra": "value"},
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "hello", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, string(CodeCollision), fields["code"])
	assert.Equal(t, reporter.PassID(), fields["pass_id"])
	assert.Equal(t, "value", fields["extra"])
}

func TestSeverityMapsToLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	reporter := NewReporter(zap.New(core))

	reporter.Report(Event{Severity: SeverityInfo, Message: "i"})
	reporter.Report(Event{Severity: SeverityWarning, Message: "w"})
	reporter.Report(Event{Severity: SeverityError, Message: "e"})

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}

func TestCollisionEvent(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	reporter := NewReporter(zap.New(core))

	reporter.Collision("b.Widget", "Widget_dup1")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, string(CodeCollision), fields["code"])
	assert.Equal(t, "b.Widget", fields["type"])
	assert.Equal(t, "Widget_dup1", fields["schema_id"])
}

func TestDepthExceededEvent(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	reporter := NewReporter(zap.New(core))

	reporter.DepthExceeded("api.Tree", 32)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, string(CodeDepthExceeded), fields["code"])
	assert.Equal(t, "api.Tree", fields["type"])
	assert.Equal(t, "32", fields["max_depth"])
}

func TestIntegrityMismatchEvent(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	reporter := NewReporter(zap.New(core))

	reporter.IntegrityMismatch("openapi.json", "5891b5b5…", "a1b2c3d4…")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, "openapi.json", fields["resource"])
	assert.Equal(t, "5891b5b5…", fields["expected_prefix"])
	assert.Equal(t, "a1b2c3d4…", fields["actual_prefix"])
}

func TestReportersGetDistinctPassIDs(t *testing.T) {
	first := NewReporter(zap.NewNop())
	second := NewReporter(zap.NewNop())

	assert.NotEmpty(t, first.PassID())
	assert.NotEqual(t, first.PassID(), second.PassID())
}

func TestNilLoggerDoesNotPanic(t *testing.T) {
	reporter := NewReporter(nil)
	assert.NotPanics(t, func() {
		reporter.Collision("a", "b")
	})
	assert.NotPanics(t, func() {
		NewNopReporter().DepthExceeded("x", 1)
	})
}

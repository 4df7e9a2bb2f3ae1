// Package diag provides structured diagnostics for the document generation
// pipeline. Components never write to a console or file directly; they emit
// events through a Reporter and the embedding application decides where the
// events go.
package diag

import (
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Code identifies a diagnostic event category
type Code string

const (
	// CodeCollision is emitted when two distinct types produce the same base name
	CodeCollision Code = "naming_collision"

	// CodeDepthExceeded is emitted when the walker stops descending at the
	// configured depth boundary
	CodeDepthExceeded Code = "depth_exceeded"

	// CodeIntegrityMismatch is emitted when content fails integrity verification
	CodeIntegrityMismatch Code = "integrity_mismatch"
)

// Severity classifies how serious an event is
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event is a single structured diagnostic
type Event struct {
	// Code is the event category
	Code Code

	// Severity classifies the event
	Severity Severity

	// Message is a human-readable summary
	Message string

	// Context holds additional structured fields
	Context map[string]string
}

// Reporter delivers diagnostic events to a structured logger.
// The zero value is not usable; use NewReporter or NewNopReporter.
type Reporter struct {
	logger *zap.Logger
	passID string
}

// NewReporter creates a reporter backed by the given logger. Each reporter is
// scoped to one generation pass and tags every event with a fresh pass id so
// concurrent passes can be told apart in shared logs.
func NewReporter(logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{
		logger: logger,
		passID: uuid.NewString(),
	}
}

// NewNopReporter creates a reporter that discards all events
func NewNopReporter() *Reporter {
	return NewReporter(zap.NewNop())
}

// PassID returns the generation pass identifier attached to every event
func (r *Reporter) PassID() string {
	return r.passID
}

// Report emits a single diagnostic event
func (r *Reporter) Report(event Event) {
	fields := make([]zap.Field, 0, len(event.Context)+2)
	fields = append(fields,
		zap.String("code", string(event.Code)),
		zap.String("pass_id", r.passID),
	)
	for key, value := range event.Context {
		fields = append(fields, zap.String(key, value))
	}

	r.logger.Log(levelFor(event.Severity), event.Message, fields...)
}

// Collision reports a deterministic naming collision and the suffixed
// identifier chosen to resolve it
func (r *Reporter) Collision(typeKey, chosenID string) {
	r.Report(Event{
		Code:     CodeCollision,
		Severity: SeverityWarning,
		Message:  "schema name collision resolved with suffix",
		Context: map[string]string{
			"type":      typeKey,
			"schema_id": chosenID,
		},
	})
}

// DepthExceeded reports that the walker substituted a placeholder at a depth
// boundary. Callers emit this once per boundary crossing, not once per node.
func (r *Reporter) DepthExceeded(typeKey string, maxDepth int) {
	r.Report(Event{
		Code:     CodeDepthExceeded,
		Severity: SeverityWarning,
		Message:  "maximum schema depth exceeded, emitting placeholder",
		Context: map[string]string{
			"type":      typeKey,
			"max_depth": strconv.Itoa(maxDepth),
		},
	})
}

// IntegrityMismatch reports a failed verification. Hash values must already be
// redacted to short prefixes by the caller; this method never sees full digests.
func (r *Reporter) IntegrityMismatch(label, expectedPrefix, actualPrefix string) {
	r.Report(Event{
		Code:     CodeIntegrityMismatch,
		Severity: SeverityError,
		Message:  "content failed integrity verification",
		Context: map[string]string{
			"resource":        label,
			"expected_prefix": expectedPrefix,
			"actual_prefix":   actualPrefix,
		},
	})
}

func levelFor(severity Severity) zapcore.Level {
	switch severity {
	case SeverityError:
		return zapcore.ErrorLevel
	case SeverityWarning:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

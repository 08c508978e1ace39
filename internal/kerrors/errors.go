// Package kerrors implements the error taxonomy of the extraction engine.
//
// Design pattern: factory functions per kind, matching the teacher
// worker's internal/errors package, extended from its six codes to the
// full taxonomy the pipeline needs.
package kerrors

import (
	"fmt"
	"time"
)

// Kind is the structured error classification surfaced to callers.
type Kind string

const (
	Validation        Kind = "Validation"
	UnsupportedFormat Kind = "UnsupportedFormat"
	Parsing           Kind = "Parsing"
	Io                Kind = "Io"
	Ocr               Kind = "Ocr"
	Plugin            Kind = "Plugin"
	LockPoisoned      Kind = "LockPoisoned"
	Cache             Kind = "Cache"
	ImageProcessing   Kind = "ImageProcessing"
	Serialization     Kind = "Serialization"
	MissingDependency Kind = "MissingDependency"
	Other             Kind = "Other"
)

// Error is the single error type produced anywhere in the pipeline. It
// carries a Kind tag (§7), an optional plugin name (for Plugin-kind
// errors), and wraps an optional underlying cause.
type Error struct {
	Kind       Kind
	Message    string
	PluginName string
	Timestamp  time.Time
	Details    map[string]interface{}
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ToMap renders the error for structured logging or cache/job-status
// persistence.
func (e *Error) ToMap() map[string]interface{} {
	result := map[string]interface{}{
		"kind":      string(e.Kind),
		"message":   e.Message,
		"timestamp": e.Timestamp,
	}
	if e.PluginName != "" {
		result["plugin_name"] = e.PluginName
	}
	for k, v := range e.Details {
		result[k] = v
	}
	if e.Cause != nil {
		result["cause"] = e.Cause.Error()
	}
	return result
}

func newErr(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Timestamp: time.Now(), Cause: cause}
}

// NewValidationError reports bad input, config, or an invariant violation.
func NewValidationError(message string, cause error) *Error {
	return newErr(Validation, message, cause)
}

// NewUnsupportedFormatError reports a MIME tag outside the registry.
func NewUnsupportedFormatError(mimeType string) *Error {
	e := newErr(UnsupportedFormat, fmt.Sprintf("unsupported format: %s", mimeType), nil)
	e.Details = map[string]interface{}{"mime_type": mimeType}
	return e
}

// NewParsingError reports a format decoder failing on structurally bad bytes.
func NewParsingError(format string, cause error) *Error {
	e := newErr(Parsing, fmt.Sprintf("failed to parse %s content", format), cause)
	e.Details = map[string]interface{}{"format": format}
	return e
}

// NewIoError reports a filesystem or stream failure.
func NewIoError(message string, cause error) *Error {
	return newErr(Io, message, cause)
}

// NewOcrError reports an OCR backend init or inference failure.
func NewOcrError(backend string, cause error) *Error {
	e := newErr(Ocr, fmt.Sprintf("OCR backend %q failed", backend), cause)
	e.Details = map[string]interface{}{"backend": backend}
	return e
}

// NewPluginError reports a user-plugin lifecycle or callback failure.
func NewPluginError(pluginName, message string, cause error) *Error {
	e := newErr(Plugin, message, cause)
	e.PluginName = pluginName
	return e
}

// NewLockPoisonedError reports an internal mutex observed in a broken
// state. This should not happen in correct code; it exists for
// defensive coding only.
func NewLockPoisonedError(resource string) *Error {
	e := newErr(LockPoisoned, fmt.Sprintf("lock poisoned: %s", resource), nil)
	e.Details = map[string]interface{}{"resource": resource}
	return e
}

// NewCacheError reports a non-fatal cache I/O failure. Callers must
// never surface this as the extraction's terminal error — only as a
// processing_warning.
func NewCacheError(message string, cause error) *Error {
	return newErr(Cache, message, cause)
}

// NewImageProcessingError reports a decode/OCR preprocessing failure.
func NewImageProcessingError(message string, cause error) *Error {
	return newErr(ImageProcessing, message, cause)
}

// NewSerializationError reports a JSON/TOML/YAML encode/decode failure.
func NewSerializationError(format string, cause error) *Error {
	e := newErr(Serialization, fmt.Sprintf("failed to (de)serialize %s", format), cause)
	e.Details = map[string]interface{}{"format": format}
	return e
}

// NewMissingDependencyError reports a required optional backend that is
// not present at runtime.
func NewMissingDependencyError(dependency string) *Error {
	e := newErr(MissingDependency, fmt.Sprintf("missing required dependency: %s", dependency), nil)
	e.Details = map[string]interface{}{"dependency": dependency}
	return e
}

// NewOtherError wraps an unclassified failure.
func NewOtherError(message string, cause error) *Error {
	return newErr(Other, message, cause)
}

// KindOf extracts the Kind of err if it is (or wraps) an *Error, or
// Other otherwise.
func KindOf(err error) Kind {
	var e *Error
	if asError(err, &e) {
		return e.Kind
	}
	return Other
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

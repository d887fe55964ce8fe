package utils

import (
	"errors"
	"fmt"
)

// FailureKind identifies which stage of the pipeline rejected a request.
// Callers map these onto user-facing guidance, so the five kinds are part
// of the public contract.
type FailureKind string

const (
	// FailureInvalidSource means the URL matched no supported pattern and a
	// direct fetch produced nothing usable.
	FailureInvalidSource FailureKind = "invalid_source"
	// FailureAuthRequired means the fetched content was a sign-in page: the
	// document exists but is not publicly shared.
	FailureAuthRequired FailureKind = "auth_required"
	// FailureEmptyPayload means every fetch candidate returned zero usable bytes.
	FailureEmptyPayload FailureKind = "empty_payload"
	// FailureParseError means the bytes are not a readable spreadsheet or CSV container.
	FailureParseError FailureKind = "parse_error"
	// FailureNoData means the document parsed but every sheet was empty or
	// lacked a usable numeric column.
	FailureNoData FailureKind = "no_data"
)

// PipelineError is a typed failure raised by the resolver or parser.
// Resolver/parser failures are fatal for the whole request; downstream
// components degrade per sheet instead of returning one of these.
type PipelineError struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError creates a PipelineError with a specific kind and message.
func NewPipelineError(kind FailureKind, message string) error {
	return &PipelineError{Kind: kind, Message: message}
}

// NewPipelineErrorf creates a PipelineError with a formatted message.
func NewPipelineErrorf(kind FailureKind, format string, args ...interface{}) error {
	return &PipelineError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapPipelineError creates a PipelineError wrapping an underlying cause.
func WrapPipelineError(kind FailureKind, message string, err error) error {
	return &PipelineError{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the failure kind from an error chain. The second return
// is false for errors that did not originate in the pipeline.
func KindOf(err error) (FailureKind, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}

// Guidance returns the actionable message shown to callers for a failure kind.
func Guidance(kind FailureKind) string {
	switch kind {
	case FailureInvalidSource:
		return "the link is not a supported spreadsheet source; paste a sharing link or upload the file directly"
	case FailureAuthRequired:
		return "the document is not publicly shared; enable link sharing and try again"
	case FailureEmptyPayload:
		return "the source returned an empty or corrupt payload; re-export the document and try again"
	case FailureParseError:
		return "the file is not a readable spreadsheet or CSV"
	case FailureNoData:
		return "the spreadsheet has no rows with usable numeric data"
	default:
		return "the request could not be processed"
	}
}

package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineError_Error(t *testing.T) {
	err := NewPipelineError(FailureAuthRequired, "sign-in page returned")
	assert.Equal(t, "auth_required: sign-in page returned", err.Error())
}

func TestPipelineError_ErrorWithCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapPipelineError(FailureInvalidSource, "direct fetch failed", cause)
	assert.Contains(t, err.Error(), "invalid_source")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestNewPipelineErrorf(t *testing.T) {
	err := NewPipelineErrorf(FailureParseError, "unrecognized container %q", "foo.bin")
	assert.Contains(t, err.Error(), `unrecognized container "foo.bin"`)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind FailureKind
		wantOK   bool
	}{
		{"direct", NewPipelineError(FailureNoData, "all sheets empty"), FailureNoData, true},
		{"wrapped", fmt.Errorf("request failed: %w", NewPipelineError(FailureEmptyPayload, "zero bytes")), FailureEmptyPayload, true},
		{"foreign", errors.New("boom"), "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := KindOf(tt.err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}

func TestGuidance_DistinguishesKinds(t *testing.T) {
	kinds := []FailureKind{
		FailureInvalidSource,
		FailureAuthRequired,
		FailureEmptyPayload,
		FailureParseError,
		FailureNoData,
	}

	seen := make(map[string]FailureKind)
	for _, kind := range kinds {
		msg := Guidance(kind)
		assert.NotEmpty(t, msg)
		prev, dup := seen[msg]
		assert.False(t, dup, "guidance for %s duplicates %s", kind, prev)
		seen[msg] = kind
	}
}

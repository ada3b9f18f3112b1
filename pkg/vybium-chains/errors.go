package vybiumchains

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/vybium/vybium-chains/internal/vybium-chains/core"
	"github.com/vybium/vybium-chains/internal/vybium-chains/engine"
	"github.com/vybium/vybium-chains/internal/vybium-chains/report"
	"github.com/vybium/vybium-chains/internal/vybium-chains/storage"
)

// ErrorCode classifies a ChainError
type ErrorCode int

const (
	// ErrUnknown represents an unclassified error
	ErrUnknown ErrorCode = iota

	// ErrInvalidConfig represents an invalid configuration
	ErrInvalidConfig

	// ErrConstruction represents a node that cannot be built from its parents
	ErrConstruction

	// ErrMergePrefix represents two chains that do not share the unit
	ErrMergePrefix

	// ErrStructure represents a malformed chain or chain history
	ErrStructure

	// ErrStorage represents a failure of the run store
	ErrStorage

	// ErrInvalidInput represents bad user input
	ErrInvalidInput

	// ErrCanceled represents a search stopped by its context or timeout
	ErrCanceled
)

var codeNames = map[ErrorCode]string{
	ErrUnknown:       "unknown",
	ErrInvalidConfig: "invalid config",
	ErrConstruction:  "construction",
	ErrMergePrefix:   "merge prefix",
	ErrStructure:     "structure",
	ErrStorage:       "storage",
	ErrInvalidInput:  "invalid input",
	ErrCanceled:      "canceled",
}

// String returns the name of the code
func (c ErrorCode) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// ChainError is the error type returned by this package
type ChainError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns the error message
func (e *ChainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vybium-chains %s error: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("vybium-chains %s error: %s", e.Code, e.Message)
}

// Unwrap returns the cause of the error
func (e *ChainError) Unwrap() error {
	return e.Cause
}

// Is matches any ChainError with the same code
func (e *ChainError) Is(target error) bool {
	t, ok := target.(*ChainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// codeOf maps errors of the internal packages onto error codes.
func codeOf(err error) ErrorCode {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCanceled
	case errors.Is(err, core.ErrPrefixMismatch):
		return ErrMergePrefix
	case errors.Is(err, core.ErrInvalidParent), errors.Is(err, core.ErrInvalidShift):
		return ErrConstruction
	case errors.Is(err, core.ErrMalformedChain), errors.Is(err, engine.ErrMalformedHistory):
		return ErrStructure
	case errors.Is(err, report.ErrIncomplete):
		return ErrInvalidInput
	case errors.Is(err, storage.ErrNotFound):
		return ErrStorage
	}
	return ErrUnknown
}

func wrap(code ErrorCode, msg string, err error) error {
	if err == nil {
		return nil
	}
	var ce *ChainError
	if errors.As(err, &ce) {
		return err
	}
	if c := codeOf(err); c == ErrCanceled || code == ErrUnknown {
		code = c
	}
	return &ChainError{Code: code, Message: msg, Cause: err}
}

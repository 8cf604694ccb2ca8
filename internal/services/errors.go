package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrConstraint = errors.New("constraint violation")
	ErrBacking    = errors.New("backing service error")
)

// Failure names the taxonomy class of a failed entity operation. The zero
// value means the operation succeeded.
type Failure string

const (
	FailureNone       Failure = ""
	FailureValidation Failure = "validation"
	FailureNotFound   Failure = "not_found"
	FailureConflict   Failure = "conflict"
	FailureConstraint Failure = "constraint"
	FailureBacking    Failure = "backing_service"
)

// Wrap builds an error message that includes entity context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, entityType, operation, message string, err error) error {
	detail := buildDetail(entityType, operation, message)
	if marker == nil {
		marker = ErrBacking
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an error chain onto the failure taxonomy. Errors carrying no
// recognized marker classify as backing-service failures so callers always
// receive a structured result rather than an unhandled fault.
func Classify(err error) Failure {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrValidation):
		return FailureValidation
	case errors.Is(err, ErrNotFound):
		return FailureNotFound
	case errors.Is(err, ErrConflict):
		return FailureConflict
	case errors.Is(err, ErrConstraint):
		return FailureConstraint
	default:
		return FailureBacking
	}
}

func buildDetail(entityType, operation, message string) string {
	parts := make([]string, 0, 3)
	if entityType = strings.TrimSpace(entityType); entityType != "" {
		parts = append(parts, entityType)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "store failure"
	}
	return strings.Join(parts, ": ")
}

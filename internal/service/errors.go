package service

import (
	"errors"
	"fmt"
)

// Validation rule names, reported to clients in the error payload
const (
	RuleMissingFields      = "missing_required_fields"
	RuleInvalidEventType   = "invalid_event_type"
	RuleConfidenceRange    = "confidence_out_of_range"
	RuleInvalidTimestamp   = "invalid_timestamp"
	RuleInvalidCount       = "invalid_count"
	RuleUnknownWorker      = "unknown_worker"
	RuleUnknownWorkstation = "unknown_workstation"
)

var (
	ErrMissingFields        = errors.New("missing required fields")
	ErrInvalidEventType     = errors.New("invalid event type")
	ErrConfidenceOutOfRange = errors.New("confidence out of range")
)

// ValidationError rejected input; nothing was written
type ValidationError struct {
	Rule    string
	Message string
	err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

func newValidationError(rule string, sentinel error, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
		err:     sentinel,
	}
}

// AsValidationError unwraps err into a *ValidationError when it is one
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"claimsight/internal/claims"
)

// FailureType classifies why a stage failed.
type FailureType string

const (
	FailureEmptyDataset FailureType = "empty_dataset"
	FailureTimeout      FailureType = "timeout"
	FailureCancelled    FailureType = "cancelled"
	FailureExecution    FailureType = "execution"
	FailurePanic        FailureType = "panic"
	FailureAggregation  FailureType = "aggregation"
)

// StageError records why a single analysis stage failed. Failures are
// isolated to their stage: they land in the report's errors map and
// never abort sibling stages.
type StageError struct {
	Type    FailureType `json:"type"`
	Stage   string      `json:"stage"`
	Message string      `json:"message"`
	Cause   error       `json:"-"`
}

// Error implements the error interface.
func (e *StageError) Error() string {
	if e == nil {
		return "unknown stage error"
	}
	if e.Stage != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Stage, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause.
func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// classifyStageError wraps err with the stage name and a failure type
// derived from its cause chain.
func classifyStageError(stage string, err error) *StageError {
	switch {
	case errors.Is(err, claims.ErrNoData):
		return &StageError{Type: FailureEmptyDataset, Stage: stage, Message: claims.ErrNoData.Error(), Cause: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &StageError{Type: FailureTimeout, Stage: stage, Message: "stage exceeded its timeout", Cause: err}
	case errors.Is(err, context.Canceled):
		return &StageError{Type: FailureCancelled, Stage: stage, Message: "pipeline cancelled before stage completed", Cause: err}
	default:
		return &StageError{Type: FailureExecution, Stage: stage, Message: err.Error(), Cause: err}
	}
}

// newPanicError turns a recovered panic value into a stage failure.
func newPanicError(stage string, recovered any) *StageError {
	return &StageError{
		Type:    FailurePanic,
		Stage:   stage,
		Message: fmt.Sprintf("stage panicked: %v", recovered),
	}
}

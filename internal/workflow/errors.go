package workflow

import (
	"errors"
	"fmt"
)

// Workflow step names used to tag errors.
const (
	StepCreate  = "create"
	StepUpload  = "upload"
	StepFetch   = "fetch"
	StepEdit    = "edit"
	StepUpdate  = "update"
	StepPublish = "publish"
	StepVersion = "version"
)

// StepError identifies which workflow step failed, so callers can
// report precisely and decide what is safe to re-run.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("workflow step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FailedStep returns the step name tagged on err, or "" when err is not
// a step error.
func FailedStep(err error) string {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Step
	}
	return ""
}

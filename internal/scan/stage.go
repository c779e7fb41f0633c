// Package scan runs the two extraction flows end to end: the uploaded-document
// flow (Files + Responses API) and the local-text invoice flow (chat API).
package scan

import (
	"errors"
	"fmt"
)

// Stage names the step of a scan that failed.
type Stage string

const (
	StageRead       Stage = "read"       // local file access and text extraction
	StageUpload     Stage = "upload"     // Files API upload
	StageCompletion Stage = "completion" // the model call
	StageExtract    Stage = "extract"    // locating/validating JSON in the reply
)

// StageError attributes an error to the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf returns the stage recorded in err, or "" when there is none.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

func stageErr(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}

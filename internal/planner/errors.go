package planner

import "errors"

// Pipeline failure classes. Callers match them with errors.Is.
var (
	ErrInvalidRequest   = errors.New("invalid trip request")
	ErrGenerationFailed = errors.New("trip generation failed")
	ErrMalformedOutput  = errors.New("malformed model output")
	ErrSaveFailed       = errors.New("trip generated but not saved")
)

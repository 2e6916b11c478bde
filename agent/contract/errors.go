package contract

import "errors"

var (
	ErrRemote          = errors.New("remote provider call failed")
	ErrGeneration      = errors.New("model generation failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrValidation      = errors.New("validation failed")
	ErrNoActiveSession = errors.New("no active analysis session")
	ErrNotAnalyzable   = errors.New("reference is not an analyzable repository")
)

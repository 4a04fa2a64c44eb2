package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrMissingField  = errors.New("field not found in dataset")
	ErrTypeMismatch  = errors.New("field is not a string field")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrModelNotFound = errors.New("model not found")
)

package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrStratification  = errors.New("stratified split infeasible")
	ErrCorruptArtifact = errors.New("corrupt artifact")
	ErrNotFound        = errors.New("not found")
	ErrInvalidConfig   = errors.New("invalid configuration")

	// ErrNotFitted is returned when a component is used before fit or load.
	// It matches ErrInvalidInput under errors.Is.
	ErrNotFitted = fmt.Errorf("%w: not fitted", ErrInvalidInput)
)

package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing records.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidStatus signals a status outside the lifecycle vocabulary.
	ErrInvalidStatus = errors.New("invalid status")
)

package domain

import "errors"

var (
	// ErrPoliticianNotFound is returned when a politician is not in the store
	ErrPoliticianNotFound = errors.New("politician not found")

	// ErrMalformedRecord is returned when a source record cannot be parsed
	// into the canonical shape. It is always recovered at record scope.
	ErrMalformedRecord = errors.New("malformed source record")

	// ErrDatasetUnavailable is returned when a dataset package exists in the
	// catalog but its archive resource cannot be located
	ErrDatasetUnavailable = errors.New("dataset archive unavailable")

	// ErrStageOrder is returned when a stage is run before its prerequisites
	ErrStageOrder = errors.New("stage prerequisites not satisfied")
)

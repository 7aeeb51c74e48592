package domain

import "errors"

var (
	// ErrFieldRequired indicates a draft field was left empty.
	ErrFieldRequired = errors.New("field is required")

	// ErrAuthoringClosed indicates a draft operation while the authoring surface is closed.
	ErrAuthoringClosed = errors.New("authoring surface is closed")
)

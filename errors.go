package cubeview

import "errors"

// Sentinel errors for the cubeview package.
var (
	// Parsing errors
	ErrInvalidNotation = errors.New("cubeview: invalid move notation")
)

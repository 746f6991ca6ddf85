package synthesizer

import "errors"

var (
	// ErrInvalidShape is returned before synthesis starts for a dimension <= 0
	// or for operands whose inner dimensions disagree.
	ErrInvalidShape = errors.New("invalid shape")
	// ErrMalformedTemplate is returned by adaptation when the prior program
	// cannot be reshaped without producing an inconsistent core set.
	ErrMalformedTemplate = errors.New("malformed template")
)

package isa

import "errors"

var (
	// ErrMalformedProgram is returned by the parser for text that does not
	// follow the assembly grammar.
	ErrMalformedProgram = errors.New("malformed program")
	// ErrInvalidProgram is returned by Validate for a stream that breaks the
	// PROG / EXE / END ordering contract.
	ErrInvalidProgram = errors.New("invalid program")
	// ErrOutOfRange is returned by Encode when a field does not fit its bits.
	ErrOutOfRange = errors.New("field out of range")
)

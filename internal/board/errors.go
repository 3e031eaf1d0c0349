package board

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPlacement = errors.New("invalid piece placement")
	ErrInvalidLayout    = errors.New("invalid layout")
	ErrSquareOutOfRange = errors.New("square out of range")
	ErrEmptySource      = errors.New("no piece on source square")
	ErrInvalidMove      = errors.New("invalid move")
)

// ParseError reports why a board import was rejected.
type ParseError struct {
	Input  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %s (input %q)", e.Err, e.Reason, e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

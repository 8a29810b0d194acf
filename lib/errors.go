package lib

import (
	"errors"
	"fmt"
)

// ErrInvalidExpression is returned by Evaluate for every failure. The cause
// is wrapped underneath it.
var ErrInvalidExpression = errors.New("invalid expression")

var (
	ErrEmptyExpression   = errors.New("empty expression")
	ErrUnexpectedToken   = errors.New("unexpected token")
	ErrNotEnoughOperands = errors.New("not enough operands")
	ErrLeftoverOperands  = errors.New("leftover operands")
	ErrNonFiniteResult   = errors.New("result is not a finite number")
)

// NumericParseError means a run of digits and decimal points could not be
// read as a number, e.g. "1.2.3".
type NumericParseError struct {
	Text     string
	Position int
	Err      error
}

func (e *NumericParseError) Error() string {
	return fmt.Sprintf("Error at col %d: cannot parse number %q", e.Position, e.Text)
}

func (e *NumericParseError) Unwrap() error {
	return e.Err
}

func invalid(cause error) error {
	return fmt.Errorf("%w: %w", ErrInvalidExpression, cause)
}

package lib

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Evaluate computes the value of an arithmetic expression made of decimal
// numbers, the operators + - * / and parentheses. Whitespace is not skipped;
// callers strip it first (see StripWhitespace).
//
// On failure the returned value is NaN and the error wraps
// ErrInvalidExpression together with the specific cause. Division by zero and
// any other non-finite outcome is a failure too.
func Evaluate(expr string) (float64, error) {
	infix := newTokenBuffer()
	if err := lex(expr, infix.Write); err != nil {
		return math.NaN(), invalid(err)
	}

	postfix, err := toPostfix(infix)
	if err != nil {
		return math.NaN(), invalid(err)
	}

	result, err := evalPostfix(postfix)
	if err != nil {
		return math.NaN(), invalid(err)
	}

	if math.IsInf(result, 0) || math.IsNaN(result) {
		return math.NaN(), invalid(ErrNonFiniteResult)
	}

	return result, nil
}

func evalPostfix(reader tokenReader) (float64, error) {
	values := stack[float64]{}

	for {
		tok, done := reader.Next()
		if done {
			break
		}

		switch tok.tokType {
		case tokenTypeNumber:
			values.push(tok.number)
		case tokenTypePlus, tokenTypeMinus, tokenTypeAsterisk, tokenTypeSlash:
			if values.size() < 2 {
				return math.NaN(), fmt.Errorf("%w for %s at col %d", ErrNotEnoughOperands, tok.tokType, tok.location+1)
			}
			right, _ := values.pop()
			left, _ := values.pop()
			values.push(apply(tok.tokType, left, right))
		case tokenTypeLParen, tokenTypeRParen, tokenTypeError:
			return math.NaN(), fmt.Errorf("%w %q at col %d", ErrUnexpectedToken, tok.String(), tok.location+1)
		default:
			return math.NaN(), fmt.Errorf("%w %s", ErrUnexpectedToken, tok.tokType)
		}
	}

	switch values.size() {
	case 0:
		return math.NaN(), ErrEmptyExpression
	case 1:
		v, _ := values.pop()
		return v, nil
	default:
		return math.NaN(), fmt.Errorf("%w: %d values left", ErrLeftoverOperands, values.size())
	}
}

func apply(op tokenType, left, right float64) float64 {
	switch op {
	case tokenTypePlus:
		return left + right
	case tokenTypeMinus:
		return left - right
	case tokenTypeAsterisk:
		return left * right
	case tokenTypeSlash:
		return left / right
	}
	return math.NaN()
}

// FormatResult renders v in the shortest form that reads back to the same
// value: 8 rather than 8.0, 0.1 rather than 0.1000000000000000055.
func FormatResult(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// StripWhitespace removes every whitespace character from expr.
func StripWhitespace(expr string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, expr)
}

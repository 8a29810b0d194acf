package lib

import "fmt"

type tokenType int

const (
	tokenTypeNumber tokenType = iota
	tokenTypePlus
	tokenTypeMinus
	tokenTypeAsterisk
	tokenTypeSlash
	tokenTypeLParen
	tokenTypeRParen
	tokenTypeError
)

func (t tokenType) String() string {
	switch t {
	case tokenTypeNumber:
		return "number"
	case tokenTypePlus:
		return "+"
	case tokenTypeMinus:
		return "-"
	case tokenTypeAsterisk:
		return "*"
	case tokenTypeSlash:
		return "/"
	case tokenTypeLParen:
		return "("
	case tokenTypeRParen:
		return ")"
	case tokenTypeError:
		return "error"
	}
	return fmt.Sprintf("tokenType(%d)", int(t))
}

// token is one classified unit of an expression. number is only set for
// tokenTypeNumber and ch only for tokenTypeError.
type token struct {
	tokType  tokenType
	number   float64
	ch       rune
	location int
}

func (t token) isOperator() bool {
	switch t.tokType {
	case tokenTypePlus, tokenTypeMinus, tokenTypeAsterisk, tokenTypeSlash:
		return true
	}
	return false
}

func (t token) String() string {
	switch t.tokType {
	case tokenTypeNumber:
		return FormatResult(t.number)
	case tokenTypeError:
		return string(t.ch)
	}
	return t.tokType.String()
}

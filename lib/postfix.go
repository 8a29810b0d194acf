package lib

import "fmt"

// toPostfix reorders infix tokens into postfix order with the shunting-yard
// algorithm. Unbalanced parentheses are not an error here: a stray ")" empties
// the operator stack and a stray "(" is flushed to the output, where
// evalPostfix rejects it.
func toPostfix(reader tokenReader) (*tokenBuffer, error) {
	output := newTokenBuffer()
	operators := stack[token]{}

	for {
		tok, done := reader.Next()
		if done {
			break
		}

		switch tok.tokType {
		case tokenTypeNumber, tokenTypeError:
			output.Write(tok)
		case tokenTypePlus, tokenTypeMinus, tokenTypeAsterisk, tokenTypeSlash:
			for {
				top, ok := operators.peek()
				if !ok || !top.isOperator() || !popsBefore(top, tok) {
					break
				}
				operators.pop()
				output.Write(top)
			}
			operators.push(tok)
		case tokenTypeLParen:
			operators.push(tok)
		case tokenTypeRParen:
			for {
				top, ok := operators.pop()
				if !ok || top.tokType == tokenTypeLParen {
					break
				}
				output.Write(top)
			}
		default:
			return nil, fmt.Errorf("%w %s at col %d", ErrUnexpectedToken, tok.tokType, tok.location+1)
		}
	}

	for {
		top, ok := operators.pop()
		if !ok {
			break
		}
		output.Write(top)
	}

	return output, nil
}

// popsBefore reports whether the stacked operator top must be output before
// incoming is pushed. Multiplicative operators always go first. Additive
// operators go first unless the incoming operator is the other additive one,
// so "1-2+3" groups as 1-(2+3) and "3+4*2" as (3+4)*2.
func popsBefore(top, incoming token) bool {
	switch top.tokType {
	case tokenTypeAsterisk, tokenTypeSlash:
		return true
	case tokenTypePlus:
		return incoming.tokType != tokenTypeMinus
	case tokenTypeMinus:
		return incoming.tokType != tokenTypePlus
	}
	return false
}

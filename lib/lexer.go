package lib

import (
	"strconv"
)

func lex(expr string, emit func(token)) error {
	l := newLexer(expr, emit)
	return l.scan()
}

type lexer struct {
	expr             []rune
	length           int
	currentCharIndex int
	numberStartIndex int
	numberEndIndex   int
	emitCallback     func(token)
}

func newLexer(expr string, emit func(token)) *lexer {
	runes := []rune(expr)
	return &lexer{
		expr:             runes,
		length:           len(runes),
		currentCharIndex: 0,
		numberStartIndex: -1,
		numberEndIndex:   -1,
		emitCallback:     emit,
	}
}

func (l *lexer) advance() (rune, bool) {
	if l.currentCharIndex >= l.length {
		return 0, false
	}
	ch := l.expr[l.currentCharIndex]
	l.currentCharIndex++
	return ch, true
}

func (l *lexer) scan() error {
	for {
		more, err := l.next()
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}
	return nil
}

func (l *lexer) next() (bool, error) {
	ch, ok := l.advance()
	if !ok {
		return false, l.endNumber()
	}

	if isDigit(ch) || ch == '.' {
		if l.numberStartIndex < 0 {
			l.numberStartIndex = l.currentCharIndex - 1
		}
		l.numberEndIndex = l.currentCharIndex
		return true, nil
	}

	if err := l.endNumber(); err != nil {
		return false, err
	}

	location := l.currentCharIndex - 1
	switch ch {
	case '+':
		l.emitCallback(token{tokType: tokenTypePlus, location: location})
	case '-':
		l.emitCallback(token{tokType: tokenTypeMinus, location: location})
	case '*':
		l.emitCallback(token{tokType: tokenTypeAsterisk, location: location})
	case '/':
		l.emitCallback(token{tokType: tokenTypeSlash, location: location})
	case '(':
		l.emitCallback(token{tokType: tokenTypeLParen, location: location})
	case ')':
		l.emitCallback(token{tokType: tokenTypeRParen, location: location})
	default:
		// not ours, but keep it so later stages can reject the expression
		l.emitCallback(token{tokType: tokenTypeError, ch: ch, location: location})
	}

	return true, nil
}

// endNumber flushes the pending digit run, if any, as a number token.
func (l *lexer) endNumber() error {
	if l.numberStartIndex < 0 {
		return nil
	}
	start, end := l.numberStartIndex, l.numberEndIndex
	l.numberStartIndex, l.numberEndIndex = -1, -1

	text := string(l.expr[start:end])
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return &NumericParseError{Text: text, Position: start + 1, Err: err}
	}
	l.emitCallback(token{tokType: tokenTypeNumber, number: value, location: start})
	return nil
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

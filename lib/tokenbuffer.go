package lib

// tokenBuffer hands tokens from one pipeline stage to the next. Everything
// runs on the caller's goroutine so writes always precede reads.
type tokenBuffer struct {
	tokens []token
	pos    int
}

func newTokenBuffer() *tokenBuffer {
	return &tokenBuffer{
		tokens: []token{},
		pos:    0,
	}
}

func (tb *tokenBuffer) Next() (tok token, done bool) {
	tok, done = tb.Peek()
	if !done {
		tb.pos++
	}
	return tok, done
}

func (tb *tokenBuffer) Peek() (token, bool) {
	if tb.pos >= len(tb.tokens) {
		return token{}, true
	}
	return tb.tokens[tb.pos], false
}

func (tb *tokenBuffer) Write(tok token) {
	tb.tokens = append(tb.tokens, tok)
}

func (tb *tokenBuffer) Len() int {
	return len(tb.tokens)
}

// Tokens returns everything written so far regardless of read position.
func (tb *tokenBuffer) Tokens() []token {
	out := make([]token, len(tb.tokens))
	copy(out, tb.tokens)
	return out
}

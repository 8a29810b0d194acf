package lib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// A test helper function that just aggregates tokens into a slice for easier
// assertions.
func getTokens(expr string) ([]token, error) {
	tokens := []token{}
	err := lex(expr, func(t token) {
		tokens = append(tokens, t)
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func requireTok(t *testing.T, actual token, typ tokenType, location int) {
	require.Equal(t, typ, actual.tokType, "token type")
	require.Equal(t, location, actual.location, "token location")
}

func requireNumber(t *testing.T, actual token, value float64, location int) {
	requireTok(t, actual, tokenTypeNumber, location)
	require.Equal(t, value, actual.number, "token value")
}

func TestLexerEmpty(t *testing.T) {
	tokens, err := getTokens("")
	require.NoError(t, err)
	require.Len(t, tokens, 0)
}

func TestLexerOneNumber(t *testing.T) {
	tokens, err := getTokens("42")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	requireNumber(t, tokens[0], 42, 0)
}

func TestLexerDecimal(t *testing.T) {
	tokens, err := getTokens("3.25")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	requireNumber(t, tokens[0], 3.25, 0)
}

func TestLexerLeadingAndTrailingDecimalPoint(t *testing.T) {
	tokens, err := getTokens(".5+5.")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	requireNumber(t, tokens[0], 0.5, 0)
	requireTok(t, tokens[1], tokenTypePlus, 2)
	requireNumber(t, tokens[2], 5, 3)
}

func TestLexerAllOperators(t *testing.T) {
	tokens, err := getTokens("(1+2)-3*4/5")
	require.NoError(t, err)
	require.Len(t, tokens, 11)
	requireTok(t, tokens[0], tokenTypeLParen, 0)
	requireNumber(t, tokens[1], 1, 1)
	requireTok(t, tokens[2], tokenTypePlus, 2)
	requireNumber(t, tokens[3], 2, 3)
	requireTok(t, tokens[4], tokenTypeRParen, 4)
	requireTok(t, tokens[5], tokenTypeMinus, 5)
	requireNumber(t, tokens[6], 3, 6)
	requireTok(t, tokens[7], tokenTypeAsterisk, 7)
	requireNumber(t, tokens[8], 4, 8)
	requireTok(t, tokens[9], tokenTypeSlash, 9)
	requireNumber(t, tokens[10], 5, 10)
}

func TestLexerUnknownCharactersAreKept(t *testing.T) {
	tokens, err := getTokens("1x2")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	requireNumber(t, tokens[0], 1, 0)
	requireTok(t, tokens[1], tokenTypeError, 1)
	require.Equal(t, 'x', tokens[1].ch)
	requireNumber(t, tokens[2], 2, 2)
}

func TestLexerEveryCharacterAccountedFor(t *testing.T) {
	tokens, err := getTokens("ab c")
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	require.Equal(t, 'a', tokens[0].ch)
	require.Equal(t, 'b', tokens[1].ch)
	require.Equal(t, ' ', tokens[2].ch)
	require.Equal(t, 'c', tokens[3].ch)
}

func TestLexerNonASCII(t *testing.T) {
	tokens, err := getTokens("2×3")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	requireTok(t, tokens[1], tokenTypeError, 1)
	require.Equal(t, '×', tokens[1].ch)
	requireNumber(t, tokens[2], 3, 2)
}

func TestLexerMultipleDecimals(t *testing.T) {
	_, err := getTokens("1+1.2.3")
	require.Error(t, err)

	var parseErr *NumericParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "1.2.3", parseErr.Text)
	require.Equal(t, 3, parseErr.Position)
}

func TestLexerLoneDecimalPoint(t *testing.T) {
	_, err := getTokens(".")
	var parseErr *NumericParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, ".", parseErr.Text)
}

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeParens(t *testing.T) {
	toks, err := Tokenize("()")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, OpenParen, toks[0].Type)
	assert.Equal(t, CloseParen, toks[1].Type)
}

func TestTokenizeIdentifier(t *testing.T) {
	toks, err := Tokenize("$foo")
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, Identifier, toks[0].Type)
	assert.Equal(t, "$foo", toks[0].Value)
}

func TestTokenizeString(t *testing.T) {
	toks, err := Tokenize(`"hello\n"`)
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, String, toks[0].Type)
	assert.Equal(t, `"hello\n"`, toks[0].Value)
}

func TestTokenizeUnterminatedStringErrors(t *testing.T) {
	_, err := Tokenize(`"hello`)
	assert.Error(t, err)
}

func TestTokenizeBlockComment(t *testing.T) {
	toks, err := Tokenize("(; comment ;) (module)")
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, Comment, toks[0].Type)
	assert.Equal(t, Keyword, toks[2].Type)
}

func TestTokenizeNestedBlockComment(t *testing.T) {
	toks, err := Tokenize("(; outer (; inner ;) still-outer ;)")
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, Comment, toks[0].Type)
}

func TestTokenizeLineComment(t *testing.T) {
	toks, err := Tokenize(";; hi\n(module)")
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, Comment, toks[0].Type)
}

func TestTokenizeKeywordAndValtype(t *testing.T) {
	toks, err := Tokenize("(module (func (param i32)))")
	require.NoError(t, err)
	var kinds []Type
	for _, tok := range toks {
		kinds = append(kinds, tok.Type)
	}
	assert.Equal(t, []Type{OpenParen, Keyword, OpenParen, Keyword, OpenParen, Keyword, Valtype, CloseParen, CloseParen, CloseParen}, kinds)
}

func TestTokenizeDottedInstructionSplitsIntoThree(t *testing.T) {
	toks, err := Tokenize("i32.add")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, Valtype, toks[0].Type)
	assert.Equal(t, "i32", toks[0].Value)
	assert.Equal(t, Dot, toks[1].Type)
	assert.Equal(t, Name, toks[2].Type)
	assert.Equal(t, "add", toks[2].Value)
}

func TestTokenizeNumberLiterals(t *testing.T) {
	for _, raw := range []string{"42", "-17", "3.14", "0xff", "-0x10", "inf", "-inf", "nan", "nan:0x1"} {
		toks, err := Tokenize(raw)
		require.NoError(t, err, raw)
		require.Len(t, toks, 1, raw)
		assert.Equal(t, Number, toks[0].Type, raw)
	}
}

func TestTokenizeEqual(t *testing.T) {
	toks, err := Tokenize("offset=4")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, Keyword, toks[0].Type)
	assert.Equal(t, Equal, toks[1].Type)
	assert.Equal(t, Number, toks[2].Type)
}

func TestTokenizeTracksLineAndColumn(t *testing.T) {
	toks, err := Tokenize("(\n  $x)")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, 2, toks[1].Loc.Start.Line)
	assert.Equal(t, 3, toks[1].Loc.Start.Col)
}

func TestIsKeywordAndIsValtype(t *testing.T) {
	assert.True(t, IsKeyword("module"))
	assert.False(t, IsKeyword("i32"))
	assert.True(t, IsValtype("f64"))
	assert.False(t, IsValtype("module"))
}

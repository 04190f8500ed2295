package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeBasicForm(t *testing.T) {
	toks := Tokenize("<test>", `(+ 1 "two" three)`)
	require.Len(t, toks, 6)
	assert.Equal(t, TokLParen, toks[0].Kind)
	assert.Equal(t, TokAtom, toks[1].Kind)
	assert.Equal(t, "+", toks[1].Text)
	assert.Equal(t, TokAtom, toks[2].Kind)
	assert.Equal(t, TokString, toks[3].Kind)
	assert.Equal(t, "two", toks[3].Text)
	assert.Equal(t, TokAtom, toks[4].Kind)
	assert.Equal(t, TokRParen, toks[5].Kind)
}

func TestTokenizeQuoteFamily(t *testing.T) {
	toks := Tokenize("<test>", "'a `b ,c")
	require.Len(t, toks, 6)
	assert.Equal(t, TokQuote, toks[0].Kind)
	assert.Equal(t, TokQuasiquote, toks[2].Kind)
	assert.Equal(t, TokUnquote, toks[4].Kind)
}

func TestTokenizeSkipsComments(t *testing.T) {
	toks := Tokenize("<test>", "1 ; a comment\n2")
	require.Len(t, toks, 2)
	assert.Equal(t, "1", toks[0].Text)
	assert.Equal(t, "2", toks[1].Text)
	assert.Equal(t, 2, toks[1].Loc.Row)
}

func TestTokenizeLocations(t *testing.T) {
	toks := Tokenize("f.scm", "(a\n  b)")
	require.Len(t, toks, 4)
	assert.Equal(t, Loc{"f.scm", 1, 1, 1}, toks[0].Loc)
	assert.Equal(t, Loc{"f.scm", 2, 3, 1}, toks[2].Loc)
}

func TestTokenizeUnterminatedStringPanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		le, ok := r.(*LispError)
		require.True(t, ok)
		assert.Equal(t, SyntaxError, le.Kind)
	}()
	Tokenize("<test>", `"unterminated`)
}

func TestParseAllProducesMultipleForms(t *testing.T) {
	p := NewPool()
	forms := ParseAll(Tokenize("<test>", "1 2 (+ 1 2)"), p)
	require.Len(t, forms, 3)
	assert.Equal(t, "1", String(forms[0], p))
	assert.Equal(t, "2", String(forms[1], p))
	assert.Equal(t, "(+ 1 2)", String(forms[2], p))
}

func TestParseDottedPair(t *testing.T) {
	p := NewPool()
	forms := ParseAll(Tokenize("<test>", "(1 . 2)"), p)
	require.Len(t, forms, 1)
	assert.Equal(t, "(1 . 2)", String(forms[0], p))
}

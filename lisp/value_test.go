package lisp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumberEdgeCases(t *testing.T) {
	assert.Equal(t, "0", formatNumber(0))
	assert.Equal(t, "-3", formatNumber(-3))
	assert.Equal(t, "3.14", formatNumber(3.14))
	assert.Equal(t, "+inf.0", formatNumber(math.Inf(1)))
	assert.Equal(t, "-inf.0", formatNumber(math.Inf(-1)))
	assert.Equal(t, "+nan.0", formatNumber(math.NaN()))
}

func TestEscapeStringQuotesAndEscapes(t *testing.T) {
	assert.Equal(t, `"hi"`, escapeString("hi"))
	assert.Equal(t, `"a\"b"`, escapeString(`a"b`))
	assert.Equal(t, `"a\\b"`, escapeString(`a\b`))
	assert.Equal(t, `"a\nb"`, escapeString("a\nb"))
}

func TestValueIsAtom(t *testing.T) {
	assert.True(t, vNil().IsAtom())
	assert.True(t, vNumber(1).IsAtom())
	assert.True(t, vSymbol("x").IsAtom())
	assert.False(t, vPair(0, 0).IsAtom())
}

func TestValueAsNumberAndSymbolName(t *testing.T) {
	n, ok := vNumber(4).AsNumber()
	assert.True(t, ok)
	assert.Equal(t, float64(4), n)

	_, ok = vString("x").AsNumber()
	assert.False(t, ok)

	name, ok := vSymbol("foo").AsSymbolName()
	assert.True(t, ok)
	assert.Equal(t, "foo", name)
}

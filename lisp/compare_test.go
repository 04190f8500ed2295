package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualStructural(t *testing.T) {
	p := NewPool()
	a := NewList([]Handle{p.NewValue(vNumber(1)), p.NewValue(vNumber(2))}, p)
	b := NewList([]Handle{p.NewValue(vNumber(1)), p.NewValue(vNumber(2))}, p)
	assert.True(t, Equal(a, b, p))
	assert.False(t, Identical(a, b, p))
}

func TestIdenticalAtomsByValue(t *testing.T) {
	p := NewPool()
	a := p.NewValue(vNumber(7))
	b := p.NewValue(vNumber(7))
	assert.True(t, Identical(a, b, p))
}

func TestTruthyOnlyFalseIsFalsy(t *testing.T) {
	p := NewPool()
	assert.False(t, Truthy(p.NewValue(vBool(false)), p))
	assert.True(t, Truthy(p.NewValue(vBool(true)), p))
	assert.True(t, Truthy(p.NewValue(vNumber(0)), p))
	assert.True(t, Truthy(p.NewValue(vString("")), p))
	assert.True(t, Truthy(NilHandle, p))
}

func TestPrinterFormatsNumbersWithoutTrailingZero(t *testing.T) {
	p := NewPool()
	assert.Equal(t, "3", String(p.NewValue(vNumber(3.0)), p))
	assert.Equal(t, "3.5", String(p.NewValue(vNumber(3.5)), p))
	assert.Equal(t, "()", String(NilHandle, p))
}

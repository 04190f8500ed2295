package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolNewValueReusesFreedSlots(t *testing.T) {
	p := NewPool()
	h1 := p.NewValue(vNumber(1))
	h2 := p.NewValue(vNumber(2))
	assert.NotEqual(t, h1, h2)
	assert.Equal(t, float64(1), p.Get(h1).Num)

	// Neither value is bound anywhere, so GC frees both slots and the
	// next allocation takes the lowest of them.
	p.GC()
	h3 := p.NewValue(vNumber(3))
	assert.Equal(t, h1, h3)
}

func TestGCCollectsUnreachableValues(t *testing.T) {
	p := NewPool()
	before := len(p.values)
	// Nothing reachable from the root environment points at this
	// value once it's allocated, so GC must reclaim it.
	p.NewValue(vString("garbage"))
	collectedValues, _ := p.GC()
	assert.Greater(t, collectedValues, 0)
	assert.Equal(t, before+1, len(p.values)) // arena size never shrinks, only frees slots
}

func TestGCKeepsReachableBindings(t *testing.T) {
	p := NewPool()
	en := p.RootEnv()
	evalString(t, p, `(define kept "alive")`)
	p.GC()
	h := en.Lookup("kept", Loc{})
	assert.Equal(t, `"alive"`, String(h, p))
}

func TestGCKeepsClosureCapturedEnv(t *testing.T) {
	p := NewPool()
	evalString(t, p, "(define (make-adder n) (lambda (x) (+ x n)))")
	evalString(t, p, "(define add5 (make-adder 5))")
	p.GC()
	assert.Equal(t, "15", String(evalString(t, p, "(add5 10)"), p))
	assert.Equal(t, "17", String(evalString(t, p, "(add5 12)"), p))
}

func TestRootEnvIsNeverCollected(t *testing.T) {
	p := NewPool()
	p.GC()
	assert.NotNil(t, p.Env(p.Root()))
}

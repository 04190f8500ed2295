package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCondAndBegin(t *testing.T) {
	p := NewPool()
	assert.Equal(t, `"b"`, String(evalString(t, p, `(cond (#f "a") (#t "b") (else "c"))`), p))
	assert.Equal(t, `"c"`, String(evalString(t, p, `(cond (#f "a") (#f "b") (else "c"))`), p))
	assert.Equal(t, "3", String(evalString(t, p, "(begin 1 2 3)"), p))
}

func TestAndOrShortCircuit(t *testing.T) {
	p := NewPool()
	assert.Equal(t, "#t", String(evalString(t, p, "(and)"), p))
	assert.Equal(t, "#f", String(evalString(t, p, "(or)"), p))
	assert.Equal(t, "#f", String(evalString(t, p, "(and 1 #f 3)"), p))
	assert.Equal(t, "3", String(evalString(t, p, "(and 1 2 3)"), p))
	assert.Equal(t, "1", String(evalString(t, p, "(or 1 2)"), p))
}

func TestDefineFunctionShorthand(t *testing.T) {
	p := NewPool()
	evalString(t, p, "(define (square x) (* x x))")
	assert.Equal(t, "49", String(evalString(t, p, "(square 7)"), p))
}

func TestLambdaWrongArity(t *testing.T) {
	p := NewPool()
	evalString(t, p, "(define (two-args a b) a)")
	defer func() {
		r := recover()
		require.NotNil(t, r)
		le, ok := r.(*LispError)
		require.True(t, ok)
		assert.Equal(t, ValueError, le.Kind)
	}()
	evalString(t, p, "(two-args 1)")
}

func TestEvalSpecialForm(t *testing.T) {
	p := NewPool()
	assert.Equal(t, "3", String(evalString(t, p, "(eval (quote (+ 1 2)))"), p))
}

func TestQuasiquoteDottedTail(t *testing.T) {
	p := NewPool()
	evalString(t, p, "(define y 2)")
	assert.Equal(t, "(1 2 . 3)", String(evalString(t, p, "`(1 ,y . 3)"), p))
}

func TestQuasiquoteDoesNotEvaluateNestedUnquote(t *testing.T) {
	p := NewPool()
	evalString(t, p, "(define c 5)")
	assert.Equal(t, "(a (b (unquote c)))", String(evalString(t, p, "`(a (b ,c))"), p))
}

func TestRequireDetectsCycle(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeModuleFile(dir, "a.scm", `(require "b")`))
	require.NoError(t, writeModuleFile(dir, "b.scm", `(require "a")`))

	p := NewPool()
	p.SearchPath = []string{dir}
	defer func() {
		r := recover()
		require.NotNil(t, r)
		le, ok := r.(*LispError)
		require.True(t, ok)
		assert.Equal(t, ValueError, le.Kind)
		assert.Contains(t, le.Msg, "Circular dependency")
	}()
	evalString(t, p, `(require "a")`)
}

func TestRequireLoadsSourceModule(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeModuleFile(dir, "greet.scm", `(define greeting "hello")`))

	p := NewPool()
	p.SearchPath = []string{dir}
	evalString(t, p, `(require "greet")`)
	assert.Equal(t, `"hello"`, String(evalString(t, p, "greeting"), p))
}

func TestRequireMissingModule(t *testing.T) {
	p := NewPool()
	p.SearchPath = []string{t.TempDir()}
	defer func() {
		r := recover()
		require.NotNil(t, r)
		le, ok := r.(*LispError)
		require.True(t, ok)
		assert.Equal(t, ValueError, le.Kind)
		assert.Contains(t, le.Msg, "not found")
	}()
	evalString(t, p, `(require "does-not-exist")`)
}

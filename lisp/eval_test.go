package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evalString tokenizes, parses and evaluates every top-level form in src
// against p's root environment, returning the last result.
func evalString(t *testing.T, p *Pool, src string) Handle {
	t.Helper()
	tokens := Tokenize("<test>", src)
	forms := ParseAll(tokens, p)
	require.NotEmpty(t, forms)
	var last Handle
	for _, f := range forms {
		last = Eval(f, p.RootEnv())
	}
	return last
}

func TestEvalSelfEvaluating(t *testing.T) {
	p := NewPool()
	assert.Equal(t, "42", String(evalString(t, p, "42"), p))
	assert.Equal(t, `"hi"`, String(evalString(t, p, `"hi"`), p))
	assert.Equal(t, "#t", String(evalString(t, p, "#t"), p))
}

func TestEvalArithmetic(t *testing.T) {
	p := NewPool()
	assert.Equal(t, "6", String(evalString(t, p, "(+ 1 2 3)"), p))
	assert.Equal(t, "-1", String(evalString(t, p, "(- 1 2)"), p))
	assert.Equal(t, "-5", String(evalString(t, p, "(- 5)"), p))
}

func TestEvalDefineAndLookup(t *testing.T) {
	p := NewPool()
	evalString(t, p, "(define x 10)")
	assert.Equal(t, "10", String(evalString(t, p, "x"), p))
}

func TestEvalUndefinedVariable(t *testing.T) {
	p := NewPool()
	defer func() {
		r := recover()
		require.NotNil(t, r)
		le, ok := r.(*LispError)
		require.True(t, ok)
		assert.Equal(t, ValueError, le.Kind)
	}()
	evalString(t, p, "undefined-name")
}

func TestEvalIfAndShadowedHead(t *testing.T) {
	p := NewPool()
	assert.Equal(t, "1", String(evalString(t, p, "(if #t 1 2)"), p))
	assert.Equal(t, "2", String(evalString(t, p, "(if #f 1 2)"), p))

	// (define if +) must never shadow the `if` special form: the head
	// is a raw symbol, so the form registry wins unconditionally.
	evalString(t, p, "(define if +)")
	assert.Equal(t, "1", String(evalString(t, p, "(if #t 1 2)"), p))

	// a *computed* head, however, dispatches through whatever it
	// evaluates to, including the now-rebound `if`.
	assert.Equal(t, "3", String(evalString(t, p, "((if #t if +) 1 2)"), p))
}

func TestEvalLambdaClosureAndRecursion(t *testing.T) {
	p := NewPool()
	evalString(t, p, "(define (fact n) (if (= n 0) 1 (* n (fact (- n 1)))))")
	assert.Equal(t, "120", String(evalString(t, p, "(fact 5)"), p))

	evalString(t, p, "(define (make-adder n) (lambda (x) (+ x n)))")
	evalString(t, p, "(define add5 (make-adder 5))")
	assert.Equal(t, "15", String(evalString(t, p, "(add5 10)"), p))
}

func TestEvalTailCallDoesNotGrowHostStack(t *testing.T) {
	p := NewPool()
	evalString(t, p, "(define (loop n acc) (if (= n 0) acc (loop (- n 1) (+ acc 1))))")
	assert.Equal(t, "100000", String(evalString(t, p, "(loop 100000 0)"), p))
}

func TestEvalLetIsNonRecursive(t *testing.T) {
	p := NewPool()
	evalString(t, p, "(define x 1)")
	assert.Equal(t, "2", String(evalString(t, p, "(let ((x 2)) x)"), p))
	assert.Equal(t, "1", String(evalString(t, p, "x"), p))
	// y's initializer sees the outer x, not the co-binding x = 2.
	assert.Equal(t, "1", String(evalString(t, p, "(let ((x 2) (y x)) y)"), p))
}

func TestEvalQuoteAndQuasiquote(t *testing.T) {
	p := NewPool()
	assert.Equal(t, "(a b c)", String(evalString(t, p, "(quote (a b c))"), p))
	assert.Equal(t, "(a b c)", String(evalString(t, p, "'(a b c)"), p))
	evalString(t, p, "(define y 5)")
	assert.Equal(t, "(1 5 3)", String(evalString(t, p, "`(1 ,y 3)"), p))
}

func TestEvalImproperListIsAnError(t *testing.T) {
	p := NewPool()
	defer func() {
		r := recover()
		require.NotNil(t, r)
		le, ok := r.(*LispError)
		require.True(t, ok)
		assert.Equal(t, ValueError, le.Kind)
	}()
	list := p.NewValue(vPair(p.NewValue(vNumber(1)), p.NewValue(vNumber(2))))
	Eval(list, p.RootEnv())
}

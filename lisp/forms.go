/*
Copyright (C) 2023  Carl-Philip Hänsch
Copyright (C) 2013  Pieter Kelchtermans (originally licensed unter WTFPL 2.0)

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package lisp

// SpecialForm receives the raw, unevaluated operand sequence and the
// environment the combination appears in. The evaluator
// checks this registry before ever treating the head as a variable.
type SpecialForm func(operands []Handle, en *Env) Handle

var specialForms = map[string]SpecialForm{
	"define":     defineForm,
	"quote":      quoteForm,
	"if":         ifForm,
	"and":        andForm,
	"or":         orForm,
	"lambda":     lambdaForm,
	"eval":       evalForm,
	"cond":       condForm,
	"begin":      beginForm,
	"let":        letForm,
	"quasiquote": quasiquoteForm,
	"require":    requireForm,
}

func defineForm(ops []Handle, en *Env) Handle {
	p := en.pool
	if len(ops) < 2 {
		throw(ValueError, span(valuesOf(ops, p)), "define: expected (define sym expr) or (define (name params...) body...)")
	}
	target := p.Get(ops[0])
	if target.Tag == TagSymbol {
		// (define sym expr)
		value := Eval(ops[1], en)
		en.AddVariable(target.Str, value)
		return p.NewValue(vNil())
	}
	if target.Tag == TagPair {
		// (define (fname p1 ... pn) body...) == (define fname (lambda (p1...pn) body...))
		items, tail := ToVector(ops[0], p)
		if p.Get(tail).Tag != TagNil || len(items) == 0 {
			throw(ValueError, target.Loc, "define: malformed function header")
		}
		nameVal := p.Get(items[0])
		if nameVal.Tag != TagSymbol {
			throw(ValueError, nameVal.Loc, "define: function name must be a symbol")
		}
		lambdaVal := makeLambda(items[1:], ops[1:], en)
		en.AddVariable(nameVal.Str, lambdaVal)
		return p.NewValue(vNil())
	}
	throw(ValueError, target.Loc, "define: expected a symbol or a function header in variable position")
	return 0
}

func quoteForm(ops []Handle, en *Env) Handle {
	if len(ops) != 1 {
		throw(ValueError, span(valuesOf(ops, en.pool)), "quote: expected exactly one operand")
	}
	return ops[0]
}

func ifForm(ops []Handle, en *Env) Handle {
	if len(ops) != 3 {
		throw(ValueError, span(valuesOf(ops, en.pool)), "if: expected exactly three operands")
	}
	if Truthy(Eval(ops[0], en), en.pool) {
		return Eval(ops[1], en)
	}
	return Eval(ops[2], en)
}

func andForm(ops []Handle, en *Env) Handle {
	p := en.pool
	if len(ops) == 0 {
		return p.NewValue(vBool(true))
	}
	var result Handle
	for _, op := range ops {
		result = Eval(op, en)
		if !Truthy(result, p) {
			return p.NewValue(vBool(false))
		}
	}
	return result
}

func orForm(ops []Handle, en *Env) Handle {
	p := en.pool
	for _, op := range ops {
		result := Eval(op, en)
		if Truthy(result, p) {
			return result
		}
	}
	return p.NewValue(vBool(false))
}

func lambdaForm(ops []Handle, en *Env) Handle {
	if len(ops) < 2 {
		throw(ValueError, span(valuesOf(ops, en.pool)), "lambda: expected (lambda (params...) body...)")
	}
	return makeLambda(nil, ops, en)
}

// makeLambda builds a lambda value. If paramItems is non-nil it is
// used directly (the define-shorthand path, which has already split
// the parameter list out of the header); otherwise ops[0] is the
// parameter list and ops[1:] the body, as in a bare (lambda ...) form.
func makeLambda(paramItems []Handle, ops []Handle, en *Env) Handle {
	p := en.pool
	var params []Handle
	var body []Handle
	if paramItems != nil {
		params = paramItems
		body = ops
	} else {
		items, tail := ToVector(ops[0], p)
		if p.Get(tail).Tag != TagNil {
			throw(ValueError, p.Get(ops[0]).Loc, "lambda: parameter list must be a proper list")
		}
		params = items
		body = ops[1:]
	}
	if len(body) == 0 {
		throw(ValueError, span(valuesOf(ops, p)), "lambda: body must be a non-empty sequence of expressions")
	}
	names := make([]string, len(params))
	for i, ph := range params {
		pv := p.Get(ph)
		if pv.Tag != TagSymbol {
			throw(ValueError, pv.Loc, "lambda: parameters must be symbols")
		}
		names[i] = pv.Str
	}
	return p.NewValue(vLambda(&Lambda{Params: names, Body: append([]Handle(nil), body...), Env: en.Self()}))
}

func evalForm(ops []Handle, en *Env) Handle {
	if len(ops) != 1 {
		throw(ValueError, span(valuesOf(ops, en.pool)), "eval: expected exactly one operand")
	}
	once := Eval(ops[0], en)
	return Eval(once, en)
}

func condForm(ops []Handle, en *Env) Handle {
	p := en.pool
	for _, clauseH := range ops {
		items, tail := ToVector(clauseH, p)
		if p.Get(tail).Tag != TagNil || len(items) == 0 {
			throw(ValueError, p.Get(clauseH).Loc, "cond: malformed clause")
		}
		testH := items[0]
		testVal := p.Get(testH)
		isElse := testVal.Tag == TagSymbol && testVal.Str == "else"
		var result Handle
		var matched bool
		if isElse {
			matched = true
		} else {
			result = Eval(testH, en)
			matched = Truthy(result, p)
		}
		if matched {
			body := items[1:]
			if len(body) == 0 {
				if isElse {
					return p.NewValue(vNil())
				}
				return result
			}
			var last Handle
			for _, b := range body {
				last = Eval(b, en)
			}
			return last
		}
	}
	return p.NewValue(vNil())
}

func beginForm(ops []Handle, en *Env) Handle {
	p := en.pool
	if len(ops) == 0 {
		return p.NewValue(vNil())
	}
	var last Handle
	for _, op := range ops {
		last = Eval(op, en)
	}
	return last
}

func letForm(ops []Handle, en *Env) Handle {
	p := en.pool
	if len(ops) < 1 {
		throw(ValueError, span(valuesOf(ops, p)), "let: expected ((name expr)...) body...")
	}
	bindingsHandle := ops[0]
	bindings, tail := ToVector(bindingsHandle, p)
	if p.Get(tail).Tag != TagNil {
		throw(ValueError, p.Get(bindingsHandle).Loc, "let: binding list must be proper")
	}
	names := make([]string, len(bindings))
	values := make([]Handle, len(bindings))
	for i, bh := range bindings {
		items, btail := ToVector(bh, p)
		if p.Get(btail).Tag != TagNil || len(items) != 2 {
			throw(ValueError, p.Get(bh).Loc, "let: each binding must be (name expr)")
		}
		nameVal := p.Get(items[0])
		if nameVal.Tag != TagSymbol {
			throw(ValueError, nameVal.Loc, "let: binding name must be a symbol")
		}
		names[i] = nameVal.Str
		values[i] = Eval(items[1], en) // evaluated in the enclosing env, non-recursive scoping
	}
	child := en.child()
	for i, name := range names {
		child.Vars[name] = values[i]
	}
	body := ops[1:]
	if len(body) == 0 {
		return p.NewValue(vNil())
	}
	var last Handle
	for _, b := range body {
		last = Eval(b, child)
	}
	return last
}

func quasiquoteForm(ops []Handle, en *Env) Handle {
	if len(ops) != 1 {
		throw(ValueError, span(valuesOf(ops, en.pool)), "quasiquote: expected exactly one operand")
	}
	return quasiExpand(ops[0], en)
}

// quasiExpand walks h's top-level elements only: an element of the
// literal form (unquote x) is replaced by env.eval(x); every other
// element, including one containing a nested unquote deeper inside a
// sublist, is kept verbatim. Quasiquote does not recurse into sublists.
func quasiExpand(h Handle, en *Env) Handle {
	p := en.pool
	if unquoted, ok := unquoteOperand(h, p); ok {
		return Eval(unquoted, en)
	}
	v := p.Get(h)
	if v.Tag != TagPair {
		return h
	}
	items, tail := ToVector(h, p)
	out := make([]Handle, len(items))
	for i, it := range items {
		if unquoted, ok := unquoteOperand(it, p); ok {
			out[i] = Eval(unquoted, en)
		} else {
			out[i] = it
		}
	}
	list := NewList(out, p)
	if p.Get(tail).Tag != TagNil {
		// preserve a dotted terminal cdr verbatim (not required to
		// handle nested unquote in the tail position)
		appendTail(list, tail, p)
	}
	return list
}

// unquoteOperand reports whether h is the literal two-element list
// (unquote x) and, if so, returns x.
func unquoteOperand(h Handle, p *Pool) (Handle, bool) {
	v := p.Get(h)
	if v.Tag != TagPair {
		return 0, false
	}
	items, tail := ToVector(h, p)
	if p.Get(tail).Tag != TagNil || len(items) != 2 {
		return 0, false
	}
	head := p.Get(items[0])
	if head.Tag != TagSymbol || head.Str != "unquote" {
		return 0, false
	}
	return items[1], true
}

// appendTail rewrites the terminal nil of a freshly built proper list
// to tail in place; used only by quasiExpand for dotted quasiquote
// forms, which are rare enough not to warrant a general splice helper.
func appendTail(list, tail Handle, p *Pool) {
	cur := list
	for {
		v := p.Get(cur)
		if v.Tag != TagPair {
			return
		}
		if p.Get(v.Pair.Cdr).Tag == TagNil {
			v.Pair.Cdr = tail
			p.Set(cur, v)
			return
		}
		cur = v.Pair.Cdr
	}
}

func valuesOf(hs []Handle, p *Pool) []Value {
	out := make([]Value, len(hs))
	for i, h := range hs {
		out[i] = p.Get(h)
	}
	return out
}

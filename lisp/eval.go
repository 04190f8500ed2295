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

// Eval is the recursive dispatcher that drives special forms, builtins
// and closures. The chosen branch of an `if` and the last expression of
// a lambda body are threaded through a goto-restart loop to avoid
// growing the host stack on straight-line tail chains; the other forms
// (begin, cond, let, and, or) evaluate their last expression with a
// nested Eval call. This is not general tail-call optimization: a
// non-tail recursive call (e.g. the recursive call inside
// `(fact (- n 1))`) still recurses on the host Go stack.
func Eval(expr Handle, en *Env) Handle {
restart:
	p := en.pool
	v := p.Get(expr)
	switch v.Tag {
	case TagBoolean, TagNumber, TagString, TagBuiltin, TagLambda:
		return expr
	case TagNil:
		throw(ValueError, v.Loc, "Cannot evaluate an empty list")
	case TagSymbol:
		return en.Lookup(v.Str, v.Loc)
	case TagPair:
		items, tail := ToVector(expr, p)
		if !p.Get(tail).isNilValue() {
			throw(ValueError, v.Loc, "Cannot evaluate an improper list")
		}
		if len(items) == 0 {
			throw(ValueError, v.Loc, "Cannot evaluate an empty list")
		}
		head := items[0]
		headVal := p.Get(head)
		var headIsRawSymbol bool
		var sym string
		if headVal.Tag == TagSymbol {
			headIsRawSymbol = true
			sym = headVal.Str
		} else {
			// The head is a pair (a computed combination, e.g.
			// ((if c + *) a b)): evaluate it now, which means a
			// symbol it evaluates to is NOT re-checked against the
			// special-forms registry. This keeps (define if +) from ever
			// shadowing the if form (the head stayed a raw symbol, so the
			// form registry wins before any variable lookup happens),
			// while ((if #t + *) 1 2) still dispatches through whatever
			// procedure the computed head evaluates to.
			head = Eval(head, en)
		}
		if headIsRawSymbol {
			if sym == "if" {
				// Restart on the chosen branch instead of recursing
				// through ifForm, so the branch is a tail position.
				ops := items[1:]
				if len(ops) != 3 {
					throw(ValueError, span(valuesOf(ops, p)), "if: expected exactly three operands")
				}
				if Truthy(Eval(ops[0], en), p) {
					expr = ops[1]
				} else {
					expr = ops[2]
				}
				goto restart
			}
			if form, ok := specialForms[sym]; ok {
				return form(items[1:], en)
			}
		}
		procedure := head
		if headIsRawSymbol {
			procedure = en.Lookup(sym, headVal.Loc)
		}
		args := evalArgs(items[1:], en)
		proc := p.Get(procedure)
		if proc.Tag == TagLambda {
			// Tail-call the lambda body's last expression in place of
			// recursing into Apply.
			callEnv := bindLambdaArgs(proc.Proc, args, p)
			if len(proc.Proc.Body) == 0 {
				return p.NewValue(vNil())
			}
			for _, b := range proc.Proc.Body[:len(proc.Proc.Body)-1] {
				Eval(b, callEnv)
			}
			expr = proc.Proc.Body[len(proc.Proc.Body)-1]
			en = callEnv
			goto restart
		}
		return applyNonTail(procedure, args, en, v.Loc)
	default:
		throw(InternalError, v.Loc, "unknown value tag in Eval")
	}
	return 0
}

// isNilValue reports whether v is the nil variant.
func (v Value) isNilValue() bool { return v.Tag == TagNil }

func evalArgs(exprs []Handle, en *Env) []Handle {
	out := make([]Handle, len(exprs))
	for i, x := range exprs {
		out[i] = Eval(x, en)
	}
	return out
}

func bindLambdaArgs(l *Lambda, args []Handle, p *Pool) *Env {
	if len(args) != len(l.Params) {
		throw(ValueError, Loc{}, "wrong number of arguments: expected %d, got %d", len(l.Params), len(args))
	}
	callEnv := p.Env(p.NewEnv(l.Env, true))
	for i, name := range l.Params {
		callEnv.Vars[name] = args[i]
	}
	return callEnv
}

// Apply applies procedure to the already-evaluated args.
func Apply(procedure Handle, args []Handle, en *Env) Handle {
	return applyNonTail(procedure, args, en, Loc{})
}

func applyNonTail(procedure Handle, args []Handle, en *Env, loc Loc) Handle {
	p := en.pool
	proc := p.Get(procedure)
	switch proc.Tag {
	case TagBuiltin:
		return proc.Fn.Fn(args, en)
	case TagLambda:
		callEnv := bindLambdaArgs(proc.Proc, args, p)
		var result Handle = p.NewValue(vNil())
		for _, b := range proc.Proc.Body {
			result = Eval(b, callEnv)
		}
		return result
	default:
		throw(ValueError, loc, "Only functions can be applied")
	}
	return 0
}

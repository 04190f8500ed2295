/*
Copyright (C) 2023  Carl-Philip Hänsch

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

// Equal is structural equality: atoms compare by value, pairs
// componentwise, lambdas by identical parameter lists and body (handle
// equality of each body expression suffices), builtins by identical
// function pointer, nil equals only nil.
func Equal(a, b Handle, p *Pool) bool {
	va, vb := p.Get(a), p.Get(b)
	if va.Tag != vb.Tag {
		return false
	}
	switch va.Tag {
	case TagNil:
		return true
	case TagBoolean:
		return va.Bool == vb.Bool
	case TagNumber:
		return va.Num == vb.Num
	case TagString, TagSymbol:
		return va.Str == vb.Str
	case TagPair:
		return Equal(va.Pair.Car, vb.Pair.Car, p) && Equal(va.Pair.Cdr, vb.Pair.Cdr, p)
	case TagBuiltin:
		return va.Fn == vb.Fn
	case TagLambda:
		if len(va.Proc.Params) != len(vb.Proc.Params) {
			return false
		}
		for i := range va.Proc.Params {
			if va.Proc.Params[i] != vb.Proc.Params[i] {
				return false
			}
		}
		if len(va.Proc.Body) != len(vb.Proc.Body) {
			return false
		}
		for i := range va.Proc.Body {
			if va.Proc.Body[i] != vb.Proc.Body[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Identical is eq?: true for atoms equal by value, and for non-atoms
// only when they share identity (the same handle, or — for nil, which
// is unique by identity — trivially true since there is only ever one
// nil handle).
func Identical(a, b Handle, p *Pool) bool {
	if a == b {
		return true
	}
	va, vb := p.Get(a), p.Get(b)
	if va.IsAtom() && vb.IsAtom() {
		return Equal(a, b, p)
	}
	return false
}

// Truthy is the evaluator's truthiness rule: only literal #f is false;
// every other value (including 0, "", ()) is truthy.
func Truthy(h Handle, p *Pool) bool {
	v := p.Get(h)
	return !(v.Tag == TagBoolean && !v.Bool)
}

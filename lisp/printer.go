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

import "strings"

// String renders h in its canonical printed form: numbers without a
// trailing ".0", strings quoted with C-style escapes, symbols as their
// identifier text, booleans as #t/#f, nil as (), proper lists as
// "(e1 e2 ... en)", dotted pairs as "(e1 ... en-1 . last)", procedures
// as "#<proc>".
func String(h Handle, p *Pool) string {
	v := p.Get(h)
	switch v.Tag {
	case TagNil:
		return "()"
	case TagBoolean:
		if v.Bool {
			return "#t"
		}
		return "#f"
	case TagNumber:
		return formatNumber(v.Num)
	case TagString:
		return escapeString(v.Str)
	case TagSymbol:
		return v.Str
	case TagBuiltin, TagLambda:
		return "#<proc>"
	case TagPair:
		items, tail := ToVector(h, p)
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = String(it, p)
		}
		if p.Get(tail).Tag == TagNil {
			return "(" + strings.Join(parts, " ") + ")"
		}
		return "(" + strings.Join(parts, " ") + " . " + String(tail, p) + ")"
	default:
		return "#<unknown>"
	}
}

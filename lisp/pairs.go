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

// NewList builds the pair chain (v1 . (v2 . ( ... . (vn . nil)))) from
// an ordered sequence of handles. An empty sequence is the empty list,
// which is NilHandle itself, not a pair.
func NewList(vs []Handle, p *Pool) Handle {
	cdr := NilHandle
	for i := len(vs) - 1; i >= 0; i-- {
		cdr = p.NewValue(vPair(vs[i], cdr))
	}
	return cdr
}

// ToVector walks a value's cdr chain, collecting cars, and returns the
// terminal cdr as a separate result (nil for a proper list, something
// else for a dotted pair).
func ToVector(h Handle, p *Pool) (items []Handle, tail Handle) {
	cur := h
	for {
		v := p.Get(cur)
		if v.Tag == TagNil {
			return items, cur
		}
		if v.Tag != TagPair {
			return items, cur
		}
		items = append(items, v.Pair.Car)
		cur = v.Pair.Cdr
	}
}

// IsProperList reports whether h is nil or a pair chain terminated by
// nil.
func IsProperList(h Handle, p *Pool) bool {
	_, tail := ToVector(h, p)
	return p.Get(tail).Tag == TagNil
}

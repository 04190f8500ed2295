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

import "strconv"

// reader walks a token slice left to right, consuming tokens as it
// builds the value tree.
type reader struct {
	toks []Token
	pos  int
	pool *Pool
}

func (r *reader) peek() (Token, bool) {
	if r.pos >= len(r.toks) {
		return Token{}, false
	}
	return r.toks[r.pos], true
}

func (r *reader) next() Token {
	t := r.toks[r.pos]
	r.pos++
	return t
}

func (r *reader) atEnd() bool { return r.pos >= len(r.toks) }

// ParseAll reads every top-level form out of tokens, in order.
func ParseAll(tokens []Token, p *Pool) []Handle {
	r := &reader{toks: tokens, pool: p}
	var out []Handle
	for !r.atEnd() {
		out = append(out, r.readForm())
	}
	return out
}

func (r *reader) readForm() Handle {
	t, ok := r.peek()
	if !ok {
		throw(SyntaxError, Loc{}, "unexpected end of input")
	}
	switch t.Kind {
	case TokLParen:
		r.next()
		return r.readList(t.Loc)
	case TokRParen:
		throw(SyntaxError, t.Loc, "unexpected )")
	case TokQuote:
		r.next()
		inner := r.readForm()
		return NewList([]Handle{r.sym("quote", t.Loc), inner}, r.pool)
	case TokQuasiquote:
		r.next()
		inner := r.readForm()
		return NewList([]Handle{r.sym("quasiquote", t.Loc), inner}, r.pool)
	case TokUnquote:
		r.next()
		inner := r.readForm()
		return NewList([]Handle{r.sym("unquote", t.Loc), inner}, r.pool)
	case TokString:
		r.next()
		return r.pool.NewValue(Value{Tag: TagString, Str: t.Text, Loc: t.Loc})
	case TokAtom:
		r.next()
		return r.readAtom(t)
	}
	throw(SyntaxError, t.Loc, "unrecognized token")
	return 0
}

// readList reads forms up to a matching ), supporting a single dotted
// tail via the bare "." atom (e.g. (a b . c)).
func (r *reader) readList(openLoc Loc) Handle {
	var items []Handle
	tail := NilHandle
	for {
		t, ok := r.peek()
		if !ok {
			throw(SyntaxError, openLoc, "expecting matching )")
		}
		if t.Kind == TokRParen {
			r.next()
			break
		}
		if t.Kind == TokAtom && t.Text == "." {
			r.next()
			tail = r.readForm()
			closing, ok := r.peek()
			if !ok || closing.Kind != TokRParen {
				throw(SyntaxError, t.Loc, "malformed dotted list")
			}
			r.next()
			break
		}
		items = append(items, r.readForm())
	}
	if tail == NilHandle {
		return NewList(items, r.pool)
	}
	cdr := tail
	for i := len(items) - 1; i >= 0; i-- {
		cdr = r.pool.NewValue(vPair(items[i], cdr))
	}
	return cdr
}

// readAtom disambiguates a bare token's text into a number, a boolean
// literal (#t/#f), or a symbol.
func (r *reader) readAtom(t Token) Handle {
	switch t.Text {
	case "#t":
		return r.pool.NewValue(Value{Tag: TagBoolean, Bool: true, Loc: t.Loc})
	case "#f":
		return r.pool.NewValue(Value{Tag: TagBoolean, Bool: false, Loc: t.Loc})
	}
	if n, ok := parseNumber(t.Text); ok {
		return r.pool.NewValue(Value{Tag: TagNumber, Num: n, Loc: t.Loc})
	}
	return r.pool.NewValue(Value{Tag: TagSymbol, Str: t.Text, Loc: t.Loc})
}

func (r *reader) sym(name string, loc Loc) Handle {
	return r.pool.NewValue(Value{Tag: TagSymbol, Str: name, Loc: loc})
}

func parseNumber(s string) (float64, bool) {
	switch s {
	case "+inf.0":
		return 0, false // not a finite literal form this dialect accepts; treat as symbol
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

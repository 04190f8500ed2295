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

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TokenKind classifies a lexeme. The tokenizer does not decide whether
// atom text is a number or a symbol: the reader (read.go) does, and the
// highlighter (highlight.go) makes the same check to color numbers.
type TokenKind int

const (
	TokLParen TokenKind = iota
	TokRParen
	TokQuote
	TokQuasiquote
	TokUnquote
	TokString
	TokAtom // number-or-symbol text, disambiguated by the reader
)

type Token struct {
	Kind TokenKind
	Text string
	Loc  Loc
}

// identChar reports whether r may appear inside a bare (non-string,
// non-punctuation) token: letters, digits, and the punctuation
// characters identifiers and numbers are built from.
func identChar(r byte) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case strings.IndexByte("_+-!$%&*./:<>=?@~", r) >= 0:
		return true
	default:
		return false
	}
}

// Tokenize scans s (whose source file is named file, used only for
// diagnostics) into a finite stream of located tokens. 1-based row and
// column.
func Tokenize(file, s string) []Token {
	s = norm.NFC.String(s)
	var out []Token
	row, col := 1, 1
	i := 0
	n := len(s)
	advance := func(k int) {
		for j := 0; j < k; j++ {
			if i+j < n && s[i+j] == '\n' {
				row++
				col = 1
			} else {
				col++
			}
		}
		i += k
	}
	for i < n {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			advance(1)
		case c == ';':
			for i < n && s[i] != '\n' {
				advance(1)
			}
		case c == '(':
			out = append(out, Token{TokLParen, "(", Loc{file, row, col, 1}})
			advance(1)
		case c == ')':
			out = append(out, Token{TokRParen, ")", Loc{file, row, col, 1}})
			advance(1)
		case c == '\'':
			out = append(out, Token{TokQuote, "'", Loc{file, row, col, 1}})
			advance(1)
		case c == '`':
			out = append(out, Token{TokQuasiquote, "`", Loc{file, row, col, 1}})
			advance(1)
		case c == ',':
			out = append(out, Token{TokUnquote, ",", Loc{file, row, col, 1}})
			advance(1)
		case c == '"':
			startRow, startCol := row, col
			j := i + 1
			var raw strings.Builder
			for j < n && s[j] != '"' {
				if s[j] == '\\' && j+1 < n {
					raw.WriteByte(s[j])
					raw.WriteByte(s[j+1])
					j += 2
					continue
				}
				raw.WriteByte(s[j])
				j++
			}
			if j >= n {
				throw(SyntaxError, Loc{file, startRow, startCol, 1}, "unterminated string literal")
			}
			text := stringEscapeLiteral(raw.String())
			length := j + 1 - i
			advance(length)
			out = append(out, Token{TokString, text, Loc{file, startRow, startCol, length}})
		default:
			startRow, startCol := row, col
			j := i
			if c == '#' {
				j++ // boolean literals #t / #f
			}
			for j < n && identChar(s[j]) {
				j++
			}
			if j == i {
				throw(SyntaxError, Loc{file, row, col, 1}, "unexpected character %q", string(c))
			}
			text := s[i:j]
			advance(j - i)
			out = append(out, Token{TokAtom, text, Loc{file, startRow, startCol, j - i}})
		}
	}
	return out
}

// stringEscapeLiteral applies backslash escapes: \n is newline, \\
// and \" are literal, any other escape is the literal following
// character.
func stringEscapeLiteral(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			switch raw[i+1] {
			case 'n':
				b.WriteByte('\n')
			default:
				b.WriteByte(raw[i+1])
			}
			i++
			continue
		}
		b.WriteByte(raw[i])
	}
	return norm.NFC.String(b.String())
}

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
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/dc0d/onexit"
	"github.com/google/uuid"
)

const (
	newPrompt    = "\033[32m>>> \033[0m"
	contPrompt   = "\033[32m... \033[0m"
	resultPrompt = "\033[31m=\033[0m "
)

// GCInterval is how many accepted top-level forms file-evaluation mode
// lets accumulate between collections. The REPL collects once after
// each successfully evaluated input line regardless.
const GCInterval = 24

// Repl runs an interactive read-eval-print loop against p's root
// environment until EOF or an unhandled interrupt at an empty line.
func Repl(p *Pool) {
	sessionID := uuid.New().String()
	historyFile := filepath.Join(os.TempDir(), ".lumen_history_"+sessionID)

	l, err := readline.NewEx(&readline.Config{
		Prompt:            newPrompt,
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "lumen: cannot start readline:", err)
		os.Exit(1)
	}
	onexit.Register(func() { l.Close() })
	onexit.Register(func() { os.Remove(historyFile) })
	defer onexit.Exit(0)

	en := p.RootEnv()
	pending := ""
	for {
		line, err := l.Readline()
		line = pending + line
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			pending = ""
			l.SetPrompt(newPrompt)
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			fmt.Fprintln(os.Stderr, "lumen:", err)
			break
		}
		if line == "" {
			continue
		}
		pending = evalReplLine(line, en, l)
	}
}

// evalReplLine tokenizes, parses and evaluates one accumulated line of
// input. A syntax error of "expecting matching )" means the form is
// incomplete, so the raw text (plus a trailing newline) is returned to
// be prepended to the next line; any other error is printed and the
// buffer is cleared.
func evalReplLine(line string, en *Env, l *readline.Instance) (pending string) {
	defer func() {
		if r := recover(); r != nil {
			if le, ok := r.(*LispError); ok {
				if le.Kind == SyntaxError && isIncompleteForm(le.Msg) {
					l.SetPrompt(contPrompt)
					pending = line + "\n"
					return
				}
				fmt.Fprint(os.Stdout, le.Display())
			} else {
				fmt.Fprintln(os.Stderr, "lumen: internal error:", r)
			}
			l.SetPrompt(newPrompt)
			pending = ""
		}
	}()

	fmt.Fprintln(os.Stdout, Highlight(line))
	tokens := Tokenize("<stdin>", line)
	p := en.pool
	for len(tokens) > 0 {
		r := &reader{toks: tokens, pool: p}
		form := r.readForm()
		tokens = r.toks[r.pos:]
		result := Eval(form, en)
		fmt.Print(resultPrompt)
		fmt.Println(String(result, p))
	}
	p.GC()
	l.SetPrompt(newPrompt)
	return ""
}

func isIncompleteForm(msg string) bool {
	return msg == "expecting matching )" || msg == "unexpected end of input"
}

// RunFile reads, parses and evaluates every top-level form in the file
// at path against p's root environment, collecting garbage every
// GCInterval forms. Any *LispError raised during evaluation aborts the
// remaining forms and is returned to the caller.
func RunFile(p *Pool, path string) (err error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return readErr
	}
	defer func() {
		if r := recover(); r != nil {
			if le, ok := r.(*LispError); ok {
				err = le
				return
			}
			panic(r)
		}
	}()
	en := p.RootEnv()
	tokens := Tokenize(path, string(data))
	// Forms are read one at a time so a collection never frees a parsed
	// form that has not been evaluated yet.
	r := &reader{toks: tokens, pool: p}
	for i := 0; !r.atEnd(); i++ {
		Eval(r.readForm(), en)
		if (i+1)%GCInterval == 0 {
			p.GC()
		}
	}
	p.GC()
	return nil
}

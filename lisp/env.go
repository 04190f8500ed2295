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

// Env is a frame of identifier->value bindings with an optional parent,
// always pool-allocated rather than a bare Go heap value so the
// collector can trace it alongside everything else in the Pool.
type Env struct {
	pool      *Pool
	self      Handle
	Vars      map[string]Handle
	Parent    Handle
	HasParent bool
}

// Eval delegates to the evaluator using this environment.
func (e *Env) Eval(expr Handle) Handle {
	return Eval(expr, e)
}

// AddVariable inserts or overwrites a binding, returning the displaced
// value (if any) so forms needing unwind protection can restore it.
func (e *Env) AddVariable(name string, value Handle) (previous Handle, hadPrevious bool) {
	previous, hadPrevious = e.Vars[name]
	e.Vars[name] = value
	return
}

// RemoveVariable removes a local (non-recursive) binding.
func (e *Env) RemoveVariable(name string) bool {
	if _, ok := e.Vars[name]; !ok {
		return false
	}
	delete(e.Vars, name)
	return true
}

// Lookup walks the parent chain for name, raising a ValueError carrying
// loc (the lookup site) if it is unbound anywhere on the chain.
func (e *Env) Lookup(name string, loc Loc) Handle {
	for cur := e; ; {
		if h, ok := cur.Vars[name]; ok {
			return h
		}
		if !cur.HasParent {
			throw(ValueError, loc, "Undefined variable: %s", name)
		}
		cur = cur.pool.Env(cur.Parent)
	}
}

// tryLookup is Lookup without raising: it reports whether name is bound
// anywhere on the parent chain.
func (e *Env) tryLookup(name string) (Handle, bool) {
	for cur := e; ; {
		if h, ok := cur.Vars[name]; ok {
			return h, true
		}
		if !cur.HasParent {
			return 0, false
		}
		cur = cur.pool.Env(cur.Parent)
	}
}

// Reset clears all bindings and reinstalls builtins. Used only by the
// root environment (e.g. between independent REPL sessions in tests).
func (e *Env) Reset() {
	e.Vars = make(map[string]Handle)
	installBuiltins(e)
}

// Variables enumerates locally bound identifiers, used by REPL
// completion.
func (e *Env) Variables() []string {
	out := make([]string, 0, len(e.Vars))
	for name := range e.Vars {
		out = append(out, name)
	}
	return out
}

// child allocates a new environment whose parent is e.
func (e *Env) child() *Env {
	h := e.pool.NewEnv(e.self, true)
	return e.pool.Env(h)
}

// Self returns the handle this environment is registered under.
func (e *Env) Self() Handle { return e.self }

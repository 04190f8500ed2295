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

import "github.com/google/btree"

// Handle is a non-owning reference to a Value held by a Pool. It is an
// arena index, not a Go pointer: the collector needs to be able to
// enumerate and rewrite liveness bits without fighting the Go runtime's
// own collector, so every Value and every Env the interpreter touches
// lives in one of the Pool's two arenas and is addressed by index.
// NilHandle is the one distinguished handle denoting the shared nil.
type Handle uint32

// NilHandle is always index 0 of the value arena, installed once by
// NewPool and never collected.
const NilHandle Handle = 0

// Pool owns every Value and every Env for the lifetime of the
// interpreter. It hands out Handles and periodically reclaims
// unreachable objects via GC. Allocation never triggers GC on its own:
// new values and environments only grow the arenas or reuse a freed
// slot.
type Pool struct {
	values []Value
	envs   []*Env

	freeValues *btree.BTreeG[uint32] // lowest-index-first free list
	freeEnvs   *btree.BTreeG[uint32]

	root Handle

	// moduleStack is the require-cycle-detection stack, a field of the
	// Pool (the interpreter's single long-lived collaborator) instead of
	// an ambient package-level global.
	moduleStack []string

	// SearchPath overrides LISP_PATH for tests; nil means "read the
	// environment variable at require time".
	SearchPath []string
}

func uint32Less(a, b uint32) bool { return a < b }

// NewPool constructs a pool with the shared nil installed at NilHandle
// and a fresh root environment with every builtin bound (special forms
// live in their own registry, not in an environment). The root
// environment is a permanent GC root.
func NewPool() *Pool {
	p := &Pool{
		freeValues: btree.NewG(32, uint32Less),
		freeEnvs:   btree.NewG(32, uint32Less),
	}
	p.values = append(p.values, vNil()) // NilHandle
	rootEnv := &Env{pool: p, Vars: make(map[string]Handle)}
	p.envs = append(p.envs, nil) // keep env handle 0 unused, mirrors value arena's reserved slot
	p.root = p.newEnvHandle(rootEnv)
	installBuiltins(rootEnv)
	return p
}

// Root returns the unique root environment handle.
func (p *Pool) Root() Handle { return p.root }

func (p *Pool) RootEnv() *Env { return p.envs[p.root] }

// NewValue registers v and returns a fresh handle for it. Reuses the
// lowest freed slot if one exists.
func (p *Pool) NewValue(v Value) Handle {
	if item, ok := p.freeValues.DeleteMin(); ok {
		p.values[item] = v
		return Handle(item)
	}
	p.values = append(p.values, v)
	return Handle(len(p.values) - 1)
}

// NewEnv constructs an environment whose parent is parent (NilHandle
// for none — only the root has no parent) and registers it.
func (p *Pool) NewEnv(parent Handle, hasParent bool) Handle {
	e := &Env{pool: p, Vars: make(map[string]Handle)}
	if hasParent {
		e.Parent = parent
		e.HasParent = true
	}
	return p.newEnvHandle(e)
}

func (p *Pool) newEnvHandle(e *Env) Handle {
	if item, ok := p.freeEnvs.DeleteMin(); ok {
		e.self = Handle(item)
		p.envs[item] = e
		return Handle(item)
	}
	e.self = Handle(len(p.envs))
	p.envs = append(p.envs, e)
	return Handle(len(p.envs) - 1)
}

// Get dereferences a value handle.
func (p *Pool) Get(h Handle) Value { return p.values[h] }

// Set overwrites the value stored at h. Its one caller is quasiExpand's
// appendTail, which splices a dotted tail onto a freshly built list.
func (p *Pool) Set(h Handle, v Value) { p.values[h] = v }

// Env dereferences an environment handle.
func (p *Pool) Env(h Handle) *Env { return p.envs[h] }

// GC performs tri-color-free mark-and-sweep over both arenas. Roots are
// the root environment and the persistent nil. Marking iterates to a
// fixed point because marking a lambda may enqueue an environment whose
// bindings enqueue further values.
func (p *Pool) GC() (collectedValues, collectedEnvs int) {
	liveValues := make([]bool, len(p.values))
	liveEnvs := make([]bool, len(p.envs))
	liveValues[NilHandle] = true
	liveEnvs[p.root] = true

	valueQueue := []Handle{NilHandle}
	envQueue := []Handle{p.root}

	for len(valueQueue) > 0 || len(envQueue) > 0 {
		for len(envQueue) > 0 {
			h := envQueue[len(envQueue)-1]
			envQueue = envQueue[:len(envQueue)-1]
			e := p.envs[h]
			if e == nil {
				continue
			}
			if e.HasParent && !liveEnvs[e.Parent] {
				liveEnvs[e.Parent] = true
				envQueue = append(envQueue, e.Parent)
			}
			for _, vh := range e.Vars {
				if !liveValues[vh] {
					liveValues[vh] = true
					valueQueue = append(valueQueue, vh)
				}
			}
		}
		for len(valueQueue) > 0 {
			h := valueQueue[len(valueQueue)-1]
			valueQueue = valueQueue[:len(valueQueue)-1]
			v := p.values[h]
			switch v.Tag {
			case TagPair:
				for _, ch := range [2]Handle{v.Pair.Car, v.Pair.Cdr} {
					if !liveValues[ch] {
						liveValues[ch] = true
						valueQueue = append(valueQueue, ch)
					}
				}
			case TagLambda:
				if !liveEnvs[v.Proc.Env] {
					liveEnvs[v.Proc.Env] = true
					envQueue = append(envQueue, v.Proc.Env)
				}
				for _, bh := range v.Proc.Body {
					if !liveValues[bh] {
						liveValues[bh] = true
						valueQueue = append(valueQueue, bh)
					}
				}
			}
		}
	}

	for i := range p.values {
		if i == int(NilHandle) {
			continue
		}
		if !liveValues[i] && p.values[i].Tag != TagNil {
			p.values[i] = Value{}
			p.freeValues.ReplaceOrInsert(uint32(i))
			collectedValues++
		} else if !liveValues[i] {
			// already-freed slot holding the zero Value; nothing to do
		}
	}
	for i := range p.envs {
		if i == 0 || Handle(i) == p.root {
			continue
		}
		if !liveEnvs[i] && p.envs[i] != nil {
			p.envs[i] = nil
			p.freeEnvs.ReplaceOrInsert(uint32(i))
			collectedEnvs++
		}
	}
	return
}

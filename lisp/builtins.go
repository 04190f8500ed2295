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

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/dc0d/onexit"
)

// Declaration documents one builtin for the help system and carries the
// function that implements it. The registry is separate from Env.Vars
// so help text survives environment resets and child environments.
type Declaration struct {
	Name         string
	Desc         string
	MinParameter int
	MaxParameter int // -1 means unbounded
	Fn           func(args []Handle, en *Env) Handle
}

var declarations = make(map[string]*Declaration)

// Declare registers def both in the help registry and as a bound
// variable in en. Every builtin is wrapped with an automatic arity
// check against def.MinParameter/MaxParameter so individual
// implementations never need to re-derive "wrong number of arguments"
// from a Go index-out-of-range panic.
func Declare(en *Env, def *Declaration) {
	declarations[def.Name] = def
	name, min, max, fn := def.Name, def.MinParameter, def.MaxParameter, def.Fn
	wrapped := func(args []Handle, en *Env) Handle {
		checkArity(name, args, min, max, en.pool)
		return fn(args, en)
	}
	en.Vars[def.Name] = en.pool.NewValue(vBuiltin(&Builtin{Name: name, Fn: wrapped}))
}

// RegisterProc is the ABI a native plugin's Init_ext entry point uses
// to install a procedure into the root environment. It does not go
// through the help registry: a plugin's procedures are not expected to
// ship their own Desc text.
func RegisterProc(en *Env, name string, fn func(args []Handle, en *Env) Handle) {
	en.Vars[name] = en.pool.NewValue(vBuiltin(&Builtin{Name: name, Fn: fn}))
}

func checkArity(name string, args []Handle, min, max int, p *Pool) {
	if len(args) < min || (max >= 0 && len(args) > max) {
		throw(ValueError, span(valuesOf(args, p)), "%s: wrong number of arguments", name)
	}
}

func wantNumber(name string, h Handle, p *Pool) float64 {
	v := p.Get(h)
	if v.Tag != TagNumber {
		throw(TypeError, v.Loc, "%s: expected a number, got a %s", name, v.Tag)
	}
	return v.Num
}

func wantString(name string, h Handle, p *Pool) string {
	v := p.Get(h)
	if v.Tag != TagString {
		throw(TypeError, v.Loc, "%s: expected a string, got a %s", name, v.Tag)
	}
	return v.Str
}

// installBuiltins binds every procedure and the help system into en.
// Called once for the root environment and again whenever an
// environment is Reset.
func installBuiltins(en *Env) {
	p := en.pool

	declare := func(name, desc string, min, max int, fn func(args []Handle, en *Env) Handle) {
		Declare(en, &Declaration{Name: name, Desc: desc, MinParameter: min, MaxParameter: max, Fn: fn})
	}

	// arithmetic, variadic
	declare("+", "Sum of all arguments. (+) is 0.", 0, -1, func(args []Handle, en *Env) Handle {
		sum := 0.0
		for _, a := range args {
			sum += wantNumber("+", a, p)
		}
		return p.NewValue(vNumber(sum))
	})
	declare("*", "Product of all arguments. (*) is 1.", 0, -1, func(args []Handle, en *Env) Handle {
		prod := 1.0
		for _, a := range args {
			prod *= wantNumber("*", a, p)
		}
		return p.NewValue(vNumber(prod))
	})

	// arithmetic, binary with 1-or-2-arg special casing
	declare("-", "Subtraction. (- x) negates x; (- x y) subtracts y from x.", 1, 2, func(args []Handle, en *Env) Handle {
		if len(args) == 1 {
			return p.NewValue(vNumber(-wantNumber("-", args[0], p)))
		}
		return p.NewValue(vNumber(wantNumber("-", args[0], p) - wantNumber("-", args[1], p)))
	})
	declare("/", "Division. (/ x) is the reciprocal of x; (/ x y) divides x by y.", 1, 2, func(args []Handle, en *Env) Handle {
		if len(args) == 1 {
			return p.NewValue(vNumber(1 / wantNumber("/", args[0], p)))
		}
		return p.NewValue(vNumber(wantNumber("/", args[0], p) / wantNumber("/", args[1], p)))
	})
	cmp := func(name string, ok func(a, b float64) bool) func(args []Handle, en *Env) Handle {
		return func(args []Handle, en *Env) Handle {
			if len(args) == 1 {
				return p.NewValue(vBool(ok(0, wantNumber(name, args[0], p))))
			}
			return p.NewValue(vBool(ok(wantNumber(name, args[0], p), wantNumber(name, args[1], p))))
		}
	}
	declare("=", "Numeric equality.", 1, 2, cmp("=", func(a, b float64) bool { return a == b }))
	declare("<", "Numeric less-than.", 1, 2, cmp("<", func(a, b float64) bool { return a < b }))
	declare(">", "Numeric greater-than.", 1, 2, cmp(">", func(a, b float64) bool { return a > b }))
	declare("<=", "Numeric less-than-or-equal.", 1, 2, cmp("<=", func(a, b float64) bool { return a <= b }))
	declare(">=", "Numeric greater-than-or-equal.", 1, 2, cmp(">=", func(a, b float64) bool { return a >= b }))

	// numeric misc
	declare("abs", "Absolute value.", 1, 1, func(args []Handle, en *Env) Handle {
		return p.NewValue(vNumber(math.Abs(wantNumber("abs", args[0], p))))
	})
	declare("expt", "(expt base exponent) raises base to exponent.", 2, 2, func(args []Handle, en *Env) Handle {
		return p.NewValue(vNumber(math.Pow(wantNumber("expt", args[0], p), wantNumber("expt", args[1], p))))
	})
	declare("quotient", "Integer division truncated toward zero.", 2, 2, func(args []Handle, en *Env) Handle {
		a, b := wantNumber("quotient", args[0], p), wantNumber("quotient", args[1], p)
		return p.NewValue(vNumber(math.Trunc(a / b)))
	})
	declare("modulo", "Modulo with the sign of the divisor.", 2, 2, func(args []Handle, en *Env) Handle {
		a, b := wantNumber("modulo", args[0], p), wantNumber("modulo", args[1], p)
		m := math.Mod(a, b)
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return p.NewValue(vNumber(m))
	})
	declare("remainder", "Remainder with the sign of the dividend.", 2, 2, func(args []Handle, en *Env) Handle {
		return p.NewValue(vNumber(math.Mod(wantNumber("remainder", args[0], p), wantNumber("remainder", args[1], p))))
	})
	nearInt := func(n float64) bool { return math.Abs(n-math.Round(n)) < 1e-7 }
	declare("even?", "True for integral, even numbers.", 1, 1, func(args []Handle, en *Env) Handle {
		n := wantNumber("even?", args[0], p)
		return p.NewValue(vBool(nearInt(n) && math.Mod(math.Round(n), 2) == 0))
	})
	declare("odd?", "True for integral, odd numbers.", 1, 1, func(args []Handle, en *Env) Handle {
		n := wantNumber("odd?", args[0], p)
		return p.NewValue(vBool(nearInt(n) && math.Mod(math.Round(n), 2) != 0))
	})
	declare("zero?", "True if the argument is within 1e-7 of zero.", 1, 1, func(args []Handle, en *Env) Handle {
		return p.NewValue(vBool(math.Abs(wantNumber("zero?", args[0], p)) < 1e-7))
	})

	// pair / list
	declare("cons", "Construct a pair.", 2, 2, func(args []Handle, en *Env) Handle {
		return p.NewValue(vPair(args[0], args[1]))
	})
	declare("car", "First element of a pair.", 1, 1, func(args []Handle, en *Env) Handle {
		v := p.Get(args[0])
		if v.Tag != TagPair {
			throw(TypeError, v.Loc, "car: expected a pair, got a %s", v.Tag)
		}
		return v.Pair.Car
	})
	declare("cdr", "Rest of a pair.", 1, 1, func(args []Handle, en *Env) Handle {
		v := p.Get(args[0])
		if v.Tag != TagPair {
			throw(TypeError, v.Loc, "cdr: expected a pair, got a %s", v.Tag)
		}
		return v.Pair.Cdr
	})
	declare("list", "Build a proper list from the arguments.", 0, -1, func(args []Handle, en *Env) Handle {
		return NewList(args, p)
	})
	declare("length", "Length of a proper list.", 1, 1, func(args []Handle, en *Env) Handle {
		if !IsProperList(args[0], p) {
			throw(TypeError, p.Get(args[0]).Loc, "length: expected a proper list")
		}
		items, _ := ToVector(args[0], p)
		return p.NewValue(vNumber(float64(len(items))))
	})
	declare("append", "Concatenate proper lists.", 0, -1, func(args []Handle, en *Env) Handle {
		var all []Handle
		for _, a := range args {
			if !IsProperList(a, p) {
				throw(TypeError, p.Get(a).Loc, "append: expected a proper list")
			}
			items, _ := ToVector(a, p)
			all = append(all, items...)
		}
		return NewList(all, p)
	})
	declare("map", "Apply a procedure elementwise across one or more lists.", 2, -1, func(args []Handle, en *Env) Handle {
		proc := args[0]
		lists := make([][]Handle, len(args)-1)
		n := -1
		for i, a := range args[1:] {
			items, tail := ToVector(a, p)
			if p.Get(tail).Tag != TagNil {
				throw(TypeError, p.Get(a).Loc, "map: expected a proper list")
			}
			lists[i] = items
			if n == -1 || len(items) < n {
				n = len(items)
			}
		}
		if n == -1 {
			n = 0
		}
		out := make([]Handle, n)
		for i := 0; i < n; i++ {
			row := make([]Handle, len(lists))
			for j := range lists {
				row[j] = lists[j][i]
			}
			out[i] = Apply(proc, row, en)
		}
		return NewList(out, p)
	})
	declare("filter", "Keep elements for which a predicate is true.", 2, 2, func(args []Handle, en *Env) Handle {
		proc, listH := args[0], args[1]
		items, tail := ToVector(listH, p)
		if p.Get(tail).Tag != TagNil {
			throw(TypeError, p.Get(listH).Loc, "filter: expected a proper list")
		}
		var out []Handle
		for _, it := range items {
			if Truthy(Apply(proc, []Handle{it}, en), p) {
				out = append(out, it)
			}
		}
		return NewList(out, p)
	})
	declare("reduce", "(reduce proc init list) left-folds proc over list starting from init.", 3, 3, func(args []Handle, en *Env) Handle {
		proc, acc, listH := args[0], args[1], args[2]
		items, tail := ToVector(listH, p)
		if p.Get(tail).Tag != TagNil {
			throw(TypeError, p.Get(listH).Loc, "reduce: expected a proper list")
		}
		for _, it := range items {
			acc = Apply(proc, []Handle{acc, it}, en)
		}
		return acc
	})

	// predicates
	tagPred := func(name string, matches func(Tag) bool) func(args []Handle, en *Env) Handle {
		return func(args []Handle, en *Env) Handle {
			return p.NewValue(vBool(matches(p.Get(args[0]).Tag)))
		}
	}
	declare("atom?", "True for any non-pair value.", 1, 1, tagPred("atom?", func(t Tag) bool { return t != TagPair }))
	declare("boolean?", "True for #t or #f.", 1, 1, tagPred("boolean?", func(t Tag) bool { return t == TagBoolean }))
	declare("integer?", "True for a number with no fractional part.", 1, 1, func(args []Handle, en *Env) Handle {
		v := p.Get(args[0])
		return p.NewValue(vBool(v.Tag == TagNumber && v.Num == math.Trunc(v.Num)))
	})
	declare("list?", "True for a proper list.", 1, 1, func(args []Handle, en *Env) Handle {
		return p.NewValue(vBool(IsProperList(args[0], p)))
	})
	declare("number?", "True for a number.", 1, 1, tagPred("number?", func(t Tag) bool { return t == TagNumber }))
	declare("null?", "True for the empty list.", 1, 1, tagPred("null?", func(t Tag) bool { return t == TagNil }))
	declare("pair?", "True for a pair (possibly improper).", 1, 1, tagPred("pair?", func(t Tag) bool { return t == TagPair }))
	declare("procedure?", "True for a builtin or a lambda.", 1, 1, tagPred("procedure?", func(t Tag) bool { return t == TagBuiltin || t == TagLambda }))
	declare("string?", "True for a string.", 1, 1, tagPred("string?", func(t Tag) bool { return t == TagString }))
	declare("symbol?", "True for a symbol.", 1, 1, tagPred("symbol?", func(t Tag) bool { return t == TagSymbol }))

	// equality
	declare("eq?", "Identity comparison; atoms compare by value.", 2, 2, func(args []Handle, en *Env) Handle {
		return p.NewValue(vBool(Identical(args[0], args[1], p)))
	})
	declare("equal?", "Structural comparison.", 2, 2, func(args []Handle, en *Env) Handle {
		return p.NewValue(vBool(Equal(args[0], args[1], p)))
	})

	// logical
	declare("not", "Logical negation; only #f is false.", 1, 1, func(args []Handle, en *Env) Handle {
		return p.NewValue(vBool(!Truthy(args[0], p)))
	})

	// control / side effects
	declare("apply", "(apply proc args-list) calls proc with the elements of args-list.", 2, 2, func(args []Handle, en *Env) Handle {
		items, tail := ToVector(args[1], p)
		if p.Get(tail).Tag != TagNil {
			throw(TypeError, p.Get(args[1]).Loc, "apply: expected a proper list")
		}
		return Apply(args[0], items, en)
	})
	declare("display", "Print a value's textual representation without a trailing newline.", 1, 1, func(args []Handle, en *Env) Handle {
		fmt.Fprint(os.Stdout, String(args[0], p))
		return p.NewValue(vNil())
	})
	declare("displayln", "Print a value's textual representation followed by a newline.", 1, 1, func(args []Handle, en *Env) Handle {
		fmt.Fprintln(os.Stdout, String(args[0], p))
		return p.NewValue(vNil())
	})
	declare("print", "Alias for displayln.", 1, 1, func(args []Handle, en *Env) Handle {
		fmt.Fprintln(os.Stdout, String(args[0], p))
		return p.NewValue(vNil())
	})
	declare("newline", "Print a single newline.", 0, 0, func(args []Handle, en *Env) Handle {
		fmt.Fprintln(os.Stdout)
		return p.NewValue(vNil())
	})
	declare("error", "Terminate the process; an optional argument is the exit status, default 1.", 0, 1, func(args []Handle, en *Env) Handle {
		code := 1
		if len(args) == 1 {
			code = int(wantNumber("error", args[0], p))
		}
		onexit.Exit(code)
		return 0
	})
	declare("exit", "Terminate the process; an optional argument is the exit status, default 0.", 0, 1, func(args []Handle, en *Env) Handle {
		code := 0
		if len(args) == 1 {
			code = int(wantNumber("exit", args[0], p))
		}
		onexit.Exit(code)
		return 0
	})

	// introspection
	declare("help", "List every builtin, or (help \"name\") for one procedure's documentation.", 0, 1, func(args []Handle, en *Env) Handle {
		if len(args) == 0 {
			printHelpIndex()
			return p.NewValue(vNil())
		}
		printHelpFor(wantString("help", args[0], p))
		return p.NewValue(vNil())
	})
}

func printHelpIndex() {
	names := make([]string, 0, len(declarations))
	for n := range declarations {
		names = append(names, n)
	}
	sort.Strings(names)
	fmt.Fprintln(os.Stdout, "Available procedures:")
	fmt.Fprintln(os.Stdout)
	for _, n := range names {
		def := declarations[n]
		fmt.Fprintf(os.Stdout, "  %s: %s\n", n, strings.SplitN(def.Desc, "\n", 2)[0])
	}
	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, `type (help "name") for details on a specific procedure`)
}

func printHelpFor(name string) {
	def, ok := declarations[name]
	if !ok {
		throw(ValueError, Loc{}, "help: unknown procedure %q", name)
	}
	fmt.Fprintf(os.Stdout, "%s\n===\n\n%s\n\n", def.Name, def.Desc)
	max := "unbounded"
	if def.MaxParameter >= 0 {
		max = fmt.Sprint(def.MaxParameter)
	}
	fmt.Fprintf(os.Stdout, "arguments: %d - %s\n", def.MinParameter, max)
}

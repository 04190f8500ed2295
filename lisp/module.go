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
	"os"
	"path/filepath"
	"plugin"
	"runtime"
	"strings"
)

const nativeExtEntry = "Init_ext" // exported plugin symbol a native extension must provide

func requireForm(ops []Handle, en *Env) Handle {
	p := en.pool
	if len(ops) != 1 {
		throw(ValueError, span(valuesOf(ops, p)), "require: expected exactly one operand")
	}
	nameVal := p.Get(Eval(ops[0], en))
	if nameVal.Tag != TagString {
		throw(TypeError, nameVal.Loc, "require: module name must be a string")
	}
	return doRequire(nameVal.Str, en, p.Get(ops[0]).Loc)
}

func doRequire(name string, en *Env, loc Loc) Handle {
	p := en.pool
	for _, loaded := range p.moduleStack {
		if loaded == name {
			throw(ValueError, loc, "Circular dependency: %s", name)
		}
	}
	p.moduleStack = append(p.moduleStack, name)
	defer func() {
		p.moduleStack = p.moduleStack[:len(p.moduleStack)-1]
		if r := recover(); r != nil {
			panic(r) // re-raise after restoring the module-load stack
		}
	}()

	sourcePath, pluginPath, dirsTried := resolveModule(name, p.SearchPath)
	if sourcePath != "" {
		data, err := os.ReadFile(sourcePath)
		if err != nil {
			throw(ValueError, loc, "require: cannot read %s: %v", sourcePath, err)
		}
		tokens := Tokenize(sourcePath, string(data))
		forms := ParseAll(tokens, p)
		for _, f := range forms {
			Eval(f, en)
		}
		return p.NewValue(vNil())
	}
	if pluginPath != "" {
		if runtime.GOOS == "windows" {
			throw(ValueError, loc, "require: native plugins are not supported on windows")
		}
		pl, err := plugin.Open(pluginPath)
		if err != nil {
			throw(ValueError, loc, "require: cannot load plugin %s: %v", pluginPath, err)
		}
		sym, err := pl.Lookup(nativeExtEntry)
		if err != nil {
			throw(ValueError, loc, "require: plugin %s has no %s entry point", pluginPath, nativeExtEntry)
		}
		initFn, ok := sym.(func(*Env))
		if !ok {
			throw(ValueError, loc, "require: plugin %s's %s has the wrong signature", pluginPath, nativeExtEntry)
		}
		initFn(p.RootEnv())
		return p.NewValue(vNil())
	}
	srcCandidate := name + ".scm"
	pluginCandidate := pluginName(name)
	throw(ValueError, loc, "require: module %q not found; tried %s and %s in %s", name, srcCandidate, pluginCandidate, strings.Join(dirsTried, ":"))
	return 0
}

func pluginName(name string) string {
	switch runtime.GOOS {
	case "darwin":
		return "lib" + name + ".dylib"
	case "windows":
		return name + ".dll"
	default:
		return "lib" + name + ".so"
	}
}

// resolveModule implements the LISP_PATH search: split
// on the platform path-list separator, prepend "." if absent, and in
// each directory in order prefer name.scm over the platform shared
// object.
func resolveModule(name string, override []string) (sourcePath, pluginPath string, dirsTried []string) {
	dirs := override
	if dirs == nil {
		raw := os.Getenv("LISP_PATH")
		if raw != "" {
			dirs = strings.Split(raw, string(os.PathListSeparator))
		}
		hasDot := false
		for _, d := range dirs {
			if d == "." {
				hasDot = true
				break
			}
		}
		if !hasDot {
			dirs = append([]string{"."}, dirs...)
		}
	}
	dirsTried = dirs
	for _, dir := range dirs {
		src := filepath.Join(dir, name+".scm")
		if fileExists(src) {
			return src, "", dirsTried
		}
		plg := filepath.Join(dir, pluginName(name))
		if fileExists(plg) {
			return "", plg, dirsTried
		}
	}
	return "", "", dirsTried
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

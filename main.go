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
package main

import (
	"fmt"
	"os"

	"github.com/hanschip/lumen/lisp"
)

const usage = `usage: lumen [path]

Run the REPL with no arguments, or evaluate the file at path.
`

func main() {
	args := os.Args[1:]
	for _, a := range args {
		if a == "-h" || a == "--help" {
			fmt.Print(usage)
			return
		}
	}
	if len(args) > 1 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	p := lisp.NewPool()
	if len(args) == 0 {
		lisp.Repl(p)
		return
	}
	if err := lisp.RunFile(p, args[0]); err != nil {
		if le, ok := err.(*lisp.LispError); ok {
			fmt.Fprint(os.Stderr, le.Display())
		} else {
			fmt.Fprintln(os.Stderr, "lumen:", err)
		}
		os.Exit(1)
	}
}

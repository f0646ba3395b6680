// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"dicelang/internal/builtins"
	"dicelang/internal/decomposition"
	"dicelang/internal/interp"
	"dicelang/internal/run"
	"dicelang/repl"
)

func main() {
	args := os.Args[1:]

	if len(args) == 0 {
		repl.Start(os.Stdin, os.Stdout)
		return
	}

	var filename, source string

	if args[0] == "-f" {
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, color.RedString("Missing argument (file name) for the -f option."))
			os.Exit(1)
		}
		filename = args[1]
		content, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "File not found: %s\n", filename)
			os.Exit(1)
		}
		source = string(content)
	} else {
		filename = "<arguments>"
		source = strings.Join(args, " ")
	}

	driver := interp.NewDriver(builtins.New(), decomposition.NewIDSource())
	if !run.Source(driver, filename, source, os.Stdout, os.Stderr) {
		os.Exit(1)
	}
}

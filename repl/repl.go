// Package repl implements dicelang's interactive loop, adapted from
// original_source/src/main.cpp's command_reader: read a line, evaluate it
// against a persistent environment, print the result, repeat until the
// user types "exit" or "end" or closes stdin.
package repl

import (
	"bufio"
	"fmt"
	"io"

	"dicelang/internal/builtins"
	"dicelang/internal/decomposition"
	"dicelang/internal/interp"
	"dicelang/internal/run"
)

const prompt = "> "

// Start runs the interactive loop, reading lines from in and writing
// prompts, results and diagnostics to out.
func Start(in io.Reader, out io.Writer) {
	fmt.Fprintln(out, "Dice expression probability calculator (interactive mode)")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Type 'exit' or 'end' to exit the application.")
	fmt.Fprintln(out, "Type an expression to evaluate it.")
	fmt.Fprintln(out)

	driver := interp.NewDriver(builtins.New(), decomposition.NewIDSource())
	driver.EnableInteractiveMode()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return
		}

		line := scanner.Text()
		if line == "exit" || line == "end" {
			return
		}

		run.Source(driver, "<stdin>", line, out, out)
	}
}

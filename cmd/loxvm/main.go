// Command loxvm runs Lox source: a REPL when invoked with no arguments, or
// a single file when given one path argument.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/kristofer/loxvm/pkg/compiler"
	"github.com/kristofer/loxvm/pkg/object"
	"github.com/kristofer/loxvm/pkg/vm"
)

func main() {
	switch len(os.Args) {
	case 1:
		runREPL()
	case 2:
		runFile(os.Args[1])
	default:
		fmt.Fprintln(os.Stderr, "Usage: loxvm [path]")
		os.Exit(64)
	}
}

func runREPL() {
	machine := vm.New()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := scanner.Text()
		machine.Interpret(func(v *vm.VM) (*object.ObjFunction, error) {
			return compiler.Compile(v, line)
		})
	}
}

func runFile(path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open file \"%s\".\n", path)
		os.Exit(74)
	}

	machine := vm.New()
	result := machine.Interpret(func(v *vm.VM) (*object.ObjFunction, error) {
		return compiler.Compile(v, string(source))
	})

	switch result {
	case vm.InterpretCompileError:
		os.Exit(65)
	case vm.InterpretRuntimeError:
		os.Exit(70)
	}
}

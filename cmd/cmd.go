package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	easy "github.com/t-tomalak/logrus-easy-formatter"

	"github.com/evanlindqvist/golox/debug"
	e "github.com/evanlindqvist/golox/errors"
	"github.com/evanlindqvist/golox/utils"
	"github.com/evanlindqvist/golox/vm"
)

// App builds the golox cobra command: `golox` alone drops into a REPL,
// `golox script.lox` runs a file and exits with clox's standard 65
// (compile error) / 70 (runtime error) status codes.
func App() (app *cobra.Command) {
	app = &cobra.Command{
		Use:   "golox [script]",
		Short: "Launch the `golox` interpreter",
		Args:  cobra.MaximumNArgs(1),
	}

	app.Flags().SortFlags = true
	defaultVerbosityStr := "INFO"
	verbosity := app.Flags().StringP("verbosity", "v", defaultVerbosityStr, "Logging verbosity")

	app.Run = func(_ *cobra.Command, args []string) {
		verbosityLvl, err := logrus.ParseLevel(*verbosity)
		if err != nil {
			verbosityLvl, _ = logrus.ParseLevel(defaultVerbosityStr)
		}
		logrus.SetLevel(verbosityLvl)
		logrus.SetFormatter(&easy.Formatter{LogFormat: "//DBG// %msg%\n"})
		// -v debug or -v trace sets debug.DEBUG (as GOLOX_TRACE does) and
		// lets logrus print the VM's execution trace and post-compile
		// disassembly dump. With GOLOX_TRACE alone, the default INFO level
		// still drops that output.
		debug.DEBUG = debug.DEBUG || verbosityLvl >= logrus.DebugLevel

		if len(args) == 1 {
			os.Exit(runFile(args[0]))
			return
		}
		repl()
	}
	return
}

// runFile interprets the named script and returns the process exit
// code clox uses: 0 on success, 65 on a compile error, 70 on a runtime
// error.
func runFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		logrus.Fatal(err)
	}

	_, err = vm.NewVM().Interpret(string(source))
	if err == nil {
		return 0
	}

	// isRuntimeErr picks between clox's two failure exit codes: 65 for a
	// rejected compile, 70 for a diagnostic raised while running.
	var compileErr *e.CompilationError
	isRuntimeErr := !errors.As(err, &compileErr)
	return 65 + 5*utils.BoolToInt[int](isRuntimeErr)
}

// repl is an interactive read-eval-print loop: one line in, one value
// or diagnostic out, session state reset between lines since this VM
// carries no globals.
func repl() {
	rl, err := readline.New("> ")
	if err != nil {
		logrus.Fatal(err)
	}
	defer rl.Close()

	vm_ := vm.NewVM()
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF (Ctrl-D) or readline.ErrInterrupt (Ctrl-C)
			if err == io.EOF || err == readline.ErrInterrupt {
				return
			}
			logrus.Fatal(err)
		}
		if line == "" {
			continue
		}

		if _, err := vm_.Interpret(line); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

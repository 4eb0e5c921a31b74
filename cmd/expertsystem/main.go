/*
Expertsystem answers propositional-logic queries from a rule file using
backward-chaining resolution.

It reads a file of implication/equivalence rules, an initial-facts
line, and a queries line, then prints one line per query giving its
resolved truth value. In interactive mode it keeps prompting for new
initial-facts lines and re-answers the same queries against each one,
without re-deriving any rule.

Usage:

	expertsystem <input_file> [flags]

The flags are:

	-v, --version
		Give the current version of expertsystem and then exit.

	-e, --explain
		Print the reasoning trace behind each query's answer instead
		of just its value.

	-i, --interactive
		After answering the queries once, keep prompting for new
		initial-facts lines and re-answering against each.

	-d, --direct
		Force reading interactive-mode facts directly from the console
		as opposed to readline based line editing, even if launched in
		a tty with stdin and stdout.

	-c, --config FILE
		Load CLI defaults (explain-mode wrap width) from the given TOML
		file instead of auto-discovering .expertsystemrc.

Exit code is 0 on success, 1 on a usage error, I/O error, syntax error
in the input file, or a contradictory rule base.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	expertsystem "github.com/usercrixus/42expertSystem"
	"github.com/usercrixus/42expertSystem/internal/config"
	"github.com/usercrixus/42expertSystem/internal/version"
	"github.com/usercrixus/42expertSystem/internal/xerrors"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitError indicates an unsuccessful program execution: a usage
	// error, an I/O error, a syntax error in the input file, or a
	// contradictory rule base.
	ExitError
)

var (
	returnCode      = ExitSuccess
	flagVersion     = pflag.BoolP("version", "v", false, "Gives the version info")
	flagExplain     = pflag.BoolP("explain", "e", false, "Print the reasoning trace behind each answer")
	flagInteractive = pflag.BoolP("interactive", "i", false, "Keep prompting for new initial facts after the first answer")
	flagDirect      = pflag.BoolP("direct", "d", false, "Force reading interactive facts directly from stdin instead of going through readline where possible")
	flagConfig      = pflag.StringP("config", "c", "", "Load CLI defaults from the given TOML file instead of auto-discovering "+config.DefaultFileName)
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.CommandLine.Init("expertsystem", pflag.ContinueOnError)
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		returnCode = ExitError
		return
	}

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if pflag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "ERROR: missing input file argument")
		returnCode = ExitError
		return
	}
	inputFile := pflag.Arg(0)

	cfgPath, explicit := *flagConfig, *flagConfig != ""
	if !explicit {
		cfgPath = config.DefaultFileName
	}
	cfg, err := config.Load(cfgPath, explicit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", xerrors.UserMessage(err))
		returnCode = ExitError
		return
	}

	eng, err := expertsystem.New(inputFile, nil, os.Stdout, *flagDirect, *flagInteractive, *flagExplain, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", xerrors.UserMessage(err))
		returnCode = ExitError
		return
	}
	defer eng.Close()

	if err := eng.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", xerrors.UserMessage(err))
		returnCode = ExitError
		return
	}

	if *flagInteractive {
		if err := eng.RunInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", xerrors.UserMessage(err))
			returnCode = ExitError
			return
		}
	}
}

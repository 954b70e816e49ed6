// Package maincmd implements the tinycps command-line driver: run, repl,
// parse, and tokenize. A flag-tagged Cmd struct dispatches, via
// reflection, to an exported method named after each command, driven by
// mainer.Parser and mainer.CancelOnSignal.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
)

const binName = "tinycps"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> [<path>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> [<path>...]
       %[1]s -h|--help
       %[1]s -v|--version

Compiler, virtual machine, and REPL for the tiny CPS s-expression
language.

The <command> can be one of:
       run                       Compile and execute a file, printing the
                                 value its main function returns.
       repl                      Start an interactive read-eval-print
                                 loop.
       parse                     Execute the parser phase and print the
                                 resulting s-expression forms.
       tokenize                  Execute the scanner phase and print the
                                 resulting tokens.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --max-steps N             Override TINYCPS_MAX_STEPS for this run.

More information on the tinycps repository:
       https://github.com/mna/tinycps
`, binName)
)

// Cmd is the tinycps entry point.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	MaxSteps int `flag:"max-steps"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

// SetArgs records the non-flag arguments: the subcommand name and its own
// arguments.
func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

// SetFlags records which flags were explicitly set on the command line.
func (c *Cmd) SetFlags(flags map[string]bool) {
	c.flags = flags
}

// Validate resolves the requested subcommand to one of Cmd's exported
// command methods.
func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]
	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	if (cmdName == "run" || cmdName == "parse" || cmdName == "tokenize") && len(c.args[1:]) != 1 {
		return fmt.Errorf("%s: expected exactly one file argument", cmdName)
	}
	if cmdName == "repl" && len(c.args[1:]) != 0 {
		return fmt.Errorf("repl: takes no arguments")
	}

	return nil
}

// Main parses args, validates them, and dispatches to the requested
// subcommand, returning the process exit code.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false, // env vars for run/repl settings go through internal/config instead
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success

	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		// each command prints its own errors; just report the exit code here
		return mainer.Failure
	}
	return mainer.Success
}

// buildCmds is a reflection-based lookup: any exported
// method of v with signature (context.Context, mainer.Stdio, []string)
// error becomes a command named after its lower-cased method name.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}

package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mna/mainer"
	"github.com/mna/tinycps/internal/config"
	"github.com/mna/tinycps/lang/ast"
	"github.com/mna/tinycps/lang/compiler"
	"github.com/mna/tinycps/lang/lower"
	"github.com/mna/tinycps/lang/machine"
	"github.com/mna/tinycps/lang/parser"
	"github.com/mna/tinycps/lang/scanner"
	"github.com/mna/tinycps/lang/token"
)

// Run compiles and executes a single file, printing the value its main
// function returns.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return printErr(stdio, err)
	}

	mod, err := loadModule(args[0])
	if err != nil {
		return printErr(stdio, err)
	}
	if !mod.Has("main") {
		return printErr(stdio, fmt.Errorf("%s: no main function defined", args[0]))
	}

	prog, err := compiler.Compile(mod)
	if err != nil {
		return printErr(stdio, err)
	}

	result, err := machine.Run(ctx, prog, "main", cfg.MaxSteps)
	if err != nil {
		return printErr(stdio, err)
	}

	fmt.Fprintln(stdio.Stdout, result)
	return nil
}

// Parse prints the s-expression forms read from a single file.
func (c *Cmd) Parse(_ context.Context, stdio mainer.Stdio, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return printErr(stdio, err)
	}

	f := token.NewFile(args[0])
	forms, err := parser.ParseAll(f, src)
	if err != nil {
		return printErr(stdio, err)
	}
	for _, form := range forms {
		fmt.Fprintln(stdio.Stdout, form.String())
	}
	return nil
}

// Tokenize prints the token stream read from a single file.
func (c *Cmd) Tokenize(_ context.Context, stdio mainer.Stdio, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return printErr(stdio, err)
	}

	f := token.NewFile(args[0])
	toks, err := scanner.ScanAll(f, src)
	if err != nil {
		return printErr(stdio, err)
	}
	for _, tv := range toks {
		fmt.Fprintf(stdio.Stdout, "%-12s %-8q %s\n", tv.Token, tv.Lit, tv.Pos)
	}
	return nil
}

// Repl drives an interactive read-eval-print loop over the CPS language:
// a `def` form is stored in the running module and acknowledged; anything
// else is wrapped as a call to lower.InteractiveMain, compiled, and
// executed immediately.
func (c *Cmd) Repl(ctx context.Context, stdio mainer.Stdio, _ []string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return printErr(stdio, err)
	}

	mod := ast.NewModule(8)

	var history *os.File
	if cfg.REPLHistory != "" {
		h, err := os.OpenFile(cfg.REPLHistory, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			history = h
			defer history.Close()
		}
	}

	const prompt = "tinycps> "
	sc := bufio.NewScanner(stdio.Stdin)
	fmt.Fprint(stdio.Stdout, prompt)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			fmt.Fprint(stdio.Stdout, prompt)
			continue
		}
		if history != nil {
			fmt.Fprintln(history, line)
		}

		if err := replEval(ctx, stdio, cfg, mod, line); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
		}
		fmt.Fprint(stdio.Stdout, prompt)
	}
	return sc.Err()
}

func (c *Cmd) loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if c.MaxSteps > 0 {
		cfg.MaxSteps = c.MaxSteps
	}
	return cfg, nil
}

func printErr(stdio mainer.Stdio, err error) error {
	fmt.Fprintf(stdio.Stderr, "%s\n", err)
	return err
}

func loadModule(path string) (*ast.Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := token.NewFile(path)
	forms, err := parser.ParseAll(f, src)
	if err != nil {
		return nil, err
	}
	return lower.Lower(forms)
}

func replEval(ctx context.Context, stdio mainer.Stdio, cfg config.Config, mod *ast.Module, line string) error {
	f := token.NewFile("<repl>")
	forms, err := parser.ParseAll(f, []byte(line))
	if err != nil {
		return err
	}
	if len(forms) != 1 {
		return fmt.Errorf("enter exactly one form at a time")
	}

	entry, err := lower.LowerREPL(forms[0], mod)
	if err != nil {
		return err
	}

	if entry != lower.InteractiveMain {
		fmt.Fprintf(stdio.Stdout, "defined %s\n", entry)
		return nil
	}

	prog, err := compiler.Compile(mod)
	if err != nil {
		return err
	}
	result, err := machine.Run(ctx, prog, entry, cfg.MaxSteps)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdio.Stdout, result)
	return nil
}

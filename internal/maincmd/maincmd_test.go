package maincmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mna/mainer"
	"github.com/mna/tinycps/internal/filetest"
	"github.com/mna/tinycps/internal/maincmd"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (mainer.ExitCode, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	c := maincmd.Cmd{BuildVersion: "1.2.3", BuildDate: "2026-01-01"}
	code := c.Main(append([]string{"tinycps"}, args...), mainer.Stdio{
		Stdin:  strings.NewReader(""),
		Stdout: &out,
		Stderr: &errOut,
	})
	return code, out.String(), errOut.String()
}

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.tcps")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestCmdVersion(t *testing.T) {
	code, out, _ := run(t, "--version")
	require.Equal(t, mainer.Success, code)
	filetest.DiffOutput(t, "tinycps 1.2.3 2026-01-01\n", out)
}

func TestCmdHelp(t *testing.T) {
	code, out, _ := run(t, "--help")
	require.Equal(t, mainer.Success, code)
	require.Contains(t, out, "usage: tinycps")
	require.Contains(t, out, "Compiler, virtual machine, and REPL")
}

func TestCmdNoCommandIsInvalidArgs(t *testing.T) {
	code, _, errOut := run(t)
	require.Equal(t, mainer.InvalidArgs, code)
	require.Contains(t, errOut, "no command specified")
}

func TestCmdUnknownCommandIsInvalidArgs(t *testing.T) {
	code, _, errOut := run(t, "frobnicate")
	require.Equal(t, mainer.InvalidArgs, code)
	require.Contains(t, errOut, "unknown command")
}

func TestCmdRunRequiresExactlyOneFile(t *testing.T) {
	code, _, errOut := run(t, "run")
	require.Equal(t, mainer.InvalidArgs, code)
	require.Contains(t, errOut, "expected exactly one file argument")
}

func TestCmdReplTakesNoArguments(t *testing.T) {
	code, _, errOut := run(t, "repl", "extra")
	require.Equal(t, mainer.InvalidArgs, code)
	require.Contains(t, errOut, "repl: takes no arguments")
}

func TestCmdRunExecutesFile(t *testing.T) {
	path := writeSource(t, "(def main (ret) (ret 42))")
	code, out, _ := run(t, "run", path)
	require.Equal(t, mainer.Success, code)
	filetest.DiffOutput(t, "42\n", out)
}

func TestCmdRunMissingMainIsFailure(t *testing.T) {
	path := writeSource(t, "(def notmain (ret) (ret 1))")
	code, _, errOut := run(t, "run", path)
	require.Equal(t, mainer.Failure, code)
	require.Contains(t, errOut, "no main function defined")
}

func TestCmdRunNonCallBodyIsFailure(t *testing.T) {
	// A main body that is not a Call is rejected at compile time with a
	// clear diagnostic.
	path := writeSource(t, "(def main (ret) ret)")
	code, _, errOut := run(t, "run", path)
	require.Equal(t, mainer.Failure, code)
	require.NotEmpty(t, errOut)
}

func TestCmdParsePrintsForms(t *testing.T) {
	path := writeSource(t, "(def main (ret) (ret 42))")
	code, out, _ := run(t, "parse", path)
	require.Equal(t, mainer.Success, code)
	require.Contains(t, out, "def")
	require.Contains(t, out, "main")
}

func TestCmdTokenizePrintsTokens(t *testing.T) {
	path := writeSource(t, "(ret 1)")
	code, out, _ := run(t, "tokenize", path)
	require.Equal(t, mainer.Success, code)
	require.Contains(t, out, "identifier")
	require.Contains(t, out, "number literal")
}

func TestCmdReplDefineThenCall(t *testing.T) {
	var out, errOut bytes.Buffer
	c := maincmd.Cmd{}
	in := strings.NewReader("(def double (ret x) (+ ret x x))\n(double finish 21)\n")
	code := c.Main([]string{"tinycps", "repl"}, mainer.Stdio{Stdin: in, Stdout: &out, Stderr: &errOut})
	require.Equal(t, mainer.Success, code)
	require.Contains(t, out.String(), "defined double")
	require.Contains(t, out.String(), "42")
	require.Empty(t, errOut.String())
}

func TestCmdReplEvaluatesBareConstant(t *testing.T) {
	var out, errOut bytes.Buffer
	c := maincmd.Cmd{}
	in := strings.NewReader("7\n")
	code := c.Main([]string{"tinycps", "repl"}, mainer.Stdio{Stdin: in, Stdout: &out, Stderr: &errOut})
	require.Equal(t, mainer.Success, code)
	require.Contains(t, out.String(), "7")
}

// The remaining tests exercise concrete end-to-end programs through the
// `run` command rather than the machine package directly, confirming the
// whole pipeline (scanner, parser, lowering, compiler, machine) agrees on
// each observable result.

func TestCmdRunImmediateReturn(t *testing.T) {
	path := writeSource(t, "(def main (ret) (ret 42))")
	code, out, _ := run(t, "run", path)
	require.Equal(t, mainer.Success, code)
	filetest.DiffOutput(t, "42\n", out)
}

func TestCmdRunArithmeticContinuationFirst(t *testing.T) {
	src := "(def add1 (ret x) (+ ret x 1)) (def main (ret) (add1 ret 5))"
	path := writeSource(t, src)
	code, out, _ := run(t, "run", path)
	require.Equal(t, mainer.Success, code)
	filetest.DiffOutput(t, "6\n", out)
}

func TestCmdRunIfWithComparison(t *testing.T) {
	// A comparison result threaded through an explicit continuation lambda
	// before being used as if's test argument, since a parenthesized call
	// argument must itself be a lambda.
	src := "(def main (ret) (< (lambda (b) (if ret b (lambda (k) (k 10)) (lambda (k) (k 20)))) 3 5))"
	path := writeSource(t, src)
	code, out, _ := run(t, "run", path)
	require.Equal(t, mainer.Success, code)
	filetest.DiffOutput(t, "10\n", out)
}

func TestCmdRunRecursiveFactorial(t *testing.T) {
	src := "(def fact (ret n acc)" +
		" (= (lambda (done)" +
		"   (if ret done" +
		"     (lambda (k) (k acc))" +
		"     (lambda (k)" +
		"       (* (lambda (acc2)" +
		"            (- (lambda (n2) (fact k n2 acc2))" +
		"               n 1))" +
		"          n acc))))" +
		"  n 0))" +
		" (def main (ret) (fact ret 5 1))"
	path := writeSource(t, src)
	code, out, _ := run(t, "run", path)
	require.Equal(t, mainer.Success, code)
	filetest.DiffOutput(t, "120\n", out)
}

func TestCmdRunClosureCapture(t *testing.T) {
	src := "(def make (ret x) (ret (lambda (k) (+ k x 10)))) (def main (ret) (make (lambda (f) (f ret)) 5))"
	path := writeSource(t, src)
	code, out, _ := run(t, "run", path)
	require.Equal(t, mainer.Success, code)
	filetest.DiffOutput(t, "15\n", out)
}

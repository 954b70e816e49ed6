// Package filetest provides golden-file diffing for the driver's
// end-to-end scenarios: a source program and its expected stdout.
package filetest

import (
	"testing"

	"github.com/kylelemons/godebug/diff"
)

// DiffOutput fails t with a readable diff if got != want.
func DiffOutput(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	t.Errorf("output mismatch (-want +got):\n%s", diff.Diff(want, got))
}

// DiffErrors behaves like DiffOutput but is used where the compared text
// is an error message rather than stdout, keeping call sites self
// documenting.
func DiffErrors(t *testing.T, want, got string) {
	t.Helper()
	DiffOutput(t, want, got)
}

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/tabula"
	"github.com/aretw0/tabula/internal/presentation/tui"
	"github.com/aretw0/tabula/pkg/machines"
)

// nouns names what each built-in machine recognises, for the verdict line.
var nouns = map[string]string{
	machines.BinaryName:     "binary number",
	machines.ExpressionName: "arithmetic expression",
}

// Noun returns the phrase used in "Is <input> a valid <noun>?".
func Noun(machine string) string {
	if n, ok := nouns[machine]; ok {
		return n
	}
	return machine
}

// RunCheck validates every input against machine and prints one verdict line
// per input. It reports whether all inputs were accepted.
func RunCheck(ctx context.Context, w io.Writer, eng *tabula.Engine, machine string, inputs []string, color bool) (bool, error) {
	all := true
	for _, in := range inputs {
		res, err := eng.Validate(ctx, machine, in)
		if err != nil {
			return false, err
		}
		all = all && res.Accepted
		fmt.Fprintln(w, tui.Verdict(in, Noun(machine), res.Accepted, color))
	}
	return all, nil
}

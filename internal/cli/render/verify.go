package render

import (
	"fmt"
	"io"

	"github.com/samber/lo"

	"github.com/chainseed-org/chainseed/internal/domain"
)

// VerifyRenderer renders standalone verification results.
type VerifyRenderer struct {
	out io.Writer
}

// NewVerifyRenderer creates a new verify renderer.
func NewVerifyRenderer(out io.Writer) *VerifyRenderer {
	return &VerifyRenderer{out: out}
}

// Render renders check results. Failed checks render as warnings; they do
// not make the command fail.
func (r *VerifyRenderer) Render(results []domain.CheckResult) error {
	if len(results) == 0 {
		fmt.Fprintln(r.out, "No checks declared")
		return nil
	}

	for _, c := range results {
		switch {
		case c.Passed:
			fmt.Fprintf(r.out, "  %s %s\n", passStyle.Sprint("✓"), c.Name)
		case c.Err != nil:
			fmt.Fprintf(r.out, "  %s %s: %v\n", warnStyle.Sprint("!"), c.Name, c.Err)
		default:
			fmt.Fprintf(r.out, "  %s %s: expected %s, got %s\n",
				warnStyle.Sprint("!"), c.Name, c.Expected, c.Actual)
		}
	}

	passed := lo.CountBy(results, func(c domain.CheckResult) bool { return c.Passed })
	fmt.Fprintf(r.out, "\n%d/%d checks passed\n", passed, len(results))
	return nil
}

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/streamcheck/harness"
	"github.com/sarchlab/streamcheck/sim/clock"
	"github.com/sarchlab/streamcheck/sim/hooking"
)

// progressPrinter rewrites one status line every interval cycles.
type progressPrinter struct {
	w        io.Writer
	test     *harness.Test
	interval uint64
}

func newProgressPrinter(
	w io.Writer,
	test *harness.Test,
	interval uint64,
) *progressPrinter {
	return &progressPrinter{w: w, test: test, interval: interval}
}

func (p *progressPrinter) Func(ctx hooking.HookCtx) {
	if ctx.Pos != clock.HookPosEdge {
		return
	}

	edge := ctx.Item.(clock.Edge)
	if edge.Kind != clock.Rising || edge.Cycle == 0 ||
		edge.Cycle%p.interval != 0 {
		return
	}

	var done, total uint64

	pending := []string{}

	for _, m := range p.test.Progress() {
		done += min(m.Outputs, m.Target)
		total += m.Target

		if !m.Done {
			pending = append(pending, m.Name)
		}
	}

	fmt.Fprintf(p.w, "\r\033[Kcycle %d: %d/%d outputs, waiting for %s",
		edge.Cycle, done, total, strings.Join(pending, ", "))
}

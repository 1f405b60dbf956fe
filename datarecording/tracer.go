package datarecording

import (
	"github.com/sarchlab/streamcheck/models"
	"github.com/sarchlab/streamcheck/sim/hooking"
	"github.com/sarchlab/streamcheck/sim/id"
)

// Table names written by the Tracer.
const (
	TransferTable = "transfers"
	GrantTable    = "grants"
)

// TransferEntry is one row of the transfers table.
type TransferEntry struct {
	ID        string
	Model     string
	Direction string
	Port      int
	Cycle     uint64
	Payload   string
}

// GrantEntry is one row of the grants table.
type GrantEntry struct {
	ID    string
	Model string
	Cycle uint64
	Port  int
}

// Tracer is a hook that records the transfers and grants of models.
type Tracer struct {
	recorder DataRecorder
	ids      id.IDGenerator
}

// NewTracer creates the tables of the tracer.
func NewTracer(recorder DataRecorder) *Tracer {
	t := &Tracer{
		recorder: recorder,
		ids:      id.NewIDGenerator(),
	}

	recorder.CreateTable(TransferTable, TransferEntry{})
	recorder.CreateTable(GrantTable, GrantEntry{})

	return t
}

// Attach registers the tracer on models.
func (t *Tracer) Attach(ms ...models.Model) {
	for _, m := range ms {
		m.AcceptHook(t)
	}
}

// Func records the transfer or grant of a hook context.
func (t *Tracer) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case models.HookPosTransfer:
		tr := ctx.Item.(models.Transfer)
		t.recorder.InsertData(TransferTable, TransferEntry{
			ID:        t.ids.Generate(),
			Model:     tr.Model,
			Direction: string(tr.Direction),
			Port:      tr.Port,
			Cycle:     tr.Cycle,
			Payload:   tr.Payload.String(),
		})
	case models.HookPosGrant:
		g := ctx.Item.(models.GrantInfo)
		t.recorder.InsertData(GrantTable, GrantEntry{
			ID:    t.ids.Generate(),
			Model: g.Model,
			Cycle: g.Cycle,
			Port:  g.Port,
		})
	}
}

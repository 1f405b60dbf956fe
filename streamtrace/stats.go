// Package streamtrace collects transfer statistics and writes transfer
// traces while a test runs.
package streamtrace

import (
	"sort"
	"sync"

	"github.com/sarchlab/streamcheck/models"
	"github.com/sarchlab/streamcheck/sim/hooking"
)

// PortStats counts the transfers of one port of a model.
type PortStats struct {
	Model      string           `json:"model"`
	Direction  models.Direction `json:"direction"`
	Port       int              `json:"port"`
	Transfers  uint64           `json:"transfers"`
	Grants     uint64           `json:"grants"`
	FirstCycle uint64           `json:"first_cycle"`
	LastCycle  uint64           `json:"last_cycle"`
}

// Throughput returns the transfers per cycle between the first and the last
// transfer.
func (s PortStats) Throughput() float64 {
	if s.Transfers == 0 {
		return 0
	}

	return float64(s.Transfers) / float64(s.LastCycle-s.FirstCycle+1)
}

type portKey struct {
	model string
	dir   models.Direction
	port  int
}

// StatsTracer is a hook that counts transfers per port and grants per
// arbiter input.
type StatsTracer struct {
	lock  sync.Mutex
	stats map[portKey]*PortStats
}

// NewStatsTracer creates a new StatsTracer.
func NewStatsTracer() *StatsTracer {
	return &StatsTracer{
		stats: make(map[portKey]*PortStats),
	}
}

// Attach registers the tracer on models.
func (t *StatsTracer) Attach(ms ...models.Model) {
	for _, m := range ms {
		m.AcceptHook(t)
	}
}

// Func counts a transfer or a grant.
func (t *StatsTracer) Func(ctx hooking.HookCtx) {
	t.lock.Lock()
	defer t.lock.Unlock()

	switch ctx.Pos {
	case models.HookPosTransfer:
		tr := ctx.Item.(models.Transfer)
		s := t.entry(portKey{tr.Model, tr.Direction, tr.Port})

		if s.Transfers == 0 {
			s.FirstCycle = tr.Cycle
		}

		s.Transfers++
		s.LastCycle = tr.Cycle
	case models.HookPosGrant:
		g := ctx.Item.(models.GrantInfo)
		if g.Port == int(models.NoGrant) {
			return
		}

		t.entry(portKey{g.Model, models.DirInput, g.Port}).Grants++
	}
}

func (t *StatsTracer) entry(k portKey) *PortStats {
	s, ok := t.stats[k]
	if !ok {
		s = &PortStats{Model: k.model, Direction: k.dir, Port: k.port}
		t.stats[k] = s
	}

	return s
}

// Stats returns the statistics sorted by model, direction, and port.
func (t *StatsTracer) Stats() []PortStats {
	t.lock.Lock()
	defer t.lock.Unlock()

	list := make([]PortStats, 0, len(t.stats))
	for _, s := range t.stats {
		list = append(list, *s)
	}

	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Model != b.Model {
			return a.Model < b.Model
		}

		if a.Direction != b.Direction {
			return a.Direction < b.Direction
		}

		return a.Port < b.Port
	})

	return list
}

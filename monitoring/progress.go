package monitoring

import (
	"sync"
	"time"

	"github.com/sarchlab/streamcheck/models"
	"github.com/sarchlab/streamcheck/sim/hooking"
)

// A ProgressBar tracks how many outputs a model has checked.
type ProgressBar struct {
	sync.Mutex
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

// IncrementInProgress adds the number of in-progress element.
func (b *ProgressBar) IncrementInProgress(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress += amount
}

// IncrementFinished adds to the finished elements. Finished never exceeds
// Total.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
	if b.Total > 0 && b.Finished > b.Total {
		b.Finished = b.Total
	}
}

// MoveInProgressToFinished reduces the number of in progress item by a certain
// amount and increase the finished item by the same amount.
func (b *ProgressBar) MoveInProgressToFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress -= min(amount, b.InProgress)

	b.Finished += amount
	if b.Total > 0 && b.Finished > b.Total {
		b.Finished = b.Total
	}
}

func (b *ProgressBar) snapshot() ProgressBar {
	b.Lock()
	defer b.Unlock()

	return ProgressBar{
		ID:         b.ID,
		Name:       b.Name,
		StartTime:  b.StartTime,
		Total:      b.Total,
		Finished:   b.Finished,
		InProgress: b.InProgress,
	}
}

// progressHook moves a bar as the model checks transfers. Inputs are in
// progress until an output is checked.
type progressHook struct {
	bar *ProgressBar
}

func (h *progressHook) Func(ctx hooking.HookCtx) {
	if ctx.Pos != models.HookPosTransfer {
		return
	}

	tr := ctx.Item.(models.Transfer)
	switch tr.Direction {
	case models.DirInput:
		h.bar.IncrementInProgress(1)
	case models.DirOutput:
		h.bar.MoveInProgressToFinished(1)
	}
}

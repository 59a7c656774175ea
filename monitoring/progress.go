package monitoring

import (
	"math"
	"sync"
	"time"

	"github.com/sarchlab/epinet/sim/hooking"
	"github.com/sarchlab/epinet/sim/timing"
)

// A ProgressBar is a tracker of the progress
type ProgressBar struct {
	sync.Mutex `json:"-"`

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

// IncrementFinished add a certain amount to finished element.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// MoveInProgressToFinished reduces the number of in progress item by a certain
// amount and increase the finished item by the same amount.
func (b *ProgressBar) MoveInProgressToFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress -= amount
	b.Finished += amount
}

// SetFinished moves the number of finished elements forward to amount. It
// never moves backward and never goes beyond the total.
func (b *ProgressBar) SetFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	amount = min(amount, b.Total)
	if amount > b.Finished {
		b.Finished = amount
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

// ProgressHook advances a progress bar as the simulated time of the events
// handled by an engine approaches the horizon.
type ProgressHook struct {
	bar     *ProgressBar
	horizon timing.VTimeInSec
}

// NewProgressHook creates a hook that maps the time of every handled event
// in [0, horizon) onto the range of bar.
func NewProgressHook(bar *ProgressBar, horizon timing.VTimeInSec) *ProgressHook {
	return &ProgressHook{bar: bar, horizon: horizon}
}

// Func updates the bar after every event.
func (h *ProgressHook) Func(ctx hooking.HookCtx) {
	if ctx.Pos != timing.HookPosAfterEvent || !(h.horizon > 0) {
		return
	}

	evt, ok := ctx.Item.(timing.Event)
	if !ok {
		return
	}

	fraction := math.Min(evt.Time()/h.horizon, 1)
	h.bar.SetFinished(uint64(fraction * float64(h.bar.Total)))
}

// Finish fills the bar once the run is over.
func (h *ProgressHook) Finish() {
	h.bar.SetFinished(h.bar.Total)
}

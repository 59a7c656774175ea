package seir

import (
	"github.com/sarchlab/epinet/datarecording"
	"github.com/sarchlab/epinet/sim/hooking"
)

// Names of the tables written by a Recorder.
const (
	EventTable       = "event"
	FinalStatusTable = "final_status"
	TallyTable       = "tally"
)

// EventEntry is one dispatched event.
type EventEntry struct {
	RunID        string
	Time         float64
	Node         int
	Action       string
	StatusBefore string
	StatusAfter  string
	Applied      bool
}

// FinalStatusEntry is the status of one node at the end of a run.
type FinalStatusEntry struct {
	RunID  string
	Node   int
	X      float64
	Y      float64
	Status string
}

// TallyEntry is the number of nodes in each status at the end of a run.
type TallyEntry struct {
	RunID       string
	EndTime     float64
	Susceptible int
	Exposed     int
	Infected    int
	Removed     int
	Dispatched  uint64
	Dropped     uint64
}

// Recorder writes the events and results of runs into a DataRecorder. Rows
// are tagged with the id of the current run.
type Recorder struct {
	recorder datarecording.DataRecorder
	watcher  *TransitionTracer
	runID    string
}

// NewRecorderHook creates the tables and returns a Recorder whose hook must
// be registered on the simulation to capture events.
func NewRecorderHook(
	recorder datarecording.DataRecorder,
	store *NodeStore,
) *Recorder {
	r := &Recorder{recorder: recorder}
	r.watcher = NewTransitionWatcher(store, r.recordTransition)

	recorder.CreateTable(EventTable, EventEntry{})
	recorder.CreateTable(FinalStatusTable, FinalStatusEntry{})
	recorder.CreateTable(TallyTable, TallyEntry{})

	return r
}

// StartRun tags the rows written from now on with runID.
func (r *Recorder) StartRun(runID string) {
	r.runID = runID
	r.watcher.Reset()
}

// Func records the event of the hook context.
func (r *Recorder) Func(ctx hooking.HookCtx) {
	r.watcher.Func(ctx)
}

func (r *Recorder) recordTransition(t Transition) {
	r.recorder.InsertData(EventTable, EventEntry{
		RunID:        r.runID,
		Time:         t.Time,
		Node:         t.Node,
		Action:       t.Action.String(),
		StatusBefore: t.Before.String(),
		StatusAfter:  t.After.String(),
		Applied:      t.Applied(),
	})
}

// RecordResult writes the final status of every node and the tally of a
// finished run.
func (r *Recorder) RecordResult(store *NodeStore, result *Result) {
	for id, status := range result.Statuses {
		loc := store.Location(id)
		r.recorder.InsertData(FinalStatusTable, FinalStatusEntry{
			RunID:  r.runID,
			Node:   id,
			X:      loc.X,
			Y:      loc.Y,
			Status: status.String(),
		})
	}

	r.recorder.InsertData(TallyTable, TallyEntry{
		RunID:       r.runID,
		EndTime:     result.EndTime,
		Susceptible: result.Tally.Susceptible,
		Exposed:     result.Tally.Exposed,
		Infected:    result.Tally.Infected,
		Removed:     result.Tally.Removed,
		Dispatched:  result.Dispatched,
		Dropped:     result.Dropped,
	})

	r.recorder.Flush()
}

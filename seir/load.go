package seir

import (
	"context"
	"errors"
	"fmt"

	"github.com/sarchlab/epinet/datarecording"
)

// ErrRunNotFound is returned when a recording holds no tally for a run.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is what a recording holds about one finished run.
type RunRecord struct {
	Tally  TallyEntry
	Final  []FinalStatusEntry
	Events map[Action]int
}

// Statuses returns the final status of every node, indexed by node id.
func (r *RunRecord) Statuses() ([]Status, error) {
	statuses := make([]Status, len(r.Final))

	for _, f := range r.Final {
		if f.Node < 0 || f.Node >= len(statuses) {
			return nil, fmt.Errorf("%w: node %d in a run of %d nodes",
				ErrNodeNotFound, f.Node, len(statuses))
		}

		s, err := ParseStatus(f.Status)
		if err != nil {
			return nil, err
		}

		statuses[f.Node] = s
	}

	return statuses, nil
}

// FinalTally counts the final statuses of the nodes.
func (r *RunRecord) FinalTally() (Tally, error) {
	statuses, err := r.Statuses()
	if err != nil {
		return Tally{}, err
	}

	var t Tally
	for _, s := range statuses {
		t.add(s, 1)
	}

	return t, nil
}

// MapRecordTables binds the tables written by a Recorder on reader.
func MapRecordTables(reader datarecording.DataReader) {
	reader.MapTable(EventTable, EventEntry{})
	reader.MapTable(FinalStatusTable, FinalStatusEntry{})
	reader.MapTable(TallyTable, TallyEntry{})
}

// ListRuns returns the tallies of all the recorded runs, in the order they
// were recorded. A recording without runs gives an empty list.
func ListRuns(
	ctx context.Context,
	reader datarecording.DataReader,
) ([]TallyEntry, error) {
	found, err := reader.HasTable(ctx, TallyTable)
	if err != nil || !found {
		return nil, err
	}

	return datarecording.Select[TallyEntry](ctx, reader, TallyTable,
		datarecording.QueryParams{OrderBy: "rowid"})
}

// LoadRun reads back the tally, the final statuses and the applied event
// counts of one run. The tables must be mapped with MapRecordTables.
func LoadRun(
	ctx context.Context,
	reader datarecording.DataReader,
	runID string,
) (*RunRecord, error) {
	byRun := datarecording.QueryParams{Where: "RunID = ?", Args: []any{runID}}

	tallies, err := datarecording.Select[TallyEntry](ctx, reader, TallyTable,
		byRun)
	if err != nil {
		return nil, err
	}

	if len(tallies) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}

	final, err := datarecording.Select[FinalStatusEntry](ctx, reader,
		FinalStatusTable, datarecording.QueryParams{
			Where:   byRun.Where,
			Args:    byRun.Args,
			OrderBy: "Node",
		})
	if err != nil {
		return nil, err
	}

	events, err := datarecording.Select[EventEntry](ctx, reader, EventTable,
		datarecording.QueryParams{
			Where: "RunID = ? AND Applied = 1",
			Args:  byRun.Args,
		})
	if err != nil {
		return nil, err
	}

	record := &RunRecord{
		Tally:  tallies[len(tallies)-1],
		Final:  final,
		Events: make(map[Action]int),
	}

	for _, e := range events {
		a, err := ParseAction(e.Action)
		if err != nil {
			return nil, err
		}

		record.Events[a]++
	}

	return record, nil
}

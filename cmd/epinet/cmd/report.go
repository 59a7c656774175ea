package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/epinet/datarecording"
	"github.com/sarchlab/epinet/seir"
	"github.com/spf13/cobra"
)

func newReportCommand() *cobra.Command {
	var runID string

	c := &cobra.Command{
		Use:   "report <recording.sqlite3>",
		Short: "Summarize the runs stored in a recording.",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return report(c.Context(), args[0], runID, c.OutOrStdout())
		},
	}

	c.Flags().StringVar(&runID, "run", "",
		"show the final statuses and events of one run")

	return c
}

func report(ctx context.Context, path, runID string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := os.Stat(path); err != nil {
		return err
	}

	reader := datarecording.NewReader(path)
	defer reader.Close()

	seir.MapRecordTables(reader)
	reader.MapTable(datarecording.ExecInfoTable, datarecording.ExecInfo{})

	if err := reportExecInfo(ctx, reader, w); err != nil {
		return err
	}

	if runID != "" {
		return reportRun(ctx, reader, runID, w)
	}

	runs, err := seir.ListRuns(ctx, reader)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%-22s %10s %6s %6s %6s %6s %10s\n",
		"run", "end", "S", "E", "I", "R", "events")
	for _, r := range runs {
		fmt.Fprintf(w, "%-22s %10.4f %6d %6d %6d %6d %10d\n",
			r.RunID, r.EndTime,
			r.Susceptible, r.Exposed, r.Infected, r.Removed, r.Dispatched)
	}

	return nil
}

func reportExecInfo(
	ctx context.Context,
	reader datarecording.DataReader,
	w io.Writer,
) error {
	found, err := reader.HasTable(ctx, datarecording.ExecInfoTable)
	if err != nil || !found {
		return err
	}

	infos, err := datarecording.Select[datarecording.ExecInfo](ctx, reader,
		datarecording.ExecInfoTable, datarecording.QueryParams{})
	if err != nil {
		return err
	}

	for _, info := range infos {
		fmt.Fprintf(w, "%s: %s\n", info.Property, info.Value)
	}

	return nil
}

func reportRun(
	ctx context.Context,
	reader datarecording.DataReader,
	runID string,
	w io.Writer,
) error {
	record, err := seir.LoadRun(ctx, reader, runID)
	if err != nil {
		return err
	}

	tally, err := record.FinalTally()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "run: %s\n", runID)
	fmt.Fprintf(w, "nodes: %d\n", tally.Total())
	fmt.Fprintf(w, "end time: %.4f\n", record.Tally.EndTime)

	for _, s := range seir.Statuses() {
		fmt.Fprintf(w, "%s: %d\n", s, tally.Of(s))
	}

	for _, a := range seir.Actions() {
		fmt.Fprintf(w, "%s applied: %d\n", a, record.Events[a])
	}

	return nil
}

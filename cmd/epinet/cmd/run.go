package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/sarchlab/epinet/datarecording"
	"github.com/sarchlab/epinet/seir"
	"github.com/sarchlab/epinet/sim/hooking"
	"github.com/sarchlab/epinet/sim/id"
	"github.com/spf13/cobra"
)

func newRunCommand(env *envDefaults) *cobra.Command {
	o := &simOptions{}

	c := &cobra.Command{
		Use:   "run",
		Short: "Run one epidemic and print the final tally.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runOnce(o, c.OutOrStdout(), c.ErrOrStderr())
		},
	}

	o.register(c, env)

	return c
}

func runOnce(o *simOptions, stdout, stderr io.Writer) error {
	sim, rng, err := o.build(stderr)
	if err != nil {
		return err
	}

	m, progress, err := o.startMonitor(sim)
	if err != nil {
		return err
	}

	if m != nil {
		defer m.StopServer()
	}

	var (
		recorder datarecording.DataRecorder
		exec     *datarecording.ExecRecorder
		hook     *seir.Recorder
	)

	if o.record != "" {
		recorder = datarecording.New(o.record)
		defer recorder.Close()

		exec = startExecRecord(recorder, o)
		hook = seir.NewRecorderHook(recorder, sim.Store())
		hook.StartRun(id.NewRunIDGenerator().Generate())
		sim.AcceptHook(hook)
	}

	counts := hooking.NewCountHook(seir.ActionKey)
	sim.AcceptHook(counts)

	result, err := sim.Run(o.params, rng)
	if progress != nil {
		progress.Finish()
	}

	if result != nil {
		printResult(stdout, sim.Store().Len(), result)

		for _, a := range seir.Actions() {
			fmt.Fprintf(stdout, "%s events: %d\n", a, counts.Count(a.String()))
		}

		if hook != nil {
			hook.RecordResult(sim.Store(), result)
		}
	}

	if exec != nil {
		if err != nil {
			exec.Set("Error", err.Error())
		}

		exec.End()
	}

	return err
}

func startExecRecord(
	recorder datarecording.DataRecorder,
	o *simOptions,
) *datarecording.ExecRecorder {
	exec := datarecording.NewExecRecorder(recorder)
	exec.Start()

	props := o.describe()
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		exec.Set(name, props[name])
	}

	return exec
}

func printResult(w io.Writer, nodes int, r *seir.Result) {
	fmt.Fprintf(w, "nodes: %d\n", nodes)
	fmt.Fprintf(w, "end time: %.4f\n", r.EndTime)
	fmt.Fprintf(w, "susceptible: %d\n", r.Tally.Susceptible)
	fmt.Fprintf(w, "exposed: %d\n", r.Tally.Exposed)
	fmt.Fprintf(w, "infected: %d\n", r.Tally.Infected)
	fmt.Fprintf(w, "removed: %d\n", r.Tally.Removed)
	fmt.Fprintf(w, "events: %d dispatched, %d dropped at the horizon\n",
		r.Dispatched, r.Dropped)
}
